package chunker

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedBlock matches the first fenced code block in a model response.
// Non-greedy so trailing prose after the block is ignored.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractStringArray pulls a JSON string array out of the first fenced
// code block of a model response. A response without a fenced block
// yields an empty slice: the prompt contract requires the fence, and a
// model that ignored it cannot be trusted to have followed the rest.
// Anything unparseable also yields an empty slice, never an error: a
// malformed response means the document produced no usable propositions.
func ExtractStringArray(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	m := fencedBlock.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	candidate := strings.TrimSpace(m[1])

	var items []string
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
