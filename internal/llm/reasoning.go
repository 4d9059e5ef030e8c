package llm

import "strings"

// reasoningDelimiter closes the thinking block some models emit before
// their actual answer.
const reasoningDelimiter = "</think>"

// StripReasoning removes a leading reasoning block from a model
// response. Everything up to and including the first closing delimiter
// is dropped; text without a delimiter passes through unchanged.
func StripReasoning(text string) string {
	if idx := strings.Index(text, reasoningDelimiter); idx >= 0 {
		return strings.TrimSpace(text[idx+len(reasoningDelimiter):])
	}
	return strings.TrimSpace(text)
}
