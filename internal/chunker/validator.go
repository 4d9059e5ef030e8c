// Package chunker turns wiki documents into self-contained Spanish
// propositions using an LLM. Chunking is best-effort by design: a
// document that cannot be chunked yields zero propositions and a
// logged reason, never an error that would abort a bulk ingestion.
package chunker

import "strings"

// Validation reasons logged when a document is skipped.
const (
	ReasonEmpty    = "empty content"
	ReasonTooLarge = "content exceeds size limit"
)

// ValidForChunking reports whether a document's text is worth sending
// to the model. It returns the skip reason when the answer is no.
//
// Whitespace-only text counts as empty; the size check runs on the
// original text, not the trimmed one, since the size guard exists to
// bound prompt cost.
func ValidForChunking(text string, maxSize int) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, ReasonEmpty
	}
	if maxSize > 0 && len(text) > maxSize {
		return false, ReasonTooLarge
	}
	return true, ""
}
