package session

import (
	"regexp"
	"strings"
)

const titleMaxLen = 50

var nonWordOrSpace = regexp.MustCompile(`[^\w\s]`)

// GenerateTitle derives a short human-readable conversation title from the
// first user message. Punctuation is stripped; text longer than 50 characters
// is truncated and marked with an ellipsis. Deterministic, no side effects.
func GenerateTitle(text string) string {
	cleaned := strings.TrimSpace(nonWordOrSpace.ReplaceAllString(text, ""))

	runes := []rune(cleaned)
	if len(runes) <= titleMaxLen {
		return cleaned
	}

	truncated := strings.TrimRight(string(runes[:titleMaxLen]), " \t\n")
	return truncated + "..."
}
