package session_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadwise/coach/backend/internal/session"
)

func TestGenerateTitleStripsPunctuation(t *testing.T) {
	got := session.GenerateTitle("Help me assess my leadership style!!!")
	assert.Equal(t, "Help me assess my leadership style", got)
}

func TestGenerateTitleShortTextVerbatim(t *testing.T) {
	got := session.GenerateTitle("How do I delegate better")
	assert.Equal(t, "How do I delegate better", got)
}

func TestGenerateTitleTruncatesLongText(t *testing.T) {
	long := strings.Repeat("leadership growth ", 5) // 90 chars, no punctuation
	got := session.GenerateTitle(long)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 53)
	assert.Equal(t, strings.TrimRight(long[:50], " "), strings.TrimSuffix(got, "..."))
}

func TestGenerateTitleNoTrailingSpaceBeforeEllipsis(t *testing.T) {
	// Character 50 falls on a word boundary; the trailing space is trimmed.
	text := strings.Repeat("a", 49) + " bbbb"
	got := session.GenerateTitle(text)

	assert.Equal(t, strings.Repeat("a", 49)+"...", got)
}

func TestGenerateTitleDeterministic(t *testing.T) {
	in := "Can we talk about my team's motivation? It's been rough."
	assert.Equal(t, session.GenerateTitle(in), session.GenerateTitle(in))
}
