package coach

import (
	"fmt"
	"strings"

	"github.com/leadwise/coach/backend/internal/model/topic"
)

// basePrompt frames every coaching conversation regardless of topic.
const basePrompt = `You are an experienced executive leadership coach. You help leaders grow through reflective questioning, honest observation, and practical next steps. Keep responses conversational and grounded in the leader's own situation; offer frameworks sparingly and only when they clarify.`

// PromptBuilder composes the system prompt for a coaching topic.
type PromptBuilder struct {
	rules []string
}

// NewPromptBuilder returns a builder with the default conversation rules.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		rules: []string{
			"Ask at most one question per response.",
			"Acknowledge what the leader said before adding your own perspective.",
			"Prefer concrete, near-term actions over abstract advice.",
			"Never fabricate facts about the leader's organization.",
		},
	}
}

// BuildSystemPrompt produces the full system prompt for a topic. Unknown
// topics fall back to the generic coaching frame.
func (b *PromptBuilder) BuildSystemPrompt(t topic.Topic) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)

	if t.Name != "" {
		sb.WriteString(fmt.Sprintf("\n\nCurrent coaching focus: %s", t.Name))
		if t.Focus != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", t.Focus))
		}
		sb.WriteString(".")
	} else if t.ID != "" {
		sb.WriteString(fmt.Sprintf("\n\nCurrent coaching focus: %s.", t.ID))
	}

	if t.PromptHint != "" {
		sb.WriteString("\nApproach: ")
		sb.WriteString(t.PromptHint)
	}

	if len(t.Skills) > 0 {
		sb.WriteString("\nSkills in play: ")
		sb.WriteString(strings.Join(t.Skills, ", "))
		sb.WriteString(".")
	}

	sb.WriteString("\n\nConversation rules:\n- ")
	sb.WriteString(strings.Join(b.rules, "\n- "))

	return sb.String()
}
