package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/leadwise/coach/backend/internal/config"
	"github.com/leadwise/coach/backend/internal/model/conversation"
	"github.com/leadwise/coach/backend/internal/model/topic"
)

// ErrEmptyReply is returned when the model produced no usable content.
var ErrEmptyReply = errors.New("model returned an empty reply")

// historyLimit caps how many prior turns are forwarded to the model.
const historyLimit = 20

// Service runs coaching turns through the configured chat model.
type Service struct {
	topics  topic.Store
	prompts *PromptBuilder
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
	log     zerolog.Logger
}

// NewService compiles the coaching chain on top of the Ark chat model.
func NewService(ctx context.Context, topics topic.Store, cfg config.AIConfig, log zerolog.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile coaching chain: %w", err)
	}

	return &Service{
		topics:  topics,
		prompts: NewPromptBuilder(),
		chain:   runnable,
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

// Reply generates a coaching response for one turn of the conversation. The
// model call is bounded by the configured coach timeout.
func (s *Service) Reply(ctx context.Context, topicID string, history []conversation.Message, message string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	t, ok := s.topics.FindByID(topicID)
	if !ok {
		t = topic.Topic{ID: topicID}
	}

	input := map[string]any{
		"system":  s.prompts.BuildSystemPrompt(t),
		"history": buildHistoryMessages(history),
		"query":   message,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run coaching chain: %w", err)
	}
	if response == nil || response.Content == "" {
		return "", ErrEmptyReply
	}

	s.log.Debug().
		Str("topic", topicID).
		Int("history", len(history)).
		Int("reply_length", len(response.Content)).
		Msg("generated coaching reply")
	return response.Content, nil
}

func buildHistoryMessages(messages []conversation.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case conversation.SenderUser:
			history = append(history, schema.UserMessage(msg.Text))
		case conversation.SenderAI:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}

	return history
}
