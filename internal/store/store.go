package store

import (
	"context"
	"errors"
	"time"

	"github.com/leadwise/coach/backend/internal/model/conversation"
)

var (
	ErrNotFound     = errors.New("conversation not found")
	ErrTopicMissing = errors.New("topic is required")
)

// Update describes a partial write against an existing conversation. Messages
// replace the full transcript (the client always resends the accumulated
// sequence, so a repeated update converges to the same stored state). A zero
// Status leaves the stored status untouched; Title likewise.
type Update struct {
	Messages []conversation.Message
	Status   conversation.Status
	Title    string
}

// Store persists conversation records. Implementations recompute
// MessageCount and LastMessageAt on every write so the stored invariant
// messageCount == len(messages) cannot drift.
type Store interface {
	Create(ctx context.Context, topic, title string, messages []conversation.Message) (conversation.Conversation, error)
	Update(ctx context.Context, id string, upd Update) (conversation.Conversation, error)
	Get(ctx context.Context, id string) (conversation.Conversation, error)
	List(ctx context.Context) ([]conversation.Conversation, error)
	Delete(ctx context.Context, id string) error
}

// lastMessageAt picks the newest message timestamp, falling back to now for
// an empty transcript.
func lastMessageAt(messages []conversation.Message, now time.Time) time.Time {
	if len(messages) == 0 {
		return now
	}
	return messages[len(messages)-1].Timestamp
}
