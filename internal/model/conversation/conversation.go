package conversation

import "time"

// Sender identifies which side of the dialogue produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Status tracks the lifecycle of a persisted conversation.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Message is a single turn in a coaching conversation. Immutable once created;
// id uniqueness within a conversation is the producer's responsibility.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the durable record of a coaching session.
// MessageCount always equals len(Messages) at persistence time; the store
// recomputes it on every write rather than trusting the caller.
type Conversation struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	Title         string    `json:"title"`
	Messages      []Message `json:"messages"`
	MessageCount  int       `json:"messageCount"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CloneMessages returns an independent copy of the transcript so callers can
// hold it without aliasing store-owned slices.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	copied := make([]Message, len(messages))
	copy(copied, messages)
	return copied
}
