package session

import "github.com/leadwise/coach/backend/internal/model/conversation"

// MessageStore holds the ordered transcript of the active session. Messages
// are append-only for the life of a session; ReplaceAll exists solely for
// hydrating from a persisted conversation. The store is not safe for
// concurrent use on its own; the Pipeline serializes access to it.
type MessageStore struct {
	messages []conversation.Message
}

// NewMessageStore returns an empty store.
func NewMessageStore() *MessageStore {
	return &MessageStore{messages: make([]conversation.Message, 0, 16)}
}

// Append adds a message to the end of the transcript. The caller guarantees
// id uniqueness; no deduplication happens here.
func (s *MessageStore) Append(msg conversation.Message) {
	s.messages = append(s.messages, msg)
}

// ReplaceAll swaps the entire transcript atomically. Used only by the resume
// loader; no partially hydrated state is ever observable.
func (s *MessageStore) ReplaceAll(messages []conversation.Message) {
	s.messages = conversation.CloneMessages(messages)
	if s.messages == nil {
		s.messages = make([]conversation.Message, 0, 16)
	}
}

// Messages returns a copy of the transcript.
func (s *MessageStore) Messages() []conversation.Message {
	return conversation.CloneMessages(s.messages)
}

// Len reports the number of messages held.
func (s *MessageStore) Len() int {
	return len(s.messages)
}
