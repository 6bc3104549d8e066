package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadwise/coach/backend/internal/model/conversation"
)

// MemoryStore implements Store with in-memory maps, suitable for tests and
// running without a database path configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]conversation.Conversation
}

// NewMemoryStore bootstraps an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]conversation.Conversation)}
}

// Create assigns an id and stores a new active conversation.
func (s *MemoryStore) Create(_ context.Context, topic, title string, messages []conversation.Message) (conversation.Conversation, error) {
	if topic == "" {
		return conversation.Conversation{}, ErrTopicMissing
	}

	now := time.Now().UTC()
	conv := conversation.Conversation{
		ID:            uuid.NewString(),
		Topic:         topic,
		Title:         title,
		Messages:      conversation.CloneMessages(messages),
		MessageCount:  len(messages),
		LastMessageAt: lastMessageAt(messages, now),
		Status:        conversation.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	s.items[conv.ID] = conv
	s.mu.Unlock()

	return s.clone(conv), nil
}

// Update replaces the transcript and recomputes the derived fields. Status and
// Title change only when explicitly set in the update.
func (s *MemoryStore) Update(_ context.Context, id string, upd Update) (conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.items[id]
	if !ok {
		return conversation.Conversation{}, ErrNotFound
	}

	now := time.Now().UTC()
	conv.Messages = conversation.CloneMessages(upd.Messages)
	conv.MessageCount = len(upd.Messages)
	conv.LastMessageAt = lastMessageAt(upd.Messages, now)
	conv.UpdatedAt = now
	if upd.Status != "" {
		conv.Status = upd.Status
	}
	if upd.Title != "" {
		conv.Title = upd.Title
	}

	s.items[id] = conv
	return s.clone(conv), nil
}

// Get retrieves a conversation by identifier.
func (s *MemoryStore) Get(_ context.Context, id string) (conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.items[id]
	if !ok {
		return conversation.Conversation{}, ErrNotFound
	}
	return s.clone(conv), nil
}

// List returns all conversations, most recently updated first.
func (s *MemoryStore) List(_ context.Context) ([]conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]conversation.Conversation, 0, len(s.items))
	for _, conv := range s.items {
		out = append(out, s.clone(conv))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Delete removes a conversation record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) clone(conv conversation.Conversation) conversation.Conversation {
	conv.Messages = conversation.CloneMessages(conv.Messages)
	return conv
}
