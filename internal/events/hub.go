package events

import (
	"sync"
	"time"
)

// ConversationPersisted announces a successful create or update of a
// conversation record. Consumers use it to refresh conversation lists instead
// of polling.
type ConversationPersisted struct {
	Event          string    `json:"event"`
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title"`
	MessageCount   int       `json:"messageCount"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EventConversationPersisted is the wire name for ConversationPersisted.
const EventConversationPersisted = "conversation.persisted"

const subscriberBuffer = 16

// Hub fans conversation events out to subscribers. Publishing never blocks: a
// subscriber that cannot keep up loses events rather than stalling writers.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan ConversationPersisted]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan ConversationPersisted]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called to release the channel.
func (h *Hub) Subscribe() (<-chan ConversationPersisted, func()) {
	ch := make(chan ConversationPersisted, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room in its buffer.
func (h *Hub) Publish(ev ConversationPersisted) {
	if ev.Event == "" {
		ev.Event = EventConversationPersisted
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
