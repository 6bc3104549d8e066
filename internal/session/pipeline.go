package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadwise/coach/backend/internal/model/conversation"
)

// State tracks where the pipeline is inside one send round trip.
type State string

const (
	StateIdle      State = "idle"
	StateSending   State = "sending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

var (
	// ErrEmptyMessage rejects blank input before any state mutation.
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrBusy rejects a send, clear or resume while another send is in flight.
	ErrBusy = errors.New("another send is in flight")
)

// FallbackReply is shown in place of a coaching response when the remote
// service fails, so the user always sees a visible reply.
const FallbackReply = "I'm sorry, I'm having trouble responding right now. Give me a moment and let's try that again."

const defaultCoachTimeout = 60 * time.Second

// Coach produces one coaching reply for a turn.
type Coach interface {
	Reply(ctx context.Context, message, topicID string, history []conversation.Message, conversationID string) (string, error)
}

// Persister durably creates, updates and fetches conversation records.
type Persister interface {
	Create(ctx context.Context, topic, title string, messages []conversation.Message) (conversation.Conversation, error)
	Update(ctx context.Context, id string, messages []conversation.Message) (conversation.Conversation, error)
	Get(ctx context.Context, id string) (conversation.Conversation, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimeout bounds the remote coach call. A timed-out call follows the
// fallback path instead of leaving the typing indicator stuck.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger attaches a logger to the pipeline.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// Pipeline drives one chat session: it owns the message store and the
// conversation id, runs the Idle → Sending → (Succeeded|Failed) → Idle state
// machine for each turn, and decides between create and update persistence.
//
// One session has at most one send in flight; overlapping SendMessage calls
// return ErrBusy rather than queueing.
type Pipeline struct {
	mu        sync.Mutex
	store     *MessageStore
	coach     Coach
	persister Persister
	timeout   time.Duration
	log       zerolog.Logger

	state          State
	inFlight       bool
	typing         bool
	loadingHistory bool
	conversationID string
	onPersisted    func(conversation.Conversation)
}

// NewPipeline creates an idle pipeline with an empty message store.
func NewPipeline(coach Coach, persister Persister, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     NewMessageStore(),
		coach:     coach,
		persister: persister,
		timeout:   defaultCoachTimeout,
		log:       zerolog.Nop(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnPersisted registers a callback fired after every successful create or
// update, replacing any implicit cache-invalidation side channel. The callback
// runs on the sending goroutine; keep it short.
func (p *Pipeline) OnPersisted(fn func(conversation.Conversation)) {
	p.mu.Lock()
	p.onPersisted = fn
	p.mu.Unlock()
}

// SendMessage runs one full turn: append the user message optimistically,
// call the coach, append the reply (or the fallback), then persist. Remote and
// persistence failures are contained; only validation and overlap are errors.
func (p *Pipeline) SendMessage(ctx context.Context, text, topicID string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrBusy
	}
	p.inFlight = true
	p.state = StateSending
	p.typing = true

	// History is the transcript before this turn's user message.
	history := p.store.Messages()
	p.store.Append(newMessage(conversation.SenderUser, text))
	convID := p.conversationID
	p.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	reply, err := p.coach.Reply(callCtx, text, topicID, history, convID)
	cancel()

	if err != nil || reply == "" {
		if err == nil {
			err = errors.New("empty reply")
		}
		p.log.Warn().Err(err).Str("topic", topicID).Msg("coach call failed, appending fallback reply")

		p.mu.Lock()
		p.typing = false
		p.store.Append(newMessage(conversation.SenderAI, FallbackReply))
		p.state = StateFailed
		p.finishTurnLocked()
		p.mu.Unlock()
		return nil
	}

	p.mu.Lock()
	p.typing = false
	p.store.Append(newMessage(conversation.SenderAI, reply))
	p.state = StateSucceeded
	transcript := p.store.Messages()
	convID = p.conversationID
	p.mu.Unlock()

	p.persist(ctx, convID, topicID, transcript)

	p.mu.Lock()
	p.finishTurnLocked()
	p.mu.Unlock()
	return nil
}

// persist runs the create-or-update decision for a successful turn. The user's
// in-memory state stays correct even when persistence fails: the next turn
// resends the full transcript, so a missed update self-heals.
func (p *Pipeline) persist(ctx context.Context, convID, topicID string, transcript []conversation.Message) {
	var (
		persisted conversation.Conversation
		err       error
	)

	switch {
	case convID != "":
		persisted, err = p.persister.Update(ctx, convID, transcript)
	case len(transcript) >= 2:
		title := GenerateTitle(firstUserText(transcript))
		persisted, err = p.persister.Create(ctx, topicID, title, transcript)
		if err == nil {
			p.mu.Lock()
			p.conversationID = persisted.ID
			p.mu.Unlock()
		}
	default:
		// Unreachable in practice: every successful turn adds two messages.
		return
	}

	if err != nil {
		p.log.Warn().Err(err).Str("conversation_id", convID).Msg("persistence failed, will self-heal next turn")
		return
	}

	p.mu.Lock()
	fn := p.onPersisted
	p.mu.Unlock()
	if fn != nil {
		fn(persisted)
	}
}

// finishTurnLocked returns the state machine to Idle. Callers hold p.mu.
func (p *Pipeline) finishTurnLocked() {
	p.log.Debug().Str("outcome", string(p.state)).Int("messages", p.store.Len()).Msg("turn finished")
	p.state = StateIdle
	p.inFlight = false
}

// Clear resets the session: empty transcript, no conversation id. The next
// send starts a fresh conversation with a new create. Returns ErrBusy while a
// send is in flight.
func (p *Pipeline) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inFlight {
		return ErrBusy
	}
	p.store.ReplaceAll(nil)
	p.conversationID = ""
	p.state = StateIdle
	return nil
}

// Messages returns a copy of the session transcript.
func (p *Pipeline) Messages() []conversation.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Messages()
}

// ConversationID returns the persisted conversation id, or "" before the
// first successful create.
func (p *Pipeline) ConversationID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conversationID
}

// Typing reports whether a coach reply is pending.
func (p *Pipeline) Typing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typing
}

// LoadingHistory reports whether a resume fetch is running.
func (p *Pipeline) LoadingHistory() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadingHistory
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func newMessage(sender conversation.Sender, text string) conversation.Message {
	return conversation.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

func firstUserText(messages []conversation.Message) string {
	for _, msg := range messages {
		if msg.Sender == conversation.SenderUser {
			return msg.Text
		}
	}
	return ""
}
