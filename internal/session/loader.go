package session

import "context"

// Resume hydrates the session from a previously persisted conversation, e.g.
// when following a deep link. It returns ErrBusy while a send is in flight,
// mirroring Clear. On fetch failure the session proceeds as a fresh, unsaved
// conversation: the error is logged, the transcript stays empty, and the
// loading flag is always cleared.
func (p *Pipeline) Resume(ctx context.Context, conversationID string) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrBusy
	}
	p.inFlight = true
	p.loadingHistory = true
	p.mu.Unlock()

	conv, err := p.persister.Get(ctx, conversationID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingHistory = false
	p.inFlight = false

	if err != nil {
		p.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("resume failed, starting fresh")
		p.store.ReplaceAll(nil)
		return nil
	}

	p.store.ReplaceAll(conv.Messages)
	p.conversationID = conv.ID
	p.log.Info().Str("conversation_id", conv.ID).Int("messages", p.store.Len()).Msg("conversation resumed")
	return nil
}
