package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/coach/backend/internal/client"
	"github.com/leadwise/coach/backend/internal/events"
	"github.com/leadwise/coach/backend/internal/handler"
	"github.com/leadwise/coach/backend/internal/model/conversation"
	"github.com/leadwise/coach/backend/internal/model/topic"
	"github.com/leadwise/coach/backend/internal/session"
	"github.com/leadwise/coach/backend/internal/store"
)

// Exercises the whole loop: session pipeline → HTTP clients → router →
// store, the same path the real front end takes.
func TestSessionRoundTripOverHTTP(t *testing.T) {
	gen := &stubGenerator{reply: "what does success look like for you?"}
	router := handler.NewRouter(
		topic.NewMemoryStore(topic.Seed()),
		store.NewMemoryStore(),
		gen,
		events.NewHub(),
		zerolog.Nop(),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	p := session.NewPipeline(
		client.NewCoachClient(srv.URL),
		client.NewConversationClient(srv.URL),
	)

	var persistedIDs []string
	p.OnPersisted(func(conv conversation.Conversation) { persistedIDs = append(persistedIDs, conv.ID) })

	ctx := context.Background()
	require.NoError(t, p.SendMessage(ctx, "Help me assess my leadership style!!!", "growth-profile"))
	require.NoError(t, p.SendMessage(ctx, "Where should I start?", "growth-profile"))

	convID := p.ConversationID()
	require.NotEmpty(t, convID)
	require.Len(t, persistedIDs, 2)
	assert.Equal(t, convID, persistedIDs[0])
	assert.Equal(t, convID, persistedIDs[1])

	// A second session resumes the same conversation from storage.
	resumed := session.NewPipeline(
		client.NewCoachClient(srv.URL),
		client.NewConversationClient(srv.URL),
	)
	require.NoError(t, resumed.Resume(ctx, convID))

	msgs := resumed.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "Help me assess my leadership style!!!", msgs[0].Text)
	assert.Equal(t, convID, resumed.ConversationID())

	// Fetch the stored record directly and check the derived fields.
	conv, err := client.NewConversationClient(srv.URL).Get(ctx, convID)
	require.NoError(t, err)
	assert.Equal(t, "Help me assess my leadership style", conv.Title)
	assert.Equal(t, 4, conv.MessageCount)
}
