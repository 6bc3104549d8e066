package client_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/coach/backend/internal/client"
	"github.com/leadwise/coach/backend/internal/events"
	conversationHandler "github.com/leadwise/coach/backend/internal/handler/conversation"
	"github.com/leadwise/coach/backend/internal/model/conversation"
	"github.com/leadwise/coach/backend/internal/store"
)

func newConversationServer(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		conversationHandler.New(store.NewMemoryStore(), events.NewHub(), zerolog.Nop()).RegisterRoutes(api)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func transcript() []conversation.Message {
	now := time.Now().UTC()
	return []conversation.Message{
		{ID: "m1", Sender: conversation.SenderUser, Text: "hello", Timestamp: now.Add(-time.Second)},
		{ID: "m2", Sender: conversation.SenderAI, Text: "hi", Timestamp: now},
	}
}

func TestConversationClientCreateUpdateGet(t *testing.T) {
	srv := newConversationServer(t)
	c := client.NewConversationClient(srv.URL)
	ctx := context.Background()

	conv, err := c.Create(ctx, "growth-profile", "hello", transcript())
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, 2, conv.MessageCount)

	grown := append(transcript(), conversation.Message{
		ID: "m3", Sender: conversation.SenderUser, Text: "and another thing", Timestamp: time.Now().UTC(),
	})
	updated, err := c.Update(ctx, conv.ID, grown)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MessageCount)

	got, err := c.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "and another thing", got.Messages[2].Text)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestConversationClientUpdateMissing(t *testing.T) {
	srv := newConversationServer(t)
	c := client.NewConversationClient(srv.URL)

	_, err := c.Update(context.Background(), "missing", transcript())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestConversationClientGetMissing(t *testing.T) {
	srv := newConversationServer(t)
	c := client.NewConversationClient(srv.URL)

	_, err := c.Get(context.Background(), "missing")
	require.Error(t, err)
}

func TestConversationClientServerDown(t *testing.T) {
	srv := newConversationServer(t)
	url := srv.URL
	srv.Close()

	c := client.NewConversationClient(url)
	_, err := c.Create(context.Background(), "growth-profile", "t", transcript())
	require.Error(t, err)
}
