package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/coach/backend/internal/events"
	model "github.com/leadwise/coach/backend/internal/model/conversation"
	"github.com/leadwise/coach/backend/internal/store"
)

func setupRouter() (*chi.Mux, store.Store, *events.Hub) {
	st := store.NewMemoryStore()
	hub := events.NewHub()
	handler := New(st, hub, zerolog.Nop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, st, hub
}

func postJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func transcript() []model.Message {
	now := time.Now().UTC()
	return []model.Message{
		{ID: "m1", Sender: model.SenderUser, Text: "hello", Timestamp: now.Add(-time.Second)},
		{ID: "m2", Sender: model.SenderAI, Text: "hi", Timestamp: now},
	}
}

func TestCreateConversation(t *testing.T) {
	r, _, _ := setupRouter()

	resp := postJSON(t, r, http.MethodPost, "/conversations", map[string]any{
		"topic":    "growth-profile",
		"title":    "hello",
		"messages": transcript(),
		// Advisory fields the server recomputes.
		"messageCount":  99,
		"lastMessageAt": time.Now().UTC(),
		"status":        "active",
	})

	require.Equal(t, http.StatusCreated, resp.Code)

	var conv model.Conversation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &conv))
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, 2, conv.MessageCount, "server recomputes the count from the transcript")
	assert.Equal(t, model.StatusActive, conv.Status)
}

func TestCreateConversationMissingTopic(t *testing.T) {
	r, _, _ := setupRouter()

	resp := postJSON(t, r, http.MethodPost, "/conversations", map[string]any{
		"title": "no topic",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateConversationInvalidBody(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewReader([]byte("{")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateConversation(t *testing.T) {
	r, st, _ := setupRouter()
	conv, err := st.Create(context.Background(), "growth-profile", "t", transcript())
	require.NoError(t, err)

	grown := append(transcript(), model.Message{
		ID: "m3", Sender: model.SenderUser, Text: "more", Timestamp: time.Now().UTC(),
	})
	resp := postJSON(t, r, http.MethodPatch, "/conversations/"+conv.ID, map[string]any{
		"messages":      grown,
		"messageCount":  3,
		"lastMessageAt": time.Now().UTC(),
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var updated model.Conversation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, 3, updated.MessageCount)
	assert.Equal(t, "t", updated.Title, "update does not alter the title")
}

func TestUpdateConversationNotFound(t *testing.T) {
	r, _, _ := setupRouter()

	resp := postJSON(t, r, http.MethodPatch, "/conversations/missing", map[string]any{
		"messages": transcript(),
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetConversation(t *testing.T) {
	r, st, _ := setupRouter()
	conv, err := st.Create(context.Background(), "growth-profile", "t", transcript())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/conversations/"+conv.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var got model.Conversation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, conv.ID, got.ID)
	assert.Len(t, got.Messages, 2)
}

func TestGetConversationNotFound(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/conversations/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListConversationsEmpty(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestDeleteConversation(t *testing.T) {
	r, st, _ := setupRouter()
	conv, err := st.Create(context.Background(), "growth-profile", "t", transcript())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/conversations/"+conv.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNoContent, resp.Code)

	req = httptest.NewRequest(http.MethodDelete, "/conversations/"+conv.ID, nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPersistencePublishesEvents(t *testing.T) {
	r, _, hub := setupRouter()
	sub, cancel := hub.Subscribe()
	defer cancel()

	resp := postJSON(t, r, http.MethodPost, "/conversations", map[string]any{
		"topic":    "growth-profile",
		"title":    "hello",
		"messages": transcript(),
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	select {
	case ev := <-sub:
		assert.Equal(t, events.EventConversationPersisted, ev.Event)
		assert.NotEmpty(t, ev.ConversationID)
		assert.Equal(t, 2, ev.MessageCount)
	case <-time.After(time.Second):
		t.Fatal("expected a conversation.persisted event")
	}
}
