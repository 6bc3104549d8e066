package events_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadwise/coach/backend/internal/events"
	eventsHandler "github.com/leadwise/coach/backend/internal/handler/events"
)

func TestEventsFeedDeliversPersistedEvents(t *testing.T) {
	hub := events.NewHub()

	r := chi.NewRouter()
	eventsHandler.New(hub, zerolog.Nop()).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// The server registers its subscription just after the upgrade; keep
	// publishing until the client sees an event.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish(events.ConversationPersisted{ConversationID: "conv-1", MessageCount: 2})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var ev events.ConversationPersisted
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, events.EventConversationPersisted, ev.Event)
	assert.Equal(t, "conv-1", ev.ConversationID)
	assert.Equal(t, 2, ev.MessageCount)
}
