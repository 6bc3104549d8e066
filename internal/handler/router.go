package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	coachHandler "github.com/leadwise/coach/backend/internal/handler/coach"
	conversationHandler "github.com/leadwise/coach/backend/internal/handler/conversation"
	eventsHandler "github.com/leadwise/coach/backend/internal/handler/events"
	topicHandler "github.com/leadwise/coach/backend/internal/handler/topic"
	middlewarePkg "github.com/leadwise/coach/backend/internal/middleware"

	"github.com/leadwise/coach/backend/internal/events"
	topicModel "github.com/leadwise/coach/backend/internal/model/topic"
	"github.com/leadwise/coach/backend/internal/store"
	"github.com/leadwise/coach/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. A nil generator disables the
// coach endpoint (503) without taking down the rest of the API.
func NewRouter(topics topicModel.Store, st store.Store, generator coachHandler.ReplyGenerator, hub *events.Hub, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		topicHandler.New(topics).RegisterRoutes(api)
		conversationHandler.New(st, hub, log).RegisterRoutes(api)
		coachHandler.New(generator, log).RegisterRoutes(api)
		eventsHandler.New(hub, log).RegisterRoutes(api)
	})

	return r
}
