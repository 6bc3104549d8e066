package topic

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadwise/coach/backend/internal/model/topic"
	"github.com/leadwise/coach/backend/pkg/utils"
)

// Handler serves the coaching topic catalog.
type Handler struct {
	store topic.Store
}

// New creates a topic handler.
func New(store topic.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the topic routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/topics", h.handleList)
	r.Get("/topics/{id}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	t, ok := h.store.FindByID(chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "topic not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, t)
}
