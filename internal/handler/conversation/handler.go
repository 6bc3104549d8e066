package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/leadwise/coach/backend/internal/events"
	model "github.com/leadwise/coach/backend/internal/model/conversation"
	"github.com/leadwise/coach/backend/internal/store"
	"github.com/leadwise/coach/backend/pkg/utils"
)

// Handler serves the conversation CRUD endpoints.
type Handler struct {
	store store.Store
	hub   *events.Hub
	log   zerolog.Logger
}

// New creates a conversation handler.
func New(st store.Store, hub *events.Hub, log zerolog.Logger) *Handler {
	return &Handler{store: st, hub: hub, log: log}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations", h.handleCreate)
	r.Get("/conversations", h.handleList)
	r.Get("/conversations/{id}", h.handleGet)
	r.Patch("/conversations/{id}", h.handleUpdate)
	r.Delete("/conversations/{id}", h.handleDelete)
}

type createRequest struct {
	Topic         string          `json:"topic"`
	Title         string          `json:"title"`
	Messages      []model.Message `json:"messages"`
	MessageCount  int             `json:"messageCount"`
	LastMessageAt time.Time       `json:"lastMessageAt"`
	Status        model.Status    `json:"status"`
}

type updateRequest struct {
	Messages      []model.Message `json:"messages"`
	MessageCount  int             `json:"messageCount"`
	LastMessageAt time.Time       `json:"lastMessageAt"`
	Status        model.Status    `json:"status"`
	Title         string          `json:"title"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Topic == "" {
		utils.RespondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	// messageCount, lastMessageAt and status from the payload are advisory;
	// the store derives them from the transcript itself.
	conv, err := h.store.Create(r.Context(), payload.Topic, payload.Title, payload.Messages)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	h.publish(conv)
	utils.RespondJSON(w, http.StatusCreated, conv)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload updateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.store.Update(r.Context(), id, store.Update{
		Messages: payload.Messages,
		Status:   payload.Status,
		Title:    payload.Title,
	})
	if err != nil {
		h.respondStoreError(w, err, "failed to update conversation")
		return
	}

	h.publish(conv)
	utils.RespondJSON(w, http.StatusOK, conv)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	conv, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err, "failed to load conversation")
		return
	}
	utils.RespondJSON(w, http.StatusOK, conv)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	convs, err := h.store.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	if convs == nil {
		convs = []model.Conversation{}
	}
	utils.RespondJSON(w, http.StatusOK, convs)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, err, "failed to delete conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	h.log.Error().Err(err).Msg(fallback)
	utils.RespondError(w, http.StatusInternalServerError, fallback)
}

func (h *Handler) publish(conv model.Conversation) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(events.ConversationPersisted{
		Event:          events.EventConversationPersisted,
		ConversationID: conv.ID,
		Title:          conv.Title,
		MessageCount:   conv.MessageCount,
		UpdatedAt:      conv.UpdatedAt,
	})
}
