package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/leadwise/coach/backend/internal/model/conversation"
	"github.com/leadwise/coach/backend/pkg/utils"
)

// ReplyGenerator produces one coaching reply for a turn. Implemented by the
// coach service; stubbed in tests.
type ReplyGenerator interface {
	Reply(ctx context.Context, topicID string, history []conversation.Message, message string) (string, error)
}

// Handler serves the coach proxy endpoint.
type Handler struct {
	generator ReplyGenerator
	log       zerolog.Logger
}

// New creates a coach handler. A nil generator means the provider is not
// configured; requests then fail with 503.
func New(generator ReplyGenerator, log zerolog.Logger) *Handler {
	return &Handler{generator: generator, log: log}
}

// RegisterRoutes mounts the coach route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/coach", h.handleCoach)
}

type coachRequest struct {
	Message             string                 `json:"message"`
	Topic               string                 `json:"topic"`
	ConversationHistory []conversation.Message `json:"conversationHistory"`
	ConversationID      string                 `json:"conversationId,omitempty"`
}

type coachResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) handleCoach(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "coaching service unavailable")
		return
	}

	var payload coachRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if payload.Topic == "" {
		utils.RespondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	reply, err := h.generator.Reply(r.Context(), payload.Topic, payload.ConversationHistory, payload.Message)
	if err != nil {
		h.log.Error().
			Err(err).
			Str("topic", payload.Topic).
			Str("conversation_id", payload.ConversationID).
			Msg("coaching reply failed")
		utils.RespondJSON(w, http.StatusBadGateway, coachResponse{Error: "failed to generate coaching reply"})
		return
	}

	utils.RespondJSON(w, http.StatusOK, coachResponse{Message: reply})
}
