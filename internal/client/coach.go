package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/leadwise/coach/backend/internal/model/conversation"
)

// ErrEmptyReply is returned when the coach endpoint answered 2xx but carried
// no usable content.
var ErrEmptyReply = errors.New("coach returned an empty reply")

// CoachClient calls the remote coaching endpoint. It implements
// session.Coach.
type CoachClient struct {
	baseURL string
	http    *http.Client
}

// NewCoachClient builds a client for the given API base URL, e.g.
// "http://localhost:8080".
func NewCoachClient(baseURL string) *CoachClient {
	return &CoachClient{
		baseURL: baseURL,
		// Per-call deadlines come from the pipeline's context; this is a
		// transport-level safety net.
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

type coachRequest struct {
	Message             string                 `json:"message"`
	Topic               string                 `json:"topic"`
	ConversationHistory []conversation.Message `json:"conversationHistory"`
	ConversationID      string                 `json:"conversationId,omitempty"`
}

type coachResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Reply sends one chat turn and returns the coaching response text.
func (c *CoachClient) Reply(ctx context.Context, message, topicID string, history []conversation.Message, conversationID string) (string, error) {
	payload, err := json.Marshal(coachRequest{
		Message:             message,
		Topic:               topicID,
		ConversationHistory: history,
		ConversationID:      conversationID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode coach request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/coach", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build coach request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("coach request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Decoding the error envelope is best-effort: an intermediary proxy
		// can answer with an HTML body instead of JSON.
		var body coachResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return "", fmt.Errorf("coach returned %d: %s", resp.StatusCode, body.Error)
		}
		return "", fmt.Errorf("coach returned %d", resp.StatusCode)
	}

	var body coachResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode coach response: %w", err)
	}
	if body.Message == "" {
		return "", ErrEmptyReply
	}
	return body.Message, nil
}
