package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/leadwise/coach/backend/internal/model/conversation"
)

// ConversationClient talks to the conversation CRUD endpoints. It implements
// session.Persister.
type ConversationClient struct {
	baseURL string
	http    *http.Client
}

// NewConversationClient builds a client for the given API base URL.
func NewConversationClient(baseURL string) *ConversationClient {
	return &ConversationClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type createConversationRequest struct {
	Topic         string                 `json:"topic"`
	Title         string                 `json:"title"`
	Messages      []conversation.Message `json:"messages"`
	MessageCount  int                    `json:"messageCount"`
	LastMessageAt time.Time              `json:"lastMessageAt"`
	Status        conversation.Status    `json:"status"`
}

type updateConversationRequest struct {
	Messages      []conversation.Message `json:"messages"`
	MessageCount  int                    `json:"messageCount"`
	LastMessageAt time.Time              `json:"lastMessageAt"`
}

// Create persists a new conversation and returns the server-assigned record.
func (c *ConversationClient) Create(ctx context.Context, topic, title string, messages []conversation.Message) (conversation.Conversation, error) {
	body := createConversationRequest{
		Topic:         topic,
		Title:         title,
		Messages:      messages,
		MessageCount:  len(messages),
		LastMessageAt: time.Now().UTC(),
		Status:        conversation.StatusActive,
	}

	var conv conversation.Conversation
	if err := c.do(ctx, http.MethodPost, "/api/conversations", body, http.StatusCreated, &conv); err != nil {
		return conversation.Conversation{}, err
	}
	return conv, nil
}

// Update resends the full accumulated transcript for an existing
// conversation. Safe to repeat: the payload is the whole sequence, so a
// duplicated call converges to the same stored state.
func (c *ConversationClient) Update(ctx context.Context, id string, messages []conversation.Message) (conversation.Conversation, error) {
	body := updateConversationRequest{
		Messages:      messages,
		MessageCount:  len(messages),
		LastMessageAt: time.Now().UTC(),
	}

	var conv conversation.Conversation
	if err := c.do(ctx, http.MethodPatch, "/api/conversations/"+id, body, http.StatusOK, &conv); err != nil {
		return conversation.Conversation{}, err
	}
	return conv, nil
}

// Get fetches a stored conversation for resume.
func (c *ConversationClient) Get(ctx context.Context, id string) (conversation.Conversation, error) {
	var conv conversation.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations/"+id, nil, http.StatusOK, &conv); err != nil {
		return conversation.Conversation{}, err
	}
	return conv, nil
}

// List returns all stored conversations, newest first.
func (c *ConversationClient) List(ctx context.Context) ([]conversation.Conversation, error) {
	var convs []conversation.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations", nil, http.StatusOK, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

func (c *ConversationClient) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("conversation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error != "" {
			return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, envelope.Error)
		}
		return fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
