package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/leadwise/coach/backend/internal/model/conversation"
)

// SQLiteStore implements Store on a single SQLite file. The transcript is
// stored as a JSON column; every write rewrites the whole transcript, which
// matches the client contract of resending the full message sequence.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and initializes the schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	// WAL mode allows readers to proceed while the single writer commits.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite does not support multiple concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id              TEXT PRIMARY KEY,
		topic           TEXT NOT NULL,
		title           TEXT NOT NULL,
		messages        TEXT NOT NULL,
		message_count   INTEGER NOT NULL,
		last_message_at INTEGER NOT NULL,
		status          TEXT NOT NULL DEFAULT 'active',
		created_at      INTEGER NOT NULL,
		updated_at      INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_updated_at
		ON conversations (updated_at DESC);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Create assigns an id and inserts a new active conversation.
func (s *SQLiteStore) Create(ctx context.Context, topic, title string, messages []conversation.Message) (conversation.Conversation, error) {
	if topic == "" {
		return conversation.Conversation{}, ErrTopicMissing
	}

	now := time.Now().UTC()
	conv := conversation.Conversation{
		ID:            uuid.NewString(),
		Topic:         topic,
		Title:         title,
		Messages:      conversation.CloneMessages(messages),
		MessageCount:  len(messages),
		LastMessageAt: lastMessageAt(messages, now),
		Status:        conversation.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	transcript, err := json.Marshal(conv.Messages)
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("failed to encode transcript: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations
			(id, topic, title, messages, message_count, last_message_at, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.Topic, conv.Title, string(transcript), conv.MessageCount,
		conv.LastMessageAt.UnixMilli(), string(conv.Status),
		conv.CreatedAt.UnixMilli(), conv.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("failed to insert conversation: %w", err)
	}
	return conv, nil
}

// Update rewrites the transcript and recomputes derived fields.
func (s *SQLiteStore) Update(ctx context.Context, id string, upd Update) (conversation.Conversation, error) {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return conversation.Conversation{}, err
	}

	now := time.Now().UTC()
	conv.Messages = conversation.CloneMessages(upd.Messages)
	conv.MessageCount = len(upd.Messages)
	conv.LastMessageAt = lastMessageAt(upd.Messages, now)
	conv.UpdatedAt = now
	if upd.Status != "" {
		conv.Status = upd.Status
	}
	if upd.Title != "" {
		conv.Title = upd.Title
	}

	transcript, err := json.Marshal(conv.Messages)
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("failed to encode transcript: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE conversations
		SET messages = ?, message_count = ?, last_message_at = ?, status = ?, title = ?, updated_at = ?
		WHERE id = ?`,
		string(transcript), conv.MessageCount, conv.LastMessageAt.UnixMilli(),
		string(conv.Status), conv.Title, conv.UpdatedAt.UnixMilli(), id,
	)
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("failed to update conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return conversation.Conversation{}, ErrNotFound
	}
	return conv, nil
}

// Get retrieves a conversation by identifier.
func (s *SQLiteStore) Get(ctx context.Context, id string) (conversation.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, topic, title, messages, message_count, last_message_at, status, created_at, updated_at
		FROM conversations WHERE id = ?`, id)

	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return conversation.Conversation{}, ErrNotFound
	}
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("failed to load conversation: %w", err)
	}
	return conv, nil
}

// List returns all conversations, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]conversation.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, title, messages, message_count, last_message_at, status, created_at, updated_at
		FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var out []conversation.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		out = append(out, conv)
	}
	return out, rows.Err()
}

// Delete removes a conversation record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (conversation.Conversation, error) {
	var (
		conv          conversation.Conversation
		transcript    string
		status        string
		lastMessageMs int64
		createdMs     int64
		updatedMs     int64
	)
	if err := row.Scan(&conv.ID, &conv.Topic, &conv.Title, &transcript, &conv.MessageCount,
		&lastMessageMs, &status, &createdMs, &updatedMs); err != nil {
		return conversation.Conversation{}, err
	}
	if err := json.Unmarshal([]byte(transcript), &conv.Messages); err != nil {
		return conversation.Conversation{}, fmt.Errorf("failed to decode transcript: %w", err)
	}
	conv.Status = conversation.Status(status)
	conv.LastMessageAt = time.UnixMilli(lastMessageMs).UTC()
	conv.CreatedAt = time.UnixMilli(createdMs).UTC()
	conv.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return conv, nil
}
