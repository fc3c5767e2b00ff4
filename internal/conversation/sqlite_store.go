package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rbarros/gemsuite/internal/db"
)

// ErrNotFound is returned when a conversation is not found.
var ErrNotFound = errors.New("conversation not found")

// SQLiteStore implements Store using SQLite. Messages and editing sessions
// are stored as JSON blobs alongside the scalar columns, so every write
// replaces the whole record.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new SQLite-backed conversation store.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

const conversationColumns = `id, title, created_at, updated_at, is_favorite, model_used, messages, editing_sessions`

// Get retrieves a conversation by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)

	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting conversation: %w", err)
	}

	return conv, nil
}

// List returns all conversations.
func (s *SQLiteStore) List(ctx context.Context) ([]*Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	return collectConversations(rows)
}

// Search returns conversations whose title matches the keyword.
// Supports multi-word search: "cat drawing" matches "A Drawing Of My Cat".
func (s *SQLiteStore) Search(ctx context.Context, keyword string) ([]*Conversation, error) {
	searchTerm := prepareSearchTerm(keyword)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE title LIKE '%' || ? || '%'`,
		searchTerm)
	if err != nil {
		return nil, fmt.Errorf("searching conversations: %w", err)
	}
	defer rows.Close()

	return collectConversations(rows)
}

// Upsert inserts the conversation or replaces the stored record wholesale.
func (s *SQLiteStore) Upsert(ctx context.Context, conv *Conversation) error {
	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}
	sessions, err := json.Marshal(conv.EditingSessions)
	if err != nil {
		return fmt.Errorf("encoding editing sessions: %w", err)
	}

	conv.UpdatedAt = time.Now()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (`+conversationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			is_favorite = excluded.is_favorite,
			messages = excluded.messages,
			editing_sessions = excluded.editing_sessions`,
		conv.ID,
		conv.Title,
		conv.CreatedAt.UnixMilli(),
		conv.UpdatedAt.UnixMilli(),
		boolToInt(conv.IsFavorite),
		conv.ModelUsed,
		string(messages),
		string(sessions),
	)
	if err != nil {
		return fmt.Errorf("upserting conversation: %w", err)
	}

	return nil
}

// Delete removes a conversation by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}

// prepareSearchTerm converts a search keyword for multi-word matching.
// "cat drawing" becomes "cat%drawing" to match titles containing both words.
func prepareSearchTerm(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return ""
	}
	parts := strings.Fields(keyword)
	return strings.Join(parts, "%")
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanConversation converts a database row to a domain conversation.
func scanConversation(row scanner) (*Conversation, error) {
	var (
		conv                 Conversation
		createdAt, updatedAt int64
		favorite             int64
		messages, sessions   string
	)

	err := row.Scan(&conv.ID, &conv.Title, &createdAt, &updatedAt,
		&favorite, &conv.ModelUsed, &messages, &sessions)
	if err != nil {
		return nil, err
	}

	conv.CreatedAt = time.UnixMilli(createdAt)
	conv.UpdatedAt = time.UnixMilli(updatedAt)
	conv.IsFavorite = favorite != 0

	if err := json.Unmarshal([]byte(messages), &conv.Messages); err != nil {
		return nil, fmt.Errorf("decoding messages: %w", err)
	}
	if err := json.Unmarshal([]byte(sessions), &conv.EditingSessions); err != nil {
		return nil, fmt.Errorf("decoding editing sessions: %w", err)
	}

	return &conv, nil
}

func collectConversations(rows *sql.Rows) ([]*Conversation, error) {
	var conversations []*Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return conversations, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
