package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

// Sessions is a storage for sessions
type Sessions struct {
	db *sqlx.DB
}

type sessionRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	IsFavorite bool      `db:"is_favorite"`
	CreatedAt  time.Time `db:"created_at"`
}

// NewSessions creates a new Sessions storage
func NewSessions(db *sqlx.DB) (*Sessions, error) {
	createSessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
	`
	if _, err := db.Exec(createSessionsTable); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &Sessions{db: db}, nil
}

// Read returns all sessions in creation order, without their messages
func (s *Sessions) Read() ([]chat.Session, error) {
	var rows []sessionRow
	err := s.db.Select(&rows, "SELECT id, title, is_favorite, created_at FROM sessions ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	sessions := make([]chat.Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, chat.Session{
			ID:         r.ID,
			Title:      r.Title,
			IsFavorite: r.IsFavorite,
			CreatedAt:  r.CreatedAt,
			Messages:   []chat.Message{},
		})
	}

	slog.Debug("read sessions",
		slog.Int("count", len(sessions)),
	)
	return sessions, nil
}

// Write writes new session to the storage
func (s *Sessions) Write(session chat.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	insertQuery := "INSERT OR IGNORE INTO sessions (id, title, is_favorite, created_at) VALUES (?, ?, ?, ?)"
	if _, err := s.db.Exec(insertQuery, session.ID, session.Title, session.IsFavorite, session.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert session %s: %w", session.ID, err)
	}

	slog.Debug("session added to sessions",
		slog.String("id", session.ID),
		slog.String("title", session.Title),
		slog.Time("created_at", session.CreatedAt),
	)
	return nil
}

// Rename updates the title of the given session
func (s *Sessions) Rename(id, title string) error {
	if _, err := s.db.Exec("UPDATE sessions SET title = ? WHERE id = ?", title, id); err != nil {
		return fmt.Errorf("failed to rename session %s: %w", id, err)
	}

	slog.Debug("session renamed in sessions",
		slog.String("id", id),
		slog.String("title", title),
	)
	return nil
}

// SetFavorite updates the favorite flag of the given session
func (s *Sessions) SetFavorite(id string, favorite bool) error {
	if _, err := s.db.Exec("UPDATE sessions SET is_favorite = ? WHERE id = ?", favorite, id); err != nil {
		return fmt.Errorf("failed to set favorite for session %s: %w", id, err)
	}

	slog.Debug("session favorite updated",
		slog.String("id", id),
		slog.Bool("is_favorite", favorite),
	)
	return nil
}

// Delete deletes the given session by id from the storage
func (s *Sessions) Delete(id string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session by id %s: %w", id, err)
	}

	slog.Debug("session deleted from sessions",
		slog.String("id", id),
	)
	return nil
}
