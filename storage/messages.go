package storage

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

// Messages is a storage for messages
type Messages struct {
	db *sqlx.DB
}

type messageRow struct {
	ID            string         `db:"id"`
	SessionID     string         `db:"session_id"`
	Content       string         `db:"content"`
	Role          string         `db:"role"`
	Timestamp     int64          `db:"timestamp"`
	ImageData     sql.NullString `db:"image_data"`
	ImageMimeType sql.NullString `db:"image_mime_type"`
	ImageFileName sql.NullString `db:"image_file_name"`
}

func (r messageRow) message() chat.Message {
	m := chat.Message{
		ID:        r.ID,
		SessionID: r.SessionID,
		Content:   r.Content,
		Role:      chat.Role(r.Role),
		Timestamp: r.Timestamp,
	}
	if r.ImageData.Valid {
		m.Image = &chat.ImageData{
			Data:     r.ImageData.String,
			MimeType: r.ImageMimeType.String,
			FileName: r.ImageFileName.String,
		}
	}
	return m
}

// NewMessages creates a new Messages storage
func NewMessages(db *sqlx.DB) (*Messages, error) {
	createMessagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		content TEXT NOT NULL,
		role TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		image_data TEXT,
		image_mime_type TEXT,
		image_file_name TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	)
	`
	if _, err := db.Exec(createMessagesTable); err != nil {
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	return &Messages{db: db}, nil
}

// ReadBySessionID returns messages for a specific session_id in append order
func (m *Messages) ReadBySessionID(sessionID string) ([]chat.Message, error) {
	var rows []messageRow
	err := m.db.Select(&rows, "SELECT id, session_id, content, role, timestamp, image_data, image_mime_type, image_file_name FROM messages WHERE session_id = ? ORDER BY timestamp ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for session_id %s: %w", sessionID, err)
	}

	messages := make([]chat.Message, 0, len(rows))
	for _, r := range rows {
		messages = append(messages, r.message())
	}

	slog.Debug("read messages by session_id",
		slog.String("session_id", sessionID),
		slog.Int("count", len(messages)),
	)
	return messages, nil
}

// Write writes new message to the storage
func (m *Messages) Write(message chat.Message) error {
	var imageData, imageMimeType, imageFileName sql.NullString
	if message.Image != nil {
		imageData = sql.NullString{String: message.Image.Data, Valid: true}
		imageMimeType = sql.NullString{String: message.Image.MimeType, Valid: true}
		imageFileName = sql.NullString{String: message.Image.FileName, Valid: true}
	}

	insertQuery := "INSERT OR IGNORE INTO messages (id, session_id, content, role, timestamp, image_data, image_mime_type, image_file_name) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	if _, err := m.db.Exec(insertQuery, message.ID, message.SessionID, message.Content, string(message.Role), message.Timestamp, imageData, imageMimeType, imageFileName); err != nil {
		return fmt.Errorf("failed to insert message %s: %w", message.ID, err)
	}

	slog.Debug("message added to messages",
		slog.String("id", message.ID),
		slog.String("session_id", message.SessionID),
		slog.String("role", string(message.Role)),
		slog.Int64("timestamp", message.Timestamp),
	)
	return nil
}

// DeleteBySessionID deletes all messages of the given session
func (m *Messages) DeleteBySessionID(sessionID string) error {
	if _, err := m.db.Exec("DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete messages for session_id %s: %w", sessionID, err)
	}

	slog.Debug("messages deleted from messages",
		slog.String("session_id", sessionID),
	)
	return nil
}
