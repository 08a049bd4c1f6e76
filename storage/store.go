package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

// Store combines the sessions and messages storages behind the session
// store's Persister interface, so every in-memory mutation reaches sqlite.
type Store struct {
	sessions *Sessions
	messages *Messages
}

// NewStore creates a Store with both tables in place.
func NewStore(db *sqlx.DB) (*Store, error) {
	sessions, err := NewSessions(db)
	if err != nil {
		return nil, err
	}
	messages, err := NewMessages(db)
	if err != nil {
		return nil, err
	}
	return &Store{sessions: sessions, messages: messages}, nil
}

// Load reads the whole persisted session collection, each session carrying
// its messages in append order.
func (s *Store) Load() ([]chat.Session, error) {
	sessions, err := s.sessions.Read()
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	for i := range sessions {
		messages, err := s.messages.ReadBySessionID(sessions[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load messages for session %s: %w", sessions[i].ID, err)
		}
		sessions[i].Messages = messages
	}
	return sessions, nil
}

func (s *Store) SaveSession(session chat.Session) error {
	return s.sessions.Write(session)
}

func (s *Store) RenameSession(id, title string) error {
	return s.sessions.Rename(id, title)
}

func (s *Store) DeleteSession(id string) error {
	if err := s.messages.DeleteBySessionID(id); err != nil {
		return err
	}
	return s.sessions.Delete(id)
}

func (s *Store) SetFavorite(id string, favorite bool) error {
	return s.sessions.SetFavorite(id, favorite)
}

func (s *Store) SaveMessage(message chat.Message) error {
	return s.messages.Write(message)
}
