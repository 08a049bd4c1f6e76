package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

const autoTitleMaxLen = 40

// Persister receives every store mutation so the session collection
// survives restarts. All methods are synchronous; a nil Persister keeps
// the store purely in-memory.
type Persister interface {
	SaveSession(s chat.Session) error
	RenameSession(id, title string) error
	DeleteSession(id string) error
	SetFavorite(id string, favorite bool) error
	SaveMessage(m chat.Message) error
}

// Store holds the session collection. Insertion order defines display
// order; at most one session is current at a time. All operations are
// total over the collection: an unknown id yields chat.ErrSessionNotFound.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*chat.Session
	order     []string
	currentID string
	persister Persister
}

// NewStore creates an empty Store. persister may be nil.
func NewStore(persister Persister) *Store {
	return &Store{
		sessions:  make(map[string]*chat.Session),
		persister: persister,
	}
}

// Restore seeds the store with previously persisted sessions, keeping
// their original creation order. It does not write back to the persister.
func (s *Store) Restore(sessions []chat.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range sessions {
		sess := sessions[i]
		if _, ok := s.sessions[sess.ID]; ok {
			continue
		}
		s.sessions[sess.ID] = &sess
		s.order = append(s.order, sess.ID)
	}
	if s.currentID == "" && len(s.order) > 0 {
		s.currentID = s.order[len(s.order)-1]
	}
}

// Create adds a new empty session and makes it current.
func (s *Store) Create() (*chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := chat.NewSession()
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.currentID = sess.ID

	if s.persister != nil {
		if err := s.persister.SaveSession(*sess); err != nil {
			return nil, fmt.Errorf("persist session %s: %w", sess.ID, err)
		}
	}

	slog.Debug("session created",
		slog.String("id", sess.ID),
		slog.String("title", sess.Title),
	)
	return snapshot(sess), nil
}

// Rename sets a new title for the given session.
func (s *Store) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return chat.ErrSessionNotFound
	}
	sess.Title = title

	if s.persister != nil {
		if err := s.persister.RenameSession(id, title); err != nil {
			return fmt.Errorf("persist rename of session %s: %w", id, err)
		}
	}

	slog.Debug("session renamed",
		slog.String("id", id),
		slog.String("title", title),
	)
	return nil
}

// Delete removes the given session. When the deleted session was current,
// the most recently created remaining session becomes current, or none
// when the collection is empty afterwards.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return chat.ErrSessionNotFound
	}
	delete(s.sessions, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.currentID == id {
		s.currentID = ""
		if len(s.order) > 0 {
			s.currentID = s.order[len(s.order)-1]
		}
	}

	if s.persister != nil {
		if err := s.persister.DeleteSession(id); err != nil {
			return fmt.Errorf("persist delete of session %s: %w", id, err)
		}
	}

	slog.Debug("session deleted",
		slog.String("id", id),
		slog.String("current", s.currentID),
	)
	return nil
}

// Select makes the given session current.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return chat.ErrSessionNotFound
	}
	s.currentID = id
	return nil
}

// ToggleFavorite flips the favorite flag of the given session and returns
// the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false, chat.ErrSessionNotFound
	}
	sess.IsFavorite = !sess.IsFavorite

	if s.persister != nil {
		if err := s.persister.SetFavorite(id, sess.IsFavorite); err != nil {
			return false, fmt.Errorf("persist favorite of session %s: %w", id, err)
		}
	}
	return sess.IsFavorite, nil
}

// AppendMessages appends messages to the given session's ordered list.
// A session still carrying the default title takes its title from the
// first appended user message.
func (s *Store) AppendMessages(id string, messages ...chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return chat.ErrSessionNotFound
	}

	for _, m := range messages {
		sess.Messages = append(sess.Messages, m)
		if s.persister != nil {
			if err := s.persister.SaveMessage(m); err != nil {
				return fmt.Errorf("persist message %s: %w", m.ID, err)
			}
		}
		if sess.Title == chat.DefaultSessionTitle && m.Role == chat.RoleUser {
			title := autoTitle(m.Content)
			sess.Title = title
			if s.persister != nil {
				if err := s.persister.RenameSession(id, title); err != nil {
					return fmt.Errorf("persist rename of session %s: %w", id, err)
				}
			}
		}
	}

	slog.Debug("messages appended",
		slog.String("session_id", id),
		slog.Int("count", len(messages)),
	)
	return nil
}

// Get returns a copy of the given session.
func (s *Store) Get(id string) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, chat.ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// Current returns a copy of the current session, or chat.ErrNoCurrentSession
// when none is selected.
func (s *Store) Current() (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentID == "" {
		return nil, chat.ErrNoCurrentSession
	}
	return snapshot(s.sessions[s.currentID]), nil
}

// List returns copies of all sessions in insertion order.
func (s *Store) List() []chat.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]chat.Session, 0, len(s.order))
	for _, id := range s.order {
		sessions = append(sessions, *snapshot(s.sessions[id]))
	}
	return sessions
}

// snapshot copies a session so callers can never mutate the stored
// message list directly.
func snapshot(sess *chat.Session) *chat.Session {
	cp := *sess
	cp.Messages = make([]chat.Message, len(sess.Messages))
	copy(cp.Messages, sess.Messages)
	return &cp
}

func autoTitle(content string) string {
	title := strings.TrimSpace(content)
	if runes := []rune(title); len(runes) > autoTitleMaxLen {
		title = strings.TrimSpace(string(runes[:autoTitleMaxLen])) + "..."
	}
	if title == "" {
		title = chat.DefaultSessionTitle
	}
	return title
}
