package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/attachment"
	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
	"github.com/jimmartinquisitive/talkflow-n8n/internal/config"
	"github.com/jimmartinquisitive/talkflow-n8n/internal/session"
	"github.com/jimmartinquisitive/talkflow-n8n/internal/webhook"
)

// Poster performs one webhook exchange. *webhook.Client satisfies it.
type Poster interface {
	Send(ctx context.Context, request webhook.Request) (*webhook.Response, error)
}

// Notifier receives exactly one message per failed send. Successful sends
// surface through the appended assistant message instead.
type Notifier interface {
	Error(message string)
}

// TypingFunc reports whether a send is in flight, for loading indicators.
type TypingFunc func(active bool)

// Sender orchestrates one request/response exchange: optimistic user-message
// append, webhook call, assistant-message append. Concurrent sends to the
// same session are serialized by a per-session lock, so the append/call/append
// order holds per invocation and invocations never interleave within a session.
type Sender struct {
	cfg      *config.Config
	poster   Poster
	store    *session.Store
	notifier Notifier
	typing   TypingFunc

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Sender. notifier and typing may be nil.
func New(cfg *config.Config, poster Poster, store *session.Store, notifier Notifier, typing TypingFunc) *Sender {
	return &Sender{
		cfg:      cfg,
		poster:   poster,
		store:    store,
		notifier: notifier,
		typing:   typing,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Send runs one exchange for the given session. filePath optionally names an
// image to attach. The configuration check runs before anything else: with no
// webhook URL configured nothing is appended and no network call is made.
// On any later failure the optimistic user message stays in place and no
// assistant message is appended.
func (s *Sender) Send(ctx context.Context, input, sessionID, filePath string) error {
	if err := s.cfg.Validate(); err != nil {
		return s.fail(err)
	}

	if strings.TrimSpace(input) == "" {
		return s.fail(chat.ErrEmptyInput)
	}

	s.setTyping(true)
	defer s.setTyping(false)

	var image *chat.ImageData
	if filePath != "" {
		var err error
		image, err = attachment.Process(filePath)
		if err != nil {
			slog.Error("Failed to process attachment", "path", filePath, "error", err)
			return s.fail(err)
		}
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	userMsg := chat.NewUserMessage(sessionID, input, image)
	if err := s.store.AppendMessages(sessionID, userMsg); err != nil {
		return s.fail(err)
	}

	request := webhook.Request{
		ChatInput: input,
		SessionID: sessionID,
	}
	if image != nil {
		request.Data = image.Data
		request.MimeType = image.MimeType
		request.FileName = image.FileName
	}

	res, err := s.poster.Send(ctx, request)
	if err != nil {
		return s.fail(err)
	}

	assistantMsg := chat.NewAssistantMessage(sessionID, res.Output)
	if err := s.store.AppendMessages(sessionID, assistantMsg); err != nil {
		return s.fail(err)
	}

	slog.Debug("message exchange completed",
		slog.String("session_id", sessionID),
		slog.String("user_message_id", userMsg.ID),
		slog.String("assistant_message_id", assistantMsg.ID),
	)
	return nil
}

func (s *Sender) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *Sender) setTyping(active bool) {
	if s.typing != nil {
		s.typing(active)
	}
}

func (s *Sender) fail(err error) error {
	if s.notifier != nil {
		s.notifier.Error(userMessage(err))
	}
	return err
}

// userMessage maps a failure to a single category-specific notification.
func userMessage(err error) string {
	switch {
	case errors.Is(err, config.ErrWebhookURLMissing):
		return "No webhook URL is configured. Set WEBHOOK_URL and try again."
	case errors.Is(err, chat.ErrEmptyInput):
		return "Cannot send an empty message."
	case errors.Is(err, chat.ErrImageProcessing):
		return "Could not read the attached image. The message was not sent."
	case errors.Is(err, chat.ErrTimeout):
		return "The webhook did not answer in time. Please try again."
	case errors.Is(err, chat.ErrNetwork):
		return "Could not reach the webhook endpoint. Check your connection."
	case errors.Is(err, chat.ErrAuth):
		return "The webhook rejected the configured credentials."
	case errors.Is(err, chat.ErrServer):
		return "The webhook returned an error. Please try again."
	default:
		return fmt.Sprintf("Sending failed: %v", err)
	}
}
