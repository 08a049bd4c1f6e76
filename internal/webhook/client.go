package webhook

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

const JSONContentType = "application/json"

// Request is the JSON body the webhook endpoint expects.
type Request struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
	Data      string `json:"data,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	FileName  string `json:"fileName,omitempty"`
}

// Response is the normalized result of one webhook exchange.
type Response struct {
	Output string
}

// Client performs a single timeout-bounded POST against the webhook endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	username   string
	secret     string
	timeout    time.Duration
}

// NewClient creates a Client for the given endpoint. Username and secret may
// both be empty, in which case no Authorization header is sent.
func NewClient(url, username, secret string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{},
		url:        url,
		username:   username,
		secret:     secret,
		timeout:    timeout,
	}
}

// Send posts the request body and returns the normalized reply text.
// Failures are classified: chat.ErrTimeout when the deadline elapsed,
// chat.ErrNetwork for transport failures, chat.ErrAuth for 401/403 and
// chat.ErrServer for any other non-2xx status.
func (c *Client) Send(ctx context.Context, request Request) (*Response, error) {
	reqBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal webhook request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(reqBytes))
	if err != nil {
		slog.Error("Failed to build webhook request", "error", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrNetwork, err)
	}

	req.Header.Set("Content-Type", JSONContentType)
	req.Header.Set("Accept", JSONContentType)
	if c.username != "" && c.secret != "" {
		req.Header.Set("Authorization", "Basic "+basicAuthSecret(c.username, c.secret))
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Error("Webhook request timed out", "url", c.url, "timeout", c.timeout)
			return nil, fmt.Errorf("%w after %s", chat.ErrTimeout, c.timeout)
		}
		slog.Error("Failed to send webhook request", "error", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrNetwork, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		slog.Error("Failed to read webhook response body", "error", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrNetwork, err)
	}

	if err := classifyStatus(res.StatusCode); err != nil {
		slog.Error("Webhook request failed", "status", res.StatusCode)
		return nil, err
	}

	return &Response{Output: Normalize(body)}, nil
}

func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status code %d", chat.ErrAuth, status)
	default:
		return fmt.Errorf("%w: status code %d", chat.ErrServer, status)
	}
}

func basicAuthSecret(username, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + secret))
}
