package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrWebhookURLMissing means no webhook endpoint is configured at all;
// no network call may be attempted in that state.
var ErrWebhookURLMissing = errors.New("webhook URL is not configured")

// Build-time defaults, settable via -ldflags "-X .../internal/config.BuildWebhookURL=...".
// A value from the environment always wins over these.
var (
	BuildWebhookURL      string
	BuildWebhookUsername string
	BuildWebhookSecret   string
	BuildAssistantName   string
)

const (
	defaultAssistantName  = "Assistant"
	defaultRequestTimeout = 30 * time.Second
	defaultDatabasePath   = "talkflow.db"
)

type Config struct {
	WebhookURL      string        `env:"WEBHOOK_URL"`
	WebhookUsername string        `env:"WEBHOOK_USERNAME"`
	WebhookSecret   string        `env:"WEBHOOK_SECRET"`
	AssistantName   string        `env:"ASSISTANT_NAME"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	DatabasePath    string        `env:"DATABASE_PATH" envDefault:"talkflow.db"`
}

// Load resolves the configuration: runtime environment values first,
// build-time values second.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.WebhookURL == "" {
		cfg.WebhookURL = BuildWebhookURL
	}
	if cfg.WebhookUsername == "" {
		cfg.WebhookUsername = BuildWebhookUsername
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = BuildWebhookSecret
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = BuildAssistantName
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = defaultAssistantName
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}
	return cfg, nil
}

// Validate reports whether the config is usable for sending at all.
func (c *Config) Validate() error {
	if c.WebhookURL == "" {
		return ErrWebhookURLMissing
	}
	return nil
}

// BasicAuthConfigured is true only when both username and secret are set;
// with either one missing the Authorization header is omitted entirely.
func (c *Config) BasicAuthConfigured() bool {
	return c.WebhookUsername != "" && c.WebhookSecret != ""
}
