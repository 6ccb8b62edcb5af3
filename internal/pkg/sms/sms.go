package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned by senders that have no gateway behind them.
	ErrNotConfigured = errors.New("sms: provider not configured")
	// ErrEmptyRecipient is returned when the destination has no digits.
	ErrEmptyRecipient = errors.New("sms: empty recipient")
)

// Sender abstracts an SMS gateway.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// Config selects and configures a gateway.
type Config struct {
	// Provider is "fast2sms", "twilio" or empty to pick from the credentials.
	Provider string

	Fast2SMSAPIKey string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	// CountryCode is prefixed to numbers without a leading "+" for gateways
	// that need E.164.
	CountryCode string
	Timeout     time.Duration
}

// New returns the sender matching cfg. Fast2SMS wins when both gateways
// have credentials and no provider is named. A named provider without
// credentials falls back to the log sender.
func New(cfg Config) (Sender, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 10 * time.Second
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		switch {
		case cfg.Fast2SMSAPIKey != "":
			provider = "fast2sms"
		case cfg.TwilioAccountSID != "":
			provider = "twilio"
		default:
			provider = "log"
		}
	}

	switch provider {
	case "fast2sms":
		if cfg.Fast2SMSAPIKey == "" {
			slog.Warn("sms provider has no credentials, messages will only be logged", "provider", provider)
			return NewLog(), nil
		}
		return NewFast2SMS(cfg.Fast2SMSAPIKey, client), nil
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
			slog.Warn("sms provider has no credentials, messages will only be logged", "provider", provider)
			return NewLog(), nil
		}
		return NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.CountryCode, client), nil
	case "log":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("sms: unknown provider %q", cfg.Provider)
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
