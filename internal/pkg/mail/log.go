package mail

import (
	"context"
	"log/slog"
)

// Log is a Mail that only records that a message would have been sent.
type Log struct{}

// NewLog returns a logging Mail.
func NewLog() *Log { return &Log{} }

// Send logs the recipients and subject and reports ErrNotConfigured.
func (*Log) Send(ctx context.Context, msg Message) error {
	slog.WarnContext(ctx, "email service not configured, message not sent", "to", msg.To, "subject", msg.Subject)
	return ErrNotConfigured
}

// Close is a no-op.
func (*Log) Close() error { return nil }
