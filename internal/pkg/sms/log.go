package sms

import (
	"context"
	"log/slog"
)

// Log records that a message would have been sent.
type Log struct{}

// NewLog returns a logging Sender.
func NewLog() *Log { return &Log{} }

// Send logs the recipient and reports ErrNotConfigured. The text is not
// logged since it usually carries a code.
func (*Log) Send(ctx context.Context, phone, text string) error {
	slog.WarnContext(ctx, "sms service not configured, message not sent", "to", phone, "length", len(text))
	return ErrNotConfigured
}
