package mail

import (
	"context"
	"errors"
	"io"
)

// ErrNotConfigured is returned by senders that have no provider behind them.
var ErrNotConfigured = errors.New("mail: provider not configured")

// Message represents an email payload.
type Message struct {
	// From is an optional explicit sender; the configured default is used when empty.
	From string
	// To lists the recipients.
	To []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}
