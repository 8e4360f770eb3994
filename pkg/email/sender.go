package email

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by senders missing host, credentials or recipient.
var ErrNotConfigured = errors.New("email service is not configured")

// Sender hands a fully built message to a mail provider.
type Sender interface {
	// Send returns once the provider accepted the message, or with the
	// provider's error. Implementations must honor ctx cancellation.
	Send(ctx context.Context, msg Message) error
}

// Message represents an email message to be sent.
type Message struct {
	From    string // author address (From header)
	To      string // recipient address
	ReplyTo string // optional Reply-To header
	Subject string
	HTML    string // text/html body
}
