package adapter

import "context"

// EmailMessage represents an email to send.
type EmailMessage struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// EmailSender defines the interface for sending transactional email.
type EmailSender interface {
	// Send sends a single email message.
	Send(ctx context.Context, msg *EmailMessage) error
}
