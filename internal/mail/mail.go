// Package mail delivers transactional email such as password reset links.
package mail

import (
	"context"
	"net/mail"
)

// Message is a single outgoing email.
type Message struct {
	To      mail.Address
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
