package mail

import (
	"context"
	"net/mail"
	"sync"

	"github.com/rs/zerolog"
)

// ConsoleSender logs messages instead of sending them. It is selected when
// no SendGrid key is configured, and keeps the outbox for inspection.
type ConsoleSender struct {
	from mail.Address
	log  zerolog.Logger

	mu   sync.Mutex
	sent []Message
}

// NewConsoleSender creates a ConsoleSender.
func NewConsoleSender(fromName, fromEmail string, log zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{
		from: mail.Address{Name: fromName, Address: fromEmail},
		log:  log.With().Str("component", "mail").Logger(),
	}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("from", s.from.String()).
		Str("to", msg.To.String()).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("Email (console)")

	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

// Sent returns a copy of every message sent so far.
func (s *ConsoleSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
