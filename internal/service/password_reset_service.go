package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	netmail "net/mail"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/mail"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// PasswordResetService issues and redeems single-use reset tokens.
type PasswordResetService struct {
	cfg      *config.Config
	users    UserStore
	tokens   ResetTokenStore
	auth     *AuthService
	mailer   mail.Sender
	activity *ActivityService
	log      zerolog.Logger
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	cfg *config.Config,
	users UserStore,
	tokens ResetTokenStore,
	auth *AuthService,
	mailer mail.Sender,
	activity *ActivityService,
	log zerolog.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		cfg:      cfg,
		users:    users,
		tokens:   tokens,
		auth:     auth,
		mailer:   mailer,
		activity: activity,
		log:      log.With().Str("component", "password_reset").Logger(),
	}
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RequestReset mails a reset link when email belongs to a user. Unknown
// emails succeed silently so callers cannot probe for accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Debug().Msg("Reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	if err := s.tokens.Save(ctx, token, user.ID, s.cfg.ResetTokenTTL); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, token)
	minutes := int(s.cfg.ResetTokenTTL.Minutes())
	body := fmt.Sprintf(`<p>Hello %s,</p><p><a href="%s">Reset your password</a></p><p>The link expires in %d minutes.</p>`,
		html.EscapeString(user.Name), html.EscapeString(link), minutes)
	msg := mail.Message{
		To:      netmail.Address{Name: user.Name, Address: user.Email},
		Subject: "Reset your password",
		Text:    fmt.Sprintf("Hello %s,\n\nUse this link to reset your password: %s\n\nThe link expires in %d minutes.", user.Name, link, minutes),
		HTML:    body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// Reset redeems token and sets a new password. Tokens work once.
func (s *PasswordResetService) Reset(ctx context.Context, token, password string) error {
	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("consume token: %w", err)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.activity.Record(ctx, &userID, model.ActionPasswordReset, nil)
	return nil
}
