package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/rs/zerolog"
)

// NotificationService creates notifications and pushes them to live streams.
type NotificationService struct {
	notifications NotificationStore
	users         UserStore
	publisher     NotificationPublisher
	log           zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications NotificationStore, users UserStore, publisher NotificationPublisher, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		publisher:     publisher,
		log:           log.With().Str("component", "notification").Logger(),
	}
}

// Create stores a notification. Without a recipient it goes to the first
// admin; when no admin exists pgx.ErrNoRows is returned.
func (s *NotificationService) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	n := &model.Notification{
		Title:   strings.TrimSpace(req.Title),
		Message: strings.TrimSpace(req.Message),
	}

	if req.UserID != nil {
		recipient, err := s.users.GetByID(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		n.UserID, n.UserName = recipient.ID, &recipient.Name
	} else {
		admin, err := s.users.FirstByRole(ctx, model.RoleAdmin)
		if err != nil {
			return nil, err
		}
		n.UserID, n.UserName = admin.ID, &admin.Name
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if err := s.publisher.Publish(ctx, *n); err != nil {
		s.log.Warn().Err(err).Int("user_id", n.UserID).Msg("Failed to publish notification")
	}
	return n, nil
}

// Delete removes a notification. Unknown ids surface as pgx.ErrNoRows.
func (s *NotificationService) Delete(ctx context.Context, id int) error {
	return s.notifications.Delete(ctx, id)
}
