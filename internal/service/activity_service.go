package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/rs/zerolog"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// ActivityService records audit-style activity asynchronously. Entries are
// queued in Redis and persisted by the activity worker.
type ActivityService struct {
	store ActivityStore
	log   zerolog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(store ActivityStore, log zerolog.Logger) *ActivityService {
	return &ActivityService{store: store, log: log.With().Str("component", "activity").Logger()}
}

// Record enqueues one activity entry. Failures are logged, never returned.
func (s *ActivityService) Record(ctx context.Context, userID *int, action string, details map[string]any) {
	entry := model.ActivityEntry{
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UnixMilli(),
	}
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			s.log.Error().Err(err).Str("action", action).Msg("Failed to encode activity details")
			return
		}
		entry.Details = b
	}

	if err := s.store.Enqueue(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("Failed to enqueue activity")
	}
}

// Recent returns the newest persisted activity rows. limit is clamped to
// [1, MaxActivityLimit]; non-positive values select the default.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	return s.store.ListRecent(ctx, limit)
}
