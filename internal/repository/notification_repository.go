package repository

import (
	"context"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles notification data access.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func collectNotifications(rows pgx.Rows) ([]model.Notification, error) {
	defer rows.Close()
	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.UserID, &n.UserName, &n.SentAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListForUser retrieves the newest notifications addressed to userID.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.title, n.message, n.user_id, u.name, n.sent_at
		 FROM notifications n JOIN users u ON u.id = n.user_id
		 WHERE n.user_id = $1
		 ORDER BY n.sent_at DESC, n.id DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

// ListSince retrieves the newest notifications sent at or after since, for any user.
func (r *NotificationRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.title, n.message, n.user_id, u.name, n.sent_at
		 FROM notifications n JOIN users u ON u.id = n.user_id
		 WHERE n.sent_at >= $1
		 ORDER BY n.sent_at DESC, n.id DESC
		 LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (title, message, user_id) VALUES ($1, $2, $3)
		 RETURNING id, sent_at`,
		n.Title, n.Message, n.UserID,
	).Scan(&n.ID, &n.SentAt)
}

// Delete removes a notification by ID.
func (r *NotificationRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
