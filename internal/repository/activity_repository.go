package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ActivityRepository reads persisted activity rows and feeds the queue the
// activity worker drains.
type ActivityRepository struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool, rdb *redis.Client) *ActivityRepository {
	return &ActivityRepository{pool: pool, rdb: rdb}
}

// Enqueue pushes entry onto the activity queue.
func (r *ActivityRepository) Enqueue(ctx context.Context, entry model.ActivityEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return r.rdb.RPush(ctx, config.WorkerKey.PersistActivityQueue, b).Err()
}

// ListRecent retrieves the newest activity rows.
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, action, details, created_at
		 FROM activity_logs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.ActivityLog{}
	for rows.Next() {
		var l model.ActivityLog
		var details []byte
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &details, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Details = json.RawMessage(details)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
