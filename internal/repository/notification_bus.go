package repository

import (
	"context"
	"encoding/json"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// NotificationBus fans notifications out to live websocket subscribers via Redis Pub/Sub.
type NotificationBus struct {
	rdb *redis.Client
}

// NewNotificationBus creates a new NotificationBus.
func NewNotificationBus(rdb *redis.Client) *NotificationBus {
	return &NotificationBus{rdb: rdb}
}

// Publish sends n on its recipient's channel.
func (b *NotificationBus) Publish(ctx context.Context, n model.Notification) error {
	payload, err := json.Marshal(n.Item())
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, config.CacheKey.UserNotificationChannel(n.UserID), payload).Err()
}

// Subscribe opens a subscription on userID's channel. The caller closes it.
func (b *NotificationBus) Subscribe(ctx context.Context, userID int) *redis.PubSub {
	return b.rdb.Subscribe(ctx, config.CacheKey.UserNotificationChannel(userID))
}
