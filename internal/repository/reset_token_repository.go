package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound is returned for unknown, expired or already used tokens.
var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenRepository stores single-use password reset tokens in Redis.
type ResetTokenRepository struct {
	rdb *redis.Client
}

// NewResetTokenRepository creates a new ResetTokenRepository.
func NewResetTokenRepository(rdb *redis.Client) *ResetTokenRepository {
	return &ResetTokenRepository{rdb: rdb}
}

// Save records that token resets userID's password until ttl elapses.
func (r *ResetTokenRepository) Save(ctx context.Context, token string, userID int, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.PasswordResetKey(token), userID, ttl).Err()
}

// Consume atomically reads and deletes token, returning its user id.
func (r *ResetTokenRepository) Consume(ctx context.Context, token string) (int, error) {
	val, err := r.rdb.GetDel(ctx, config.CacheKey.PasswordResetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrResetTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, ErrResetTokenNotFound
	}
	return userID, nil
}
