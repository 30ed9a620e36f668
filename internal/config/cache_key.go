package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PasswordResetKey returns the key holding the user id a reset token was issued for.
func (r *CacheKeyStruct) PasswordResetKey(token string) string {
	return fmt.Sprintf("password_reset:%s", token)
}

// UserNotificationChannel returns the Redis PubSub channel carrying live notifications for one user.
func (r *CacheKeyStruct) UserNotificationChannel(userID int) string {
	return fmt.Sprintf("user:%d:notifications", userID)
}

var CacheKey = NewCacheKeyStruct()
