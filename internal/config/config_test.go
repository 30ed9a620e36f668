package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("RESET_TOKEN_TTL_MINUTES", "")
	t.Setenv("FRONTEND_URL", "https://school.example.com/")

	cfg := Load()

	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, "https://school.example.com", cfg.FrontendURL)
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("AUTH_RATE_LIMIT_PER_MIN", "lots")
	assert.Equal(t, 30, getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30))

	t.Setenv("AUTH_RATE_LIMIT_PER_MIN", "-4")
	assert.Equal(t, 30, getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30))

	t.Setenv("AUTH_RATE_LIMIT_PER_MIN", "5")
	assert.Equal(t, 5, getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30))
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, parseOrigins(" http://a.test, ,http://b.test "))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "password_reset:abc", CacheKey.PasswordResetKey("abc"))
	assert.Equal(t, "user:7:notifications", CacheKey.UserNotificationChannel(7))
}
