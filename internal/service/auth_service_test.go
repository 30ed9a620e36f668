package service

import (
	"context"
	"testing"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	auth := NewAuthService(testConfig(), users)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	users.byID[1] = &model.User{ID: 1, Name: "Ada", Email: "ada@school.test", PasswordHash: hash, Role: "Admin"}
	users.byID[3] = &model.User{ID: 3, Name: "Sam", Email: "sam@school.test", PasswordHash: hash, Role: model.RoleStudent, ClassID: ptr(1)}
	return auth, users
}

func TestLoginIssuesValidToken(t *testing.T) {
	auth, _ := newAuthFixture(t)

	res, err := auth.Login(context.Background(), "sam@school.test", "correct horse", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, res.User.Role)
	assert.Equal(t, 1, *res.User.ClassID)

	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)
	assert.Equal(t, "3", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginFailures(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, "sam@school.test", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "ghost@school.test", "correct horse", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "sam@school.test", "correct horse", model.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := auth.Login(ctx, "ada@school.test", "correct horse", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	auth, users := newAuthFixture(t)
	cfg := testConfig()
	cfg.JWTSecret = "other"
	other := NewAuthService(cfg, users)

	token, err := other.GenerateToken(users.byID[1])
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}
