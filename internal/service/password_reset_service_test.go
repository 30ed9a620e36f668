package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/attenda/attenda-backend/internal/mail"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetFixture struct {
	svc    *PasswordResetService
	auth   *AuthService
	users  *fakeUsers
	mailer *mail.ConsoleSender
	clock  *time.Time
	queue  *fakeActivity
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	f := &resetFixture{clock: &now}

	f.users = newFakeUsers(model.User{ID: 3, Name: "Sam", Email: "sam@school.test", PasswordHash: "old", Role: model.RoleStudent})
	f.auth = NewAuthService(testConfig(), f.users)
	f.mailer = mail.NewConsoleSender("Attenda", "no-reply@attenda.test", zerolog.Nop())
	tokens := newFakeTokens(func() time.Time { return *f.clock })

	var activity *ActivityService
	activity, f.queue = newTestActivity()
	f.svc = NewPasswordResetService(testConfig(), f.users, tokens, f.auth, f.mailer, activity, zerolog.Nop())
	return f
}

// tokenFromMail extracts the token from the reset link in the last mail.
func (f *resetFixture) tokenFromMail(t *testing.T) string {
	t.Helper()
	sent := f.mailer.Sent()
	require.NotEmpty(t, sent)
	text := sent[len(sent)-1].Text
	start := strings.Index(text, "http://frontend.test/reset-password?")
	require.GreaterOrEqual(t, start, 0)
	link := strings.Fields(text[start:])[0]
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestResetFlow(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "sam@school.test"))
	token := f.tokenFromMail(t)
	assert.Len(t, token, 64)

	require.NoError(t, f.svc.Reset(ctx, token, "new-secret"))
	u, _ := f.users.GetByID(ctx, 3)
	assert.NoError(t, f.auth.CheckPassword(u.PasswordHash, "new-secret"))
	assert.Equal(t, []string{model.ActionPasswordReset}, f.queue.actions())

	// Tokens are single use.
	assert.ErrorIs(t, f.svc.Reset(ctx, token, "another-secret"), ErrInvalidResetToken)
}

func TestResetExpiredToken(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "sam@school.test"))
	token := f.tokenFromMail(t)

	*f.clock = f.clock.Add(31 * time.Minute)
	assert.ErrorIs(t, f.svc.Reset(ctx, token, "new-secret"), ErrInvalidResetToken)

	u, _ := f.users.GetByID(ctx, 3)
	assert.Equal(t, "old", u.PasswordHash)
}

func TestResetUnknownToken(t *testing.T) {
	f := newResetFixture(t)
	assert.ErrorIs(t, f.svc.Reset(context.Background(), "deadbeef", "new-secret"), ErrInvalidResetToken)
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset(context.Background(), "ghost@school.test"))
	assert.Empty(t, f.mailer.Sent())
}

func TestResetMailEscapesNameInHTML(t *testing.T) {
	f := newResetFixture(t)
	f.users = newFakeUsers(model.User{ID: 9, Name: `<b>Eve</b> & "co"`, Email: "eve@school.test", Role: model.RoleStudent})
	f.svc.users = f.users

	require.NoError(t, f.svc.RequestReset(context.Background(), "eve@school.test"))

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTML, "Hello &lt;b&gt;Eve&lt;/b&gt; &amp; &#34;co&#34;,")
	assert.NotContains(t, sent[0].HTML, "<b>Eve</b>")
	assert.Contains(t, sent[0].Text, `Hello <b>Eve</b> & "co",`)
}
