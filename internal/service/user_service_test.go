package service

import (
	"context"
	"testing"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*UserService, *fakeUsers, *fakeActivity) {
	users := newFakeUsers(
		model.User{ID: 1, Name: "Ada Admin", Email: "admin@school.test", Role: model.RoleAdmin},
		model.User{ID: 7, Name: "Tom Teacher", Email: "tom@school.test", Role: model.RoleTeacher},
		model.User{ID: 3, Name: "Sam Student", Email: "sam@school.test", Role: model.RoleStudent, ClassID: ptr(1)},
	)
	activity, queue := newTestActivity()
	auth := NewAuthService(testConfig(), users)
	return NewUserService(users, newFakeRoles(), auth, activity), users, queue
}

func TestCreateStudentHashesPassword(t *testing.T) {
	svc, users, queue := newUserFixture()

	u, err := svc.Create(context.Background(), model.RoleStudent, NewUserInput{
		Name: " Nia ", Email: "nia@school.test", Password: "secret1", ClassID: ptr(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "Nia", u.Name)
	assert.Equal(t, 3, u.RoleID)
	assert.Equal(t, 2, *u.ClassID)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NoError(t, NewAuthService(testConfig(), users).CheckPassword(u.PasswordHash, "secret1"))
	assert.Equal(t, []string{model.ActionUserCreated}, queue.actions())
}

func TestCreateDuplicateEmailInsertsNothing(t *testing.T) {
	svc, users, _ := newUserFixture()

	_, err := svc.Create(context.Background(), model.RoleStudent, NewUserInput{
		Name: "Other Sam", Email: "sam@school.test", Password: "secret1",
	})

	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Zero(t, users.creates)
}

func TestCreateTeacherIgnoresClass(t *testing.T) {
	svc, _, _ := newUserFixture()

	u, err := svc.Create(context.Background(), model.RoleTeacher, NewUserInput{
		Name: "Tia", Email: "tia@school.test", Password: "secret1", ClassID: ptr(1),
	})
	require.NoError(t, err)
	assert.Nil(t, u.ClassID)
	assert.Equal(t, 2, u.RoleID)
}

func TestUpdateStudentClearsClass(t *testing.T) {
	svc, _, _ := newUserFixture()

	u, err := svc.Update(context.Background(), model.RoleStudent, 3, &model.UpdateUserRequest{
		ClassID: model.OptionalID{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, u.ClassID)
	assert.Equal(t, "Sam Student", u.Name)
}

func TestUpdateWrongRoleIsNotFound(t *testing.T) {
	svc, _, _ := newUserFixture()

	_, err := svc.Update(context.Background(), model.RoleStudent, 7, &model.UpdateUserRequest{Name: ptr("Nope")})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUpdateEmailConflict(t *testing.T) {
	svc, _, _ := newUserFixture()

	_, err := svc.Update(context.Background(), model.RoleTeacher, 7, &model.UpdateUserRequest{Email: ptr("sam@school.test")})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestEmailUniquenessIgnoresCase(t *testing.T) {
	svc, users, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.Update(ctx, model.RoleTeacher, 7, &model.UpdateUserRequest{Email: ptr("SAM@School.Test")})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	stored, err := users.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "tom@school.test", stored.Email)

	_, err = svc.Create(ctx, model.RoleStudent, NewUserInput{Name: "Sam Two", Email: "Sam@School.TEST", Password: "secret1"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Zero(t, users.creates)

	u, err := svc.Update(ctx, model.RoleTeacher, 7, &model.UpdateUserRequest{Email: ptr("Tom@School.test")})
	require.NoError(t, err)
	assert.Equal(t, "Tom@School.test", u.Email)
}

func TestDeleteScopedToRole(t *testing.T) {
	svc, users, queue := newUserFixture()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, model.RoleTeacher, 3), pgx.ErrNoRows)
	assert.ErrorIs(t, svc.Delete(ctx, model.RoleTeacher, 404), pgx.ErrNoRows)
	require.NoError(t, svc.Delete(ctx, model.RoleTeacher, 7))

	_, err := users.GetByID(ctx, 7)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Equal(t, []string{model.ActionUserDeleted}, queue.actions())
}

func TestAdminProfileMatchesRoleCaseInsensitively(t *testing.T) {
	users := newFakeUsers(model.User{ID: 2, Name: "Root", Email: "root@school.test", Role: "ADMIN"})
	activity, _ := newTestActivity()
	svc := NewUserService(users, newFakeRoles(), NewAuthService(testConfig(), users), activity)

	profile, err := svc.AdminProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.AdminProfile{Name: "Root", Email: "root@school.test"}, profile)
}
