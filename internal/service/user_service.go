package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// NewUserInput is the role-independent shape of a create request.
type NewUserInput struct {
	Name     string
	Email    string
	Password string
	ClassID  *int
}

// UserService manages teacher and student accounts.
type UserService struct {
	users    UserStore
	roles    RoleStore
	auth     *AuthService
	activity *ActivityService
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, roles RoleStore, auth *AuthService, activity *ActivityService) *UserService {
	return &UserService{users: users, roles: roles, auth: auth, activity: activity}
}

// List returns every user holding role.
func (s *UserService) List(ctx context.Context, role model.RoleName) ([]model.User, error) {
	return s.users.ListByRole(ctx, role)
}

// ListSummaries returns id, email and name of every user.
func (s *UserService) ListSummaries(ctx context.Context) ([]model.UserSummary, error) {
	return s.users.ListSummaries(ctx)
}

// Roles lists the available roles.
func (s *UserService) Roles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

// AdminProfile returns the first admin's name and email.
func (s *UserService) AdminProfile(ctx context.Context) (*model.AdminProfile, error) {
	admin, err := s.users.FirstByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &model.AdminProfile{Name: admin.Name, Email: admin.Email}, nil
}

// Create adds a user with role. A taken email returns
// repository.ErrDuplicateEmail before any insert.
func (s *UserService) Create(ctx context.Context, role model.RoleName, in NewUserInput) (*model.User, error) {
	email := strings.TrimSpace(in.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, repository.ErrDuplicateEmail
	}

	r, err := s.roles.GetByName(ctx, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRoleMissing, role)
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		RoleID:       r.ID,
		Role:         role,
	}
	if role == model.RoleStudent {
		user.ClassID = in.ClassID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, nil, model.ActionUserCreated, map[string]any{"userId": user.ID, "role": string(role)})
	return user, nil
}

// Update patches a user of role. Users holding another role are reported
// as missing.
func (s *UserService) Update(ctx context.Context, role model.RoleName, id int, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(role) {
		return nil, pgx.ErrNoRows
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, user.Email) {
			exists, err := s.users.EmailExists(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if exists {
				return nil, repository.ErrDuplicateEmail
			}
		}
		user.Email = email
	}
	if req.Password != nil {
		hash, err := s.auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if role == model.RoleStudent && req.ClassID.Set {
		user.ClassID = req.ClassID.Value
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user of role. Unknown ids and other roles surface as pgx.ErrNoRows.
func (s *UserService) Delete(ctx context.Context, role model.RoleName, id int) error {
	if err := s.users.DeleteWithRole(ctx, id, role); err != nil {
		return err
	}
	s.activity.Record(ctx, nil, model.ActionUserDeleted, map[string]any{"userId": id, "role": string(role)})
	return nil
}
