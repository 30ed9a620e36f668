package repository

import (
	"context"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles user data access for all roles.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role_id, LOWER(r.name), u.class_id, u.created_at, u.updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &role, &u.ClassID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return err
	}
	u.Role = model.RoleName(role)
	return nil
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID retrieves a user with its role name.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	u := &model.User{}
	err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE u.id = $1`, id), u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE LOWER(u.email) = LOWER($1)`, email), u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EmailExists reports whether any user already owns email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	return exists, err
}

// ListByRole retrieves all users holding role, ordered by name.
func (r *UserRepository) ListByRole(ctx context.Context, role model.RoleName) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE LOWER(r.name) = $1
		 ORDER BY u.name, u.id`, string(role))
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListStudentsInClasses retrieves students whose class is one of classIDs.
func (r *UserRepository) ListStudentsInClasses(ctx context.Context, classIDs []int) ([]model.User, error) {
	if len(classIDs) == 0 {
		return []model.User{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE LOWER(r.name) = 'student' AND u.class_id = ANY($1)
		 ORDER BY u.name, u.id`, classIDs)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// FirstByRole returns the lowest-id user holding role.
func (r *UserRepository) FirstByRole(ctx context.Context, role model.RoleName) (*model.User, error) {
	u := &model.User{}
	err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE LOWER(r.name) = $1
		 ORDER BY u.id LIMIT 1`, string(role)), u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListSummaries retrieves id, email and name of every user.
func (r *UserRepository) ListSummaries(ctx context.Context) ([]model.UserSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, name FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.UserSummary{}
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new user. A taken email yields ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role_id, class_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.RoleID, u.ClassID,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Update writes name, email, password hash and class of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $1, email = $2, password_hash = $3, class_id = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING updated_at`,
		u.Name, u.Email, u.PasswordHash, u.ClassID, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteWithRole removes a user only if it holds role.
func (r *UserRepository) DeleteWithRole(ctx context.Context, id int, role model.RoleName) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM users u USING roles r
		 WHERE u.id = $1 AND r.id = u.role_id AND LOWER(r.name) = $2`,
		id, string(role),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
