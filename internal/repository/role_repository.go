package repository

import (
	"context"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleRepository handles role data access.
type RoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// GetByName looks a role up by name, ignoring case.
func (r *RoleRepository) GetByName(ctx context.Context, name model.RoleName) (*model.Role, error) {
	role := &model.Role{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM roles WHERE LOWER(name) = LOWER($1)`, string(name),
	).Scan(&role.ID, &role.Name, &role.CreatedAt)
	if err != nil {
		return nil, err
	}
	return role, nil
}

// List retrieves all roles.
func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Ensure inserts any missing role names and returns all roles keyed by lower-case name.
func (r *RoleRepository) Ensure(ctx context.Context, names ...model.RoleName) (map[model.RoleName]model.Role, error) {
	raw := make([]string, len(names))
	for i, n := range names {
		raw[i] = string(n)
	}
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO roles (name)
		 SELECT n FROM UNNEST($1::text[]) AS n
		 WHERE NOT EXISTS (SELECT 1 FROM roles WHERE LOWER(roles.name) = LOWER(n))`, raw,
	); err != nil {
		return nil, err
	}

	roles, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[model.RoleName]model.Role, len(roles))
	for _, role := range roles {
		out[model.NormalizeRole(role.Name)] = role
	}
	return out, nil
}
