package repository

import (
	"context"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubjectRepository handles subject data access.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// GetByID retrieves a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	s := &model.Subject{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, class_id, created_at, updated_at FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves subjects, optionally restricted to one class.
func (r *SubjectRepository) List(ctx context.Context, classID *int) ([]model.Subject, error) {
	query := `SELECT id, name, class_id, created_at, updated_at FROM subjects`
	var args []any
	if classID != nil {
		query += ` WHERE class_id = $1`
		args = append(args, *classID)
	}
	query += ` ORDER BY class_id, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (name, class_id) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.ClassID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update writes name and class of an existing subject.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE subjects SET name = $1, class_id = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3 RETURNING updated_at`,
		s.Name, s.ClassID, s.ID,
	).Scan(&s.UpdatedAt)
	return err
}

// Delete removes a subject by ID.
func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
