package repository

import (
	"context"
	"fmt"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `c.id, c.name, c.teacher_id, t.name, c.created_at, c.updated_at`

func scanClass(row pgx.Row, c *model.Class) error {
	return row.Scan(&c.ID, &c.Name, &c.TeacherID, &c.TeacherName, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ClassRepository) query(ctx context.Context, where string, args ...any) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+`
		 FROM classes c LEFT JOIN users t ON t.id = c.teacher_id
		 `+where+`
		 ORDER BY c.name, c.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// GetByID retrieves a class with its teacher name.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c := &model.Class{}
	err := scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+`
		 FROM classes c LEFT JOIN users t ON t.id = c.teacher_id
		 WHERE c.id = $1`, id), c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all classes.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	return r.query(ctx, "")
}

// ListByTeacher retrieves the classes whose homeroom teacher is teacherID.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	return r.query(ctx, "WHERE c.teacher_id = $1", teacherID)
}

// Create inserts a class and, when firstSubject is non-empty, its first
// subject in the same transaction.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class, firstSubject string) (*model.Subject, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO classes (name, teacher_id) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert class: %w", err)
	}

	if c.TeacherID != nil {
		if err := tx.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, *c.TeacherID).Scan(&c.TeacherName); err != nil {
			return nil, fmt.Errorf("load teacher: %w", err)
		}
	}

	var subject *model.Subject
	if firstSubject != "" {
		subject = &model.Subject{Name: firstSubject, ClassID: c.ID}
		if err := tx.QueryRow(ctx,
			`INSERT INTO subjects (name, class_id) VALUES ($1, $2)
			 RETURNING id, created_at, updated_at`,
			subject.Name, subject.ClassID,
		).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insert subject: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return subject, nil
}

// Update writes name and teacher of an existing class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $1, teacher_id = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		c.Name, c.TeacherID, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a class by its ID. Subjects cascade, students are detached.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
