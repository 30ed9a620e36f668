package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttendanceRepository handles attendance data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// UpsertBatch writes every record for date inside one transaction.
// Each row replaces status and marker of an existing (student, subject, date)
// mark. Any failing row rolls the whole batch back.
func (r *AttendanceRepository) UpsertBatch(ctx context.Context, date time.Time, records []model.AttendanceRecordInput) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, rec := range records {
		if _, err := tx.Exec(ctx,
			`INSERT INTO attendance (student_id, subject_id, marked_by_id, date, status)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (student_id, subject_id, date)
			 DO UPDATE SET status = EXCLUDED.status,
			               marked_by_id = EXCLUDED.marked_by_id,
			               updated_at = CURRENT_TIMESTAMP`,
			rec.StudentID, rec.SubjectID, rec.MarkedByID, date, string(rec.Status),
		); err != nil {
			return 0, fmt.Errorf("upsert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(records), nil
}

// buildFilter renders f as a WHERE clause over attendance a joined to subjects s.
func buildFilter(f model.AttendanceFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.StudentID > 0 {
		add("a.student_id = ?", f.StudentID)
	}
	if f.ClassID > 0 {
		add("s.class_id = ?", f.ClassID)
	}
	if f.Status != "" {
		add("a.status = ?", string(f.Status))
	}
	if f.From != nil {
		add("a.date >= ?", *f.From)
	}
	if f.To != nil {
		add("a.date < ?", *f.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// List retrieves marks matching f with their subject name. newestFirst
// orders by date descending; otherwise ascending. limit <= 0 means no limit.
func (r *AttendanceRepository) List(ctx context.Context, f model.AttendanceFilter, limit int, newestFirst bool) ([]model.Attendance, error) {
	where, args := buildFilter(f)
	order := "a.date ASC, a.id ASC"
	if newestFirst {
		order = "a.date DESC, a.id DESC"
	}

	query := `SELECT a.id, a.student_id, a.subject_id, a.marked_by_id, a.date, a.status,
	                 a.created_at, a.updated_at, s.name
	          FROM attendance a JOIN subjects s ON s.id = a.subject_id
	          ` + where + `
	          ORDER BY ` + order
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.Attendance{}
	for rows.Next() {
		var (
			a       model.Attendance
			status  string
			subject string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SubjectID, &a.MarkedByID, &a.Date, &status,
			&a.CreatedAt, &a.UpdatedAt, &subject); err != nil {
			return nil, err
		}
		a.Status = model.AttendanceStatus(status)
		a.Subject = &model.SubjectRef{Name: subject}
		records = append(records, a)
	}
	return records, rows.Err()
}

// Count counts marks matching f.
func (r *AttendanceRepository) Count(ctx context.Context, f model.AttendanceFilter) (int, error) {
	where, args := buildFilter(f)
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance a JOIN subjects s ON s.id = a.subject_id `+where, args...,
	).Scan(&n)
	return n, err
}

// CountAll counts every stored mark.
func (r *AttendanceRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendance`).Scan(&n)
	return n, err
}

// CountByStatusOn groups the marks of one calendar day by status.
func (r *AttendanceRepository) CountByStatusOn(ctx context.Context, day time.Time) (map[model.AttendanceStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM attendance WHERE date = $1 GROUP BY status`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.AttendanceStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[model.AttendanceStatus(status)] = count
	}
	return counts, rows.Err()
}
