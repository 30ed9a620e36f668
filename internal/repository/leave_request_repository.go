package repository

import (
	"context"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeaveRequestRepository handles leave request data access.
type LeaveRequestRepository struct {
	pool *pgxpool.Pool
}

// NewLeaveRequestRepository creates a new LeaveRequestRepository.
func NewLeaveRequestRepository(pool *pgxpool.Pool) *LeaveRequestRepository {
	return &LeaveRequestRepository{pool: pool}
}

const leaveSelect = `SELECT l.id, l.student_id, u.name, l.from_date, l.to_date, l.reason, l.status,
	       l.reviewed_by_id, l.created_at, l.updated_at
	FROM leave_requests l JOIN users u ON u.id = l.student_id`

func scanLeave(row pgx.Row, l *model.LeaveRequest) error {
	var status string
	if err := row.Scan(&l.ID, &l.StudentID, &l.StudentName, &l.FromDate, &l.ToDate, &l.Reason, &status,
		&l.ReviewedByID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return err
	}
	l.Status = model.LeaveStatus(status)
	return nil
}

func collectLeaves(rows pgx.Rows) ([]model.LeaveRequest, error) {
	defer rows.Close()
	out := []model.LeaveRequest{}
	for rows.Next() {
		var l model.LeaveRequest
		if err := scanLeave(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create inserts a pending leave request.
func (r *LeaveRequestRepository) Create(ctx context.Context, l *model.LeaveRequest) error {
	l.Status = model.LeavePending
	return r.pool.QueryRow(ctx,
		`INSERT INTO leave_requests (student_id, from_date, to_date, reason, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		l.StudentID, l.FromDate, l.ToDate, l.Reason, string(l.Status),
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

// ListByStudent retrieves one student's requests, newest first.
func (r *LeaveRequestRepository) ListByStudent(ctx context.Context, studentID int) ([]model.LeaveRequest, error) {
	rows, err := r.pool.Query(ctx, leaveSelect+` WHERE l.student_id = $1 ORDER BY l.created_at DESC, l.id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows)
}

// List retrieves all requests, optionally with one status.
func (r *LeaveRequestRepository) List(ctx context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error) {
	query := leaveSelect
	var args []any
	if status != "" {
		query += ` WHERE l.status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY l.created_at DESC, l.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows)
}

// Review sets the decision on a request and returns the updated row.
func (r *LeaveRequestRepository) Review(ctx context.Context, id int, status model.LeaveStatus, reviewerID int) (*model.LeaveRequest, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leave_requests SET status = $1, reviewed_by_id = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`, string(status), reviewerID, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	l := &model.LeaveRequest{}
	if err := scanLeave(r.pool.QueryRow(ctx, leaveSelect+` WHERE l.id = $1`, id), l); err != nil {
		return nil, err
	}
	return l, nil
}
