package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository serves the aggregate counts behind the admin feed
// and the stats endpoints.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// SummaryCounts is the headline numbers of the admin feed.
type SummaryCounts struct {
	Students int
	Teachers int
	Admins   int
	Classes  int
}

// GetSummaryCounts retrieves all headline counts in one round trip.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (SummaryCounts, error) {
	var s SummaryCounts
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id WHERE LOWER(r.name) = 'student'),
			(SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id WHERE LOWER(r.name) = 'teacher'),
			(SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id WHERE LOWER(r.name) = 'admin'),
			(SELECT COUNT(*) FROM classes)`,
	).Scan(&s.Students, &s.Teachers, &s.Admins, &s.Classes)
	return s, err
}
