package service

import (
	"context"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
)

// StatsService answers the single-number stats endpoints.
type StatsService struct {
	summary    SummaryStore
	attendance AttendanceStore
	now        func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(summary SummaryStore, attendance AttendanceStore) *StatsService {
	return &StatsService{summary: summary, attendance: attendance, now: time.Now}
}

func (s *StatsService) Admins(ctx context.Context) (int, error) {
	c, err := s.summary.GetSummaryCounts(ctx)
	return c.Admins, err
}

func (s *StatsService) Students(ctx context.Context) (int, error) {
	c, err := s.summary.GetSummaryCounts(ctx)
	return c.Students, err
}

func (s *StatsService) Teachers(ctx context.Context) (int, error) {
	c, err := s.summary.GetSummaryCounts(ctx)
	return c.Teachers, err
}

func (s *StatsService) Classes(ctx context.Context) (int, error) {
	c, err := s.summary.GetSummaryCounts(ctx)
	return c.Classes, err
}

func (s *StatsService) Attendance(ctx context.Context) (int, error) {
	return s.attendance.CountAll(ctx)
}

// TodayRate is the marks dated today or later per student as a rounded
// percentage.
func (s *StatsService) TodayRate(ctx context.Context) (int, error) {
	c, err := s.summary.GetSummaryCounts(ctx)
	if err != nil {
		return 0, err
	}
	if c.Students == 0 {
		return 0, nil
	}

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	marks, err := s.attendance.Count(ctx, model.AttendanceFilter{From: &today})
	if err != nil {
		return 0, err
	}
	return Percentage(marks, c.Students), nil
}
