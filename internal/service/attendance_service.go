package service

import (
	"context"
	"fmt"
	"time"

	"github.com/attenda/attenda-backend/internal/metrics"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/rs/zerolog"
)

// AttendanceService owns the batch write path and the per-student aggregates.
type AttendanceService struct {
	store    AttendanceStore
	activity *ActivityService
	log      zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(store AttendanceStore, activity *ActivityService, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		store:    store,
		activity: activity,
		log:      log.With().Str("component", "attendance").Logger(),
	}
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the calendar date
// at UTC midnight. For timestamps the date part is taken in the
// timestamp's own offset.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// MonthWindow returns [first day of month, first day of next month) for
// a YYYY-MM string.
func MonthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}

// Percentage rounds present/total*100 half up. Zero total yields 0.
func Percentage(present, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*present + total) / (2 * total)
}

// validateRecords checks the whole batch before anything is written.
func validateRecords(records []model.AttendanceRecordInput) error {
	for i, r := range records {
		switch {
		case r.StudentID <= 0:
			return &RecordError{Index: i, Field: "studentId", Reason: "must be a positive id"}
		case r.SubjectID <= 0:
			return &RecordError{Index: i, Field: "subjectId", Reason: "must be a positive id"}
		case r.MarkedByID <= 0:
			return &RecordError{Index: i, Field: "markedById", Reason: "must be a positive id"}
		case !r.Status.Valid():
			return &RecordError{Index: i, Field: "status", Reason: "must be one of Present, Absent, Late, Leave"}
		}
	}
	return nil
}

// Save validates and writes a batch of marks for one date atomically.
func (s *AttendanceService) Save(ctx context.Context, req *model.SaveAttendanceRequest) (int, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return 0, err
	}
	if len(req.Records) == 0 {
		return 0, &RecordError{Index: 0, Field: "records", Reason: "at least one record is required"}
	}
	if err := validateRecords(req.Records); err != nil {
		return 0, err
	}

	saved, err := s.store.UpsertBatch(ctx, date, req.Records)
	if err != nil {
		return 0, fmt.Errorf("save attendance: %w", err)
	}

	metrics.AttendanceRecordsSaved.Add(float64(saved))
	s.log.Info().
		Int("class_id", req.ClassID).
		Str("date", date.Format(time.DateOnly)).
		Int("saved", saved).
		Msg("Attendance saved")

	marker := req.Records[0].MarkedByID
	s.activity.Record(ctx, &marker, model.ActionAttendanceSaved, map[string]any{
		"classId": req.ClassID,
		"date":    date.Format(time.DateOnly),
		"saved":   saved,
	})
	return saved, nil
}

// ListMonth returns a student's marks within classID for month, oldest first.
func (s *AttendanceService) ListMonth(ctx context.Context, studentID, classID int, month string) ([]model.Attendance, error) {
	from, to, err := MonthWindow(month)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, model.AttendanceFilter{
		StudentID: studentID,
		ClassID:   classID,
		From:      &from,
		To:        &to,
	}, 0, false)
}

// Summary computes the attendance percentage of a student in a class,
// optionally restricted to month (YYYY-MM, empty for all time).
func (s *AttendanceService) Summary(ctx context.Context, studentID, classID int, month string) (*model.AttendanceSummary, error) {
	f := model.AttendanceFilter{StudentID: studentID, ClassID: classID}
	if month != "" {
		from, to, err := MonthWindow(month)
		if err != nil {
			return nil, err
		}
		f.From, f.To = &from, &to
	}
	return s.summarize(ctx, f)
}

func (s *AttendanceService) summarize(ctx context.Context, f model.AttendanceFilter) (*model.AttendanceSummary, error) {
	total, err := s.store.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count attendance: %w", err)
	}

	present := 0
	if total > 0 {
		f.Status = model.StatusPresent
		if present, err = s.store.Count(ctx, f); err != nil {
			return nil, fmt.Errorf("count present: %w", err)
		}
	}

	return &model.AttendanceSummary{
		Percentage: Percentage(present, total),
		Present:    present,
		Total:      total,
	}, nil
}
