package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

const (
	adminFeedNotifications   = 5
	adminFeedWindow          = 7 * 24 * time.Hour
	teacherFeedNotifications = 10
	studentFeedNotifications = 10
	studentFeedRecords       = 10
)

// DashboardService composes the read-only admin, teacher and student feeds.
type DashboardService struct {
	users         UserStore
	classes       ClassStore
	summary       SummaryStore
	attendance    AttendanceStore
	notifications NotificationStore
	aggregates    *AttendanceService
	now           func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	users UserStore,
	classes ClassStore,
	summary SummaryStore,
	attendance AttendanceStore,
	notifications NotificationStore,
	aggregates *AttendanceService,
) *DashboardService {
	return &DashboardService{
		users:         users,
		classes:       classes,
		summary:       summary,
		attendance:    attendance,
		notifications: notifications,
		aggregates:    aggregates,
		now:           time.Now,
	}
}

// today returns the server-local calendar date as a DATE-compatible value.
func (s *DashboardService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// currentMonth returns the server-local month as YYYY-MM.
func (s *DashboardService) currentMonth() string {
	return s.now().Format("2006-01")
}

func toItems(ns []model.Notification, withUser bool) []model.NotificationItem {
	items := make([]model.NotificationItem, 0, len(ns))
	for _, n := range ns {
		item := n.Item()
		if !withUser {
			item.UserName = nil
		}
		items = append(items, item)
	}
	return items
}

// RecentNotifications returns the newest notifications of the last week for the admin feed.
func (s *DashboardService) RecentNotifications(ctx context.Context) ([]model.NotificationItem, error) {
	ns, err := s.notifications.ListSince(ctx, s.now().Add(-adminFeedWindow), adminFeedNotifications)
	if err != nil {
		return nil, fmt.Errorf("recent notifications: %w", err)
	}
	return toItems(ns, true), nil
}

// Admin composes the admin overview.
func (s *DashboardService) Admin(ctx context.Context) (*model.AdminDashboard, error) {
	counts, err := s.summary.GetSummaryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary counts: %w", err)
	}

	byStatus, err := s.attendance.CountByStatusOn(ctx, s.today())
	if err != nil {
		return nil, fmt.Errorf("today's attendance: %w", err)
	}

	recent, err := s.RecentNotifications(ctx)
	if err != nil {
		return nil, err
	}

	return &model.AdminDashboard{
		TotalStudents:     counts.Students,
		TotalTeachers:     counts.Teachers,
		TotalClasses:      counts.Classes,
		PresentToday:      byStatus[model.StatusPresent],
		AbsentToday:       byStatus[model.StatusAbsent],
		LateArrivalsToday: byStatus[model.StatusLate],
		Notifications:     recent,
	}, nil
}

// userWithRole loads id and checks its role. Missing users surface as
// pgx.ErrNoRows, users with another role as ErrWrongRole.
func (s *DashboardService) userWithRole(ctx context.Context, id int, role model.RoleName) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(role) {
		return nil, ErrWrongRole
	}
	return u, nil
}

// TeacherClasses returns the classes a teacher is homeroom teacher of.
func (s *DashboardService) TeacherClasses(ctx context.Context, teacherID int) ([]model.Class, error) {
	if _, err := s.userWithRole(ctx, teacherID, model.RoleTeacher); err != nil {
		return nil, err
	}
	return s.classes.ListByTeacher(ctx, teacherID)
}

// TeacherNotifications returns the newest notifications addressed to a teacher.
func (s *DashboardService) TeacherNotifications(ctx context.Context, teacherID int) ([]model.NotificationItem, error) {
	if _, err := s.userWithRole(ctx, teacherID, model.RoleTeacher); err != nil {
		return nil, err
	}
	ns, err := s.notifications.ListForUser(ctx, teacherID, teacherFeedNotifications)
	if err != nil {
		return nil, err
	}
	return toItems(ns, false), nil
}

// Teacher composes a teacher's overview.
func (s *DashboardService) Teacher(ctx context.Context, teacherID int) (*model.TeacherDashboard, error) {
	teacher, err := s.userWithRole(ctx, teacherID, model.RoleTeacher)
	if err != nil {
		return nil, err
	}

	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("teacher classes: %w", err)
	}

	classIDs := make([]int, len(classes))
	for i, c := range classes {
		classIDs[i] = c.ID
	}
	students, err := s.users.ListStudentsInClasses(ctx, classIDs)
	if err != nil {
		return nil, fmt.Errorf("teacher students: %w", err)
	}

	ns, err := s.notifications.ListForUser(ctx, teacherID, teacherFeedNotifications)
	if err != nil {
		return nil, fmt.Errorf("teacher notifications: %w", err)
	}

	return &model.TeacherDashboard{
		Teacher:       *teacher,
		Classes:       classes,
		Students:      students,
		TotalClasses:  len(classes),
		TotalStudents: len(students),
		Notifications: toItems(ns, false),
	}, nil
}

// Student composes a student's overview for the current month.
func (s *DashboardService) Student(ctx context.Context, studentID int) (*model.StudentDashboard, error) {
	student, err := s.userWithRole(ctx, studentID, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	dash := &model.StudentDashboard{
		Profile:           *student,
		AttendanceRecords: []model.Attendance{},
	}

	from, to, err := MonthWindow(s.currentMonth())
	if err != nil {
		return nil, err
	}

	if student.ClassID != nil {
		class, err := s.classes.GetByID(ctx, *student.ClassID)
		switch {
		case err == nil:
			dash.ClassInfo = &model.ClassInfo{ID: class.ID, Name: class.Name, Teacher: class.TeacherName}
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return nil, fmt.Errorf("student class: %w", err)
		}

		dash.AttendancePct, err = s.aggregates.Summary(ctx, studentID, *student.ClassID, s.currentMonth())
		if err != nil {
			return nil, fmt.Errorf("student percentage: %w", err)
		}

		dash.AttendanceRecords, err = s.attendance.List(ctx, model.AttendanceFilter{
			StudentID: studentID,
			ClassID:   *student.ClassID,
			From:      &from,
			To:        &to,
		}, studentFeedRecords, true)
		if err != nil {
			return nil, fmt.Errorf("student records: %w", err)
		}
	}

	ns, err := s.notifications.ListForUser(ctx, studentID, studentFeedNotifications)
	if err != nil {
		return nil, fmt.Errorf("student notifications: %w", err)
	}
	dash.Notifications = toItems(ns, false)

	return dash, nil
}
