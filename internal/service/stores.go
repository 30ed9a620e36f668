package service

import (
	"context"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
)

// The interfaces below are the slices of the repositories each service needs.
// The pgx/Redis repositories satisfy them; tests use in-memory fakes.

type UserStore interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role model.RoleName) ([]model.User, error)
	ListStudentsInClasses(ctx context.Context, classIDs []int) ([]model.User, error)
	FirstByRole(ctx context.Context, role model.RoleName) (*model.User, error)
	ListSummaries(ctx context.Context) ([]model.UserSummary, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	DeleteWithRole(ctx context.Context, id int, role model.RoleName) error
}

type RoleStore interface {
	GetByName(ctx context.Context, name model.RoleName) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
}

type ClassStore interface {
	GetByID(ctx context.Context, id int) (*model.Class, error)
	List(ctx context.Context) ([]model.Class, error)
	ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error)
	Create(ctx context.Context, c *model.Class, firstSubject string) (*model.Subject, error)
	Update(ctx context.Context, c *model.Class) error
	Delete(ctx context.Context, id int) error
}

type SubjectStore interface {
	GetByID(ctx context.Context, id int) (*model.Subject, error)
	List(ctx context.Context, classID *int) ([]model.Subject, error)
	Create(ctx context.Context, s *model.Subject) error
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id int) error
}

type AttendanceStore interface {
	UpsertBatch(ctx context.Context, date time.Time, records []model.AttendanceRecordInput) (int, error)
	List(ctx context.Context, f model.AttendanceFilter, limit int, newestFirst bool) ([]model.Attendance, error)
	Count(ctx context.Context, f model.AttendanceFilter) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountByStatusOn(ctx context.Context, day time.Time) (map[model.AttendanceStatus]int, error)
}

type SummaryStore interface {
	GetSummaryCounts(ctx context.Context) (repository.SummaryCounts, error)
}

type NotificationStore interface {
	ListForUser(ctx context.Context, userID, limit int) ([]model.Notification, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]model.Notification, error)
	Create(ctx context.Context, n *model.Notification) error
	Delete(ctx context.Context, id int) error
}

type NotificationPublisher interface {
	Publish(ctx context.Context, n model.Notification) error
}

type LeaveStore interface {
	Create(ctx context.Context, l *model.LeaveRequest) error
	ListByStudent(ctx context.Context, studentID int) ([]model.LeaveRequest, error)
	List(ctx context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error)
	Review(ctx context.Context, id int, status model.LeaveStatus, reviewerID int) (*model.LeaveRequest, error)
}

type ActivityStore interface {
	Enqueue(ctx context.Context, entry model.ActivityEntry) error
	ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error)
}

type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID int, ttl time.Duration) error
	Consume(ctx context.Context, token string) (int, error)
}
