package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    4,
		ResetTokenTTL: 30 * time.Minute,
		FrontendURL:   "http://frontend.test",
	}
}

func ptr[T any](v T) *T { return &v }

// ─── Users ─────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[int]*model.User
	nextID  int
	creates int
}

func newFakeUsers(users ...model.User) *fakeUsers {
	f := &fakeUsers{byID: map[int]*model.User{}, nextID: 1}
	for _, u := range users {
		u := u
		f.byID[u.ID] = &u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) sorted() []model.User {
	out := []model.User{}
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeUsers) ListByRole(_ context.Context, role model.RoleName) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.User{}
	for _, u := range f.sorted() {
		if u.HasRole(role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListStudentsInClasses(_ context.Context, classIDs []int) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in := map[int]bool{}
	for _, id := range classIDs {
		in[id] = true
	}
	out := []model.User{}
	for _, u := range f.sorted() {
		if u.HasRole(model.RoleStudent) && u.ClassID != nil && in[*u.ClassID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) FirstByRole(ctx context.Context, role model.RoleName) (*model.User, error) {
	users, _ := f.ListByRole(ctx, role)
	if len(users) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &users[0], nil
}

func (f *fakeUsers) ListSummaries(_ context.Context) ([]model.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.UserSummary{}
	for _, u := range f.sorted() {
		out = append(out, model.UserSummary{ID: u.ID, Email: u.Email, Name: u.Name})
	}
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range f.byID {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) DeleteWithRole(_ context.Context, id int, role model.RoleName) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || !u.HasRole(role) {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

// ─── Roles ─────────────────────────────────────────────────────────────

type fakeRoles struct{ roles []model.Role }

func newFakeRoles() *fakeRoles {
	return &fakeRoles{roles: []model.Role{{ID: 1, Name: "ADMIN"}, {ID: 2, Name: "Teacher"}, {ID: 3, Name: "student"}}}
}

func (f *fakeRoles) GetByName(_ context.Context, name model.RoleName) (*model.Role, error) {
	for _, r := range f.roles {
		if model.NormalizeRole(r.Name) == model.NormalizeRole(string(name)) {
			cp := r
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRoles) List(_ context.Context) ([]model.Role, error) { return f.roles, nil }

// ─── Classes ───────────────────────────────────────────────────────────

type fakeClasses struct {
	byID     map[int]*model.Class
	subjects []model.Subject
	nextID   int
}

func newFakeClasses(classes ...model.Class) *fakeClasses {
	f := &fakeClasses{byID: map[int]*model.Class{}, nextID: 1}
	for _, c := range classes {
		c := c
		f.byID[c.ID] = &c
		if c.ID >= f.nextID {
			f.nextID = c.ID + 1
		}
	}
	return f
}

func (f *fakeClasses) GetByID(_ context.Context, id int) (*model.Class, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClasses) List(_ context.Context) ([]model.Class, error) {
	out := []model.Class{}
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClasses) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	all, _ := f.List(ctx)
	out := []model.Class{}
	for _, c := range all {
		if c.TeacherID != nil && *c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClasses) Create(_ context.Context, c *model.Class, firstSubject string) (*model.Subject, error) {
	c.ID = f.nextID
	f.nextID++
	cp := *c
	f.byID[c.ID] = &cp
	if firstSubject == "" {
		return nil, nil
	}
	s := model.Subject{ID: len(f.subjects) + 1, Name: firstSubject, ClassID: c.ID}
	f.subjects = append(f.subjects, s)
	return &s, nil
}

func (f *fakeClasses) Update(_ context.Context, c *model.Class) error {
	if _, ok := f.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeClasses) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

// ─── Attendance ────────────────────────────────────────────────────────

type attendanceKey struct {
	student, subject int
	date             time.Time
}

type fakeAttendance struct {
	mu sync.Mutex
	// subjectClass maps subject id to class id for ClassID filtering.
	subjectClass map[int]int
	subjectName  map[int]string
	rows         map[attendanceKey]model.Attendance
	nextID       int
	failOn       int // when > 0, UpsertBatch fails on that 1-based record
	upserts      int
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{
		subjectClass: map[int]int{},
		subjectName:  map[int]string{},
		rows:         map[attendanceKey]model.Attendance{},
		nextID:       1,
	}
}

func (f *fakeAttendance) UpsertBatch(_ context.Context, date time.Time, records []model.AttendanceRecordInput) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++

	staged := make(map[attendanceKey]model.Attendance, len(f.rows))
	for k, v := range f.rows {
		staged[k] = v
	}
	next := f.nextID
	for i, r := range records {
		if f.failOn == i+1 {
			return 0, errors.New("foreign key violation")
		}
		k := attendanceKey{r.StudentID, r.SubjectID, date}
		row, ok := staged[k]
		if !ok {
			row = model.Attendance{ID: next, StudentID: r.StudentID, SubjectID: r.SubjectID, Date: date}
			next++
		}
		row.Status = r.Status
		row.MarkedByID = r.MarkedByID
		staged[k] = row
	}
	f.rows, f.nextID = staged, next
	return len(records), nil
}

func (f *fakeAttendance) match(a model.Attendance, flt model.AttendanceFilter) bool {
	switch {
	case flt.StudentID > 0 && a.StudentID != flt.StudentID:
		return false
	case flt.ClassID > 0 && f.subjectClass[a.SubjectID] != flt.ClassID:
		return false
	case flt.Status != "" && a.Status != flt.Status:
		return false
	case flt.From != nil && a.Date.Before(*flt.From):
		return false
	case flt.To != nil && !a.Date.Before(*flt.To):
		return false
	}
	return true
}

func (f *fakeAttendance) List(_ context.Context, flt model.AttendanceFilter, limit int, newestFirst bool) ([]model.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Attendance{}
	for _, a := range f.rows {
		if f.match(a, flt) {
			a.Subject = &model.SubjectRef{Name: f.subjectName[a.SubjectID]}
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			if newestFirst {
				return out[i].Date.After(out[j].Date)
			}
			return out[i].Date.Before(out[j].Date)
		}
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAttendance) Count(ctx context.Context, flt model.AttendanceFilter) (int, error) {
	rows, _ := f.List(ctx, flt, 0, false)
	return len(rows), nil
}

func (f *fakeAttendance) CountAll(ctx context.Context) (int, error) {
	return f.Count(ctx, model.AttendanceFilter{})
}

func (f *fakeAttendance) CountByStatusOn(_ context.Context, day time.Time) (map[model.AttendanceStatus]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[model.AttendanceStatus]int{}
	for _, a := range f.rows {
		if a.Date.Equal(day) {
			out[a.Status]++
		}
	}
	return out, nil
}

// ─── Summary ───────────────────────────────────────────────────────────

type fakeSummary struct{ counts repository.SummaryCounts }

func (f fakeSummary) GetSummaryCounts(context.Context) (repository.SummaryCounts, error) {
	return f.counts, nil
}

// ─── Notifications ─────────────────────────────────────────────────────

type fakeNotifications struct {
	rows   []model.Notification
	nextID int
}

func (f *fakeNotifications) newest(keep func(model.Notification) bool, limit int) []model.Notification {
	out := []model.Notification{}
	for _, n := range f.rows {
		if keep(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeNotifications) ListForUser(_ context.Context, userID, limit int) ([]model.Notification, error) {
	return f.newest(func(n model.Notification) bool { return n.UserID == userID }, limit), nil
}

func (f *fakeNotifications) ListSince(_ context.Context, since time.Time, limit int) ([]model.Notification, error) {
	return f.newest(func(n model.Notification) bool { return !n.SentAt.Before(since) }, limit), nil
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	f.nextID++
	n.ID = f.nextID
	n.SentAt = time.Now()
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotifications) Delete(_ context.Context, id int) error {
	for i, n := range f.rows {
		if n.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakePublisher struct{ published []model.Notification }

func (f *fakePublisher) Publish(_ context.Context, n model.Notification) error {
	f.published = append(f.published, n)
	return nil
}

// ─── Activity ──────────────────────────────────────────────────────────

type fakeActivity struct {
	mu      sync.Mutex
	entries []model.ActivityEntry
	limit   int
}

func (f *fakeActivity) Enqueue(_ context.Context, e model.ActivityEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeActivity) ListRecent(_ context.Context, limit int) ([]model.ActivityLog, error) {
	f.limit = limit
	return []model.ActivityLog{}, nil
}

func (f *fakeActivity) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

func newTestActivity() (*ActivityService, *fakeActivity) {
	store := &fakeActivity{}
	return NewActivityService(store, zerolog.Nop()), store
}

// ─── Reset tokens ──────────────────────────────────────────────────────

type fakeTokens struct {
	now     func() time.Time
	entries map[string]struct {
		userID  int
		expires time.Time
	}
}

func newFakeTokens(now func() time.Time) *fakeTokens {
	return &fakeTokens{now: now, entries: map[string]struct {
		userID  int
		expires time.Time
	}{}}
}

func (f *fakeTokens) Save(_ context.Context, token string, userID int, ttl time.Duration) error {
	f.entries[token] = struct {
		userID  int
		expires time.Time
	}{userID, f.now().Add(ttl)}
	return nil
}

func (f *fakeTokens) Consume(_ context.Context, token string) (int, error) {
	e, ok := f.entries[token]
	delete(f.entries, token)
	if !ok || !f.now().Before(e.expires) {
		return 0, repository.ErrResetTokenNotFound
	}
	return e.userID, nil
}

// ─── Leave requests ────────────────────────────────────────────────────

type fakeLeaves struct{ rows []model.LeaveRequest }

func (f *fakeLeaves) Create(_ context.Context, l *model.LeaveRequest) error {
	l.ID = len(f.rows) + 1
	l.Status = model.LeavePending
	f.rows = append(f.rows, *l)
	return nil
}

func (f *fakeLeaves) ListByStudent(_ context.Context, studentID int) ([]model.LeaveRequest, error) {
	out := []model.LeaveRequest{}
	for _, l := range f.rows {
		if l.StudentID == studentID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeaves) List(_ context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error) {
	out := []model.LeaveRequest{}
	for _, l := range f.rows {
		if status == "" || l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeaves) Review(_ context.Context, id int, status model.LeaveStatus, reviewerID int) (*model.LeaveRequest, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			f.rows[i].ReviewedByID = &reviewerID
			cp := f.rows[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}
