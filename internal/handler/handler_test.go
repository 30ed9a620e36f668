package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attenda/attenda-backend/internal/config"
	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/attenda/attenda-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

// ─── Fakes ──────────────────────────────────────────────────────────

type nopActivity struct{}

func (nopActivity) Enqueue(context.Context, model.ActivityEntry) error { return nil }
func (nopActivity) ListRecent(context.Context, int) ([]model.ActivityLog, error) {
	return nil, nil
}

func newActivity() *service.ActivityService {
	return service.NewActivityService(nopActivity{}, zerolog.Nop())
}

type stubAttendance struct {
	saveErr error
	batches [][]model.AttendanceRecordInput
	total   int
	present int
}

func (s *stubAttendance) UpsertBatch(_ context.Context, _ time.Time, records []model.AttendanceRecordInput) (int, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.batches = append(s.batches, records)
	return len(records), nil
}

func (s *stubAttendance) List(context.Context, model.AttendanceFilter, int, bool) ([]model.Attendance, error) {
	return []model.Attendance{}, nil
}

func (s *stubAttendance) Count(_ context.Context, f model.AttendanceFilter) (int, error) {
	if f.Status == model.StatusPresent {
		return s.present, nil
	}
	return s.total, nil
}

func (s *stubAttendance) CountAll(context.Context) (int, error) { return s.total, nil }

func (s *stubAttendance) CountByStatusOn(context.Context, time.Time) (map[model.AttendanceStatus]int, error) {
	return map[model.AttendanceStatus]int{}, nil
}

type stubClasses struct{ deleted []int }

func (s *stubClasses) GetByID(context.Context, int) (*model.Class, error) { return nil, pgx.ErrNoRows }
func (s *stubClasses) List(context.Context) ([]model.Class, error) { return nil, nil }
func (s *stubClasses) ListByTeacher(context.Context, int) ([]model.Class, error) {
	return nil, nil
}
func (s *stubClasses) Create(context.Context, *model.Class, string) (*model.Subject, error) {
	return nil, nil
}
func (s *stubClasses) Update(context.Context, *model.Class) error { return pgx.ErrNoRows }
func (s *stubClasses) Delete(_ context.Context, id int) error {
	if id != 1 {
		return pgx.ErrNoRows
	}
	s.deleted = append(s.deleted, id)
	return nil
}

// stubUsers knows a fixed set of users and records inserts.
type stubUsers struct {
	byID    map[int]model.User
	created []model.User
}

func (s *stubUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *stubUsers) ListByRole(context.Context, model.RoleName) ([]model.User, error) {
	return nil, nil
}
func (s *stubUsers) ListStudentsInClasses(context.Context, []int) ([]model.User, error) {
	return nil, nil
}
func (s *stubUsers) FirstByRole(context.Context, model.RoleName) (*model.User, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubUsers) ListSummaries(context.Context) ([]model.UserSummary, error) { return nil, nil }
func (s *stubUsers) Create(_ context.Context, u *model.User) error {
	u.ID = 100 + len(s.created)
	s.created = append(s.created, *u)
	return nil
}
func (s *stubUsers) Update(context.Context, *model.User) error { return nil }
func (s *stubUsers) UpdatePassword(context.Context, int, string) error { return nil }
func (s *stubUsers) DeleteWithRole(context.Context, int, model.RoleName) error {
	return pgx.ErrNoRows
}

type stubRoles struct{}

func (stubRoles) GetByName(_ context.Context, name model.RoleName) (*model.Role, error) {
	return &model.Role{ID: 3, Name: string(name)}, nil
}
func (stubRoles) List(context.Context) ([]model.Role, error) { return nil, nil }

// ─── Helpers ────────────────────────────────────────────────────────

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	return r
}

func attendanceRouter(store *stubAttendance) *gin.Engine {
	h := NewAttendanceHandler(service.NewAttendanceService(store, newActivity(), zerolog.Nop()), zerolog.Nop())
	r := newEngine()
	r.POST("/api/attendance", h.Save)
	r.GET("/api/attendance/attendance/student/:studentId", h.ListForStudent)
	r.GET("/api/attendance/attendance/percentage", h.Percentage)
	return r
}

func batch(statuses ...string) map[string]any {
	records := make([]map[string]any, len(statuses))
	for i, s := range statuses {
		records[i] = map[string]any{"studentId": i + 1, "subjectId": 2, "markedById": 7, "status": s}
	}
	return map[string]any{"classId": 1, "date": "2024-03-05", "records": records}
}

// ─── Attendance ─────────────────────────────────────────────────────

func TestSaveAttendanceCreated(t *testing.T) {
	store := &stubAttendance{}
	w := perform(attendanceRouter(store), http.MethodPost, "/api/attendance", batch("Present", "Late", "Absent"))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode(t, w)
	assert.Equal(t, map[string]any{"success": true, "saved": float64(3)}, res.Data)
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 3)
}

func TestSaveAttendanceInvalidRecordWritesNothing(t *testing.T) {
	store := &stubAttendance{}
	w := perform(attendanceRouter(store), http.MethodPost, "/api/attendance", batch("Present", "Present", "Sick"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	res := decode(t, w)
	assert.Equal(t, response.ErrValidation, res.Error.Code)
	assert.Contains(t, res.Error.Fields, "records[2].status")
	assert.Empty(t, store.batches)
}

func TestSaveAttendanceRejectsEmptyBatch(t *testing.T) {
	store := &stubAttendance{}
	body := map[string]any{"classId": 1, "date": "2024-03-05", "records": []any{}}
	w := perform(attendanceRouter(store), http.MethodPost, "/api/attendance", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, decode(t, w).Error.Code)
	assert.Empty(t, store.batches)
}

func TestSaveAttendanceBadDate(t *testing.T) {
	body := batch("Present")
	body["date"] = "05/03/2024"
	w := perform(attendanceRouter(&stubAttendance{}), http.MethodPost, "/api/attendance", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidDate, decode(t, w).Error.Code)
}

func TestSaveAttendanceStoreFailure(t *testing.T) {
	store := &stubAttendance{saveErr: errors.New("insert or update on table \"attendance\" violates foreign key constraint")}
	w := perform(attendanceRouter(store), http.MethodPost, "/api/attendance", batch("Present"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	res := decode(t, w)
	assert.Equal(t, response.ErrAttendanceSaveFailed, res.Error.Code)
	assert.Equal(t, "Failed to save attendance.", res.Error.Message)
}

func TestPercentageEndpoint(t *testing.T) {
	r := attendanceRouter(&stubAttendance{total: 7, present: 5})

	w := perform(r, http.MethodGet, "/api/attendance/attendance/percentage?studentId=3&classId=1&month=2024-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"percentage": float64(71), "present": float64(5), "total": float64(7)}, decode(t, w).Data)

	w = perform(r, http.MethodGet, "/api/attendance/attendance/percentage?classId=1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error.Fields, "studentId")

	w = perform(r, http.MethodGet, "/api/attendance/attendance/percentage?studentId=3&classId=1&month=March", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidMonth, decode(t, w).Error.Code)
}

func TestListForStudentRequiresMonth(t *testing.T) {
	r := attendanceRouter(&stubAttendance{})

	w := perform(r, http.MethodGet, "/api/attendance/attendance/student/3?classId=1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error.Fields, "month")

	w = perform(r, http.MethodGet, "/api/attendance/attendance/student/abc?classId=1&month=2024-03", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidID, decode(t, w).Error.Code)

	w = perform(r, http.MethodGet, "/api/attendance/attendance/student/3?classId=1&month=2024-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"records": []any{}}, decode(t, w).Data)
}

// ─── CRUD ───────────────────────────────────────────────────────────

func TestDeleteUnknownClass(t *testing.T) {
	classes := &stubClasses{}
	h := NewClassHandler(service.NewClassService(classes, newActivity()), zerolog.Nop())
	r := newEngine()
	r.DELETE("/api/admin/classes/:id", h.DeleteClass)

	w := perform(r, http.MethodDelete, "/api/admin/classes/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	res := decode(t, w)
	assert.Equal(t, response.ErrClassNotFound, res.Error.Code)
	assert.Equal(t, "Class not found.", res.Error.Message)

	w = perform(r, http.MethodDelete, "/api/admin/classes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1}, classes.deleted)
}

func userRouter(users *stubUsers) *gin.Engine {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: 4}
	auth := service.NewAuthService(cfg, users)
	h := NewUserHandler(service.NewUserService(users, stubRoles{}, auth, newActivity()), zerolog.Nop())
	r := newEngine()
	r.POST("/api/admin/students", h.Create(model.RoleStudent))
	r.DELETE("/api/admin/teachers/:id", h.Delete(model.RoleTeacher))
	return r
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	users := &stubUsers{byID: map[int]model.User{
		1: {ID: 1, Email: "s1@example.com", Role: model.RoleStudent},
	}}
	body := map[string]any{"name": "Second", "email": "S1@example.com", "password": "secret1"}

	w := perform(userRouter(users), http.MethodPost, "/api/admin/students", body)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrEmailExists, decode(t, w).Error.Code)
	assert.Empty(t, users.created)
}

func TestCreateStudent(t *testing.T) {
	users := &stubUsers{byID: map[int]model.User{}}
	body := map[string]any{"name": "New Student", "email": "new@example.com", "password": "secret1", "classId": 4}

	w := perform(userRouter(users), http.MethodPost, "/api/admin/students", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, users.created, 1)
	assert.Equal(t, 3, users.created[0].RoleID)
	require.NotNil(t, users.created[0].ClassID)
	assert.Equal(t, 4, *users.created[0].ClassID)
	assert.NotEqual(t, "secret1", users.created[0].PasswordHash)
}

func TestDeleteUnknownTeacher(t *testing.T) {
	w := perform(userRouter(&stubUsers{}), http.MethodDelete, "/api/admin/teachers/9", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrTeacherNotFound, decode(t, w).Error.Code)
}

func TestFailStoreMapsDuplicateAndDependency(t *testing.T) {
	r := newEngine()
	r.GET("/dup", func(c *gin.Context) {
		failStore(c, zerolog.Nop(), repository.ErrDuplicateEmail, response.ErrNotFound, "x")
	})
	r.GET("/boom", func(c *gin.Context) {
		failStore(c, zerolog.Nop(), errors.New("boom"), response.ErrNotFound, "x")
	})

	w := perform(r, http.MethodGet, "/dup", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = perform(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.ErrInternal, decode(t, w).Error.Code)
}

// ─── Dashboards ─────────────────────────────────────────────────────

func TestTeacherDashboardStatusCodes(t *testing.T) {
	users := &stubUsers{byID: map[int]model.User{
		3: {ID: 3, Name: "S1", Role: model.RoleStudent},
	}}
	att := &stubAttendance{}
	svc := service.NewDashboardService(users, &stubClasses{}, nil, att, nil, service.NewAttendanceService(att, newActivity(), zerolog.Nop()))
	h := NewDashboardHandler(svc, zerolog.Nop())
	r := newEngine()
	r.GET("/api/teacher/:id/dashboard", h.Teacher)

	w := perform(r, http.MethodGet, "/api/teacher/3/dashboard", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrWrongRole, decode(t, w).Error.Code)

	w = perform(r, http.MethodGet, "/api/teacher/8/dashboard", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrTeacherNotFound, decode(t, w).Error.Code)
}
