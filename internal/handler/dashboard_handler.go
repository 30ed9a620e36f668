package handler

import (
	"errors"
	"net/http"

	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// DashboardHandler serves the three role overview feeds.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// failUser maps the lookup errors of the per-user feeds.
func (h *DashboardHandler) failUser(c *gin.Context, err error, notFound response.ErrCode) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrWrongRole):
		response.Fail(c, http.StatusForbidden, response.ErrWrongRole)
	default:
		failInternal(c, h.log, err, "Failed to build dashboard")
	}
}

// AdminStats godoc
// GET /api/admin/stats
func (h *DashboardHandler) AdminStats(c *gin.Context) {
	feed, err := h.dashboardService.Admin(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "Failed to build admin dashboard")
		return
	}
	response.OK(c, feed)
}

// AdminNotifications godoc
// GET /api/admin/notifications
// The five most recent notifications of the last week.
func (h *DashboardHandler) AdminNotifications(c *gin.Context) {
	items, err := h.dashboardService.RecentNotifications(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "Failed to list recent notifications")
		return
	}
	response.OK(c, gin.H{"notifications": items})
}

// Teacher godoc
// GET /api/teacher/:id/dashboard
func (h *DashboardHandler) Teacher(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	feed, err := h.dashboardService.Teacher(c.Request.Context(), id)
	if err != nil {
		h.failUser(c, err, response.ErrTeacherNotFound)
		return
	}
	response.OK(c, feed)
}

// TeacherClasses godoc
// GET /api/admin/teacher/:id/classes
func (h *DashboardHandler) TeacherClasses(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	classes, err := h.dashboardService.TeacherClasses(c.Request.Context(), id)
	if err != nil {
		h.failUser(c, err, response.ErrTeacherNotFound)
		return
	}
	response.OK(c, gin.H{"classes": classes})
}

// TeacherNotifications godoc
// GET /api/admin/teacher/:id/notifications
func (h *DashboardHandler) TeacherNotifications(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	items, err := h.dashboardService.TeacherNotifications(c.Request.Context(), id)
	if err != nil {
		h.failUser(c, err, response.ErrTeacherNotFound)
		return
	}
	response.OK(c, gin.H{"notifications": items})
}

// Student godoc
// GET /api/student/:id/dashboard
func (h *DashboardHandler) Student(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	feed, err := h.dashboardService.Student(c.Request.Context(), id)
	if err != nil {
		h.failUser(c, err, response.ErrStudentNotFound)
		return
	}
	response.OK(c, feed)
}
