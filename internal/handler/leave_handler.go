package handler

import (
	"errors"
	"net/http"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/attenda/attenda-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LeaveHandler serves student leave requests and their admin review.
type LeaveHandler struct {
	leaveService *service.LeaveService
	log          zerolog.Logger
}

// NewLeaveHandler creates a new LeaveHandler.
func NewLeaveHandler(leaveService *service.LeaveService, log zerolog.Logger) *LeaveHandler {
	return &LeaveHandler{
		leaveService: leaveService,
		log:          log.With().Str("component", "leave_handler").Logger(),
	}
}

func (h *LeaveHandler) failStudent(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
	case errors.Is(err, service.ErrWrongRole):
		response.Fail(c, http.StatusForbidden, response.ErrWrongRole)
	case errors.Is(err, service.ErrInvalidDate):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
	case errors.Is(err, service.ErrInvalidDateRange):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"fromDate": "fromDate must not be after toDate"})
	default:
		failInternal(c, h.log, err, "Leave request failed")
	}
}

// CreateLeaveRequest godoc
// POST /api/student/:id/leave-requests
func (h *LeaveHandler) CreateLeaveRequest(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.CreateLeaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	leave, err := h.leaveService.Create(c.Request.Context(), studentID, &req)
	if err != nil {
		h.failStudent(c, err)
		return
	}

	response.Created(c, gin.H{"leaveRequest": leave})
}

// ListStudentLeaveRequests godoc
// GET /api/student/:id/leave-requests
func (h *LeaveHandler) ListStudentLeaveRequests(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	leaves, err := h.leaveService.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		h.failStudent(c, err)
		return
	}

	response.OK(c, gin.H{"leaveRequests": leaves})
}

// ListLeaveRequests godoc
// GET /api/admin/leave-requests?status=
func (h *LeaveHandler) ListLeaveRequests(c *gin.Context) {
	var q model.LeaveListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	leaves, err := h.leaveService.List(c.Request.Context(), q.Status)
	if err != nil {
		failInternal(c, h.log, err, "Failed to list leave requests")
		return
	}

	response.OK(c, gin.H{"leaveRequests": leaves})
}

// ReviewLeaveRequest godoc
// PATCH /api/admin/leave-requests/:id
func (h *LeaveHandler) ReviewLeaveRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ReviewLeaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	leave, err := h.leaveService.Review(c.Request.Context(), id, &req)
	if err != nil {
		failStore(c, h.log, err, response.ErrLeaveNotFound, "Failed to review leave request")
		return
	}

	response.OK(c, gin.H{"leaveRequest": leave})
}
