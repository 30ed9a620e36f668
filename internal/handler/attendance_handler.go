package handler

import (
	"errors"
	"net/http"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/attenda/attenda-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AttendanceHandler serves the batch write and the per-student reads.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	log               zerolog.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		log:               log.With().Str("component", "attendance_handler").Logger(),
	}
}

// Save godoc
// POST /api/attendance
// Validates the whole batch, then upserts every record in one transaction.
func (h *AttendanceHandler) Save(c *gin.Context) {
	var req model.SaveAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	saved, err := h.attendanceService.Save(c.Request.Context(), &req)
	if err != nil {
		var recErr *service.RecordError
		switch {
		case errors.As(err, &recErr):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{recErr.Key(): recErr.Reason})
		case errors.Is(err, service.ErrInvalidDate):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		default:
			h.log.Error().
				Err(err).
				Str("request_id", response.RequestID(c)).
				Int("class_id", req.ClassID).
				Int("records", len(req.Records)).
				Msg("Failed to save attendance")
			response.Fail(c, http.StatusInternalServerError, response.ErrAttendanceSaveFailed)
		}
		return
	}

	response.Created(c, model.SaveAttendanceResponse{Success: true, Saved: saved})
}

// ListForStudent godoc
// GET /api/attendance/attendance/student/:studentId?classId=&month=YYYY-MM
func (h *AttendanceHandler) ListForStudent(c *gin.Context) {
	studentID, ok := paramID(c, "studentId")
	if !ok {
		return
	}

	var q model.AttendanceListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records, err := h.attendanceService.ListMonth(c.Request.Context(), studentID, q.ClassID, q.Month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidMonth)
			return
		}
		failInternal(c, h.log, err, "Failed to list attendance")
		return
	}

	response.OK(c, gin.H{"records": records})
}

// Percentage godoc
// GET /api/attendance/attendance/percentage?studentId=&classId=&month=
func (h *AttendanceHandler) Percentage(c *gin.Context) {
	var q model.AttendancePercentageQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.attendanceService.Summary(c.Request.Context(), q.StudentID, q.ClassID, q.Month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidMonth)
			return
		}
		failInternal(c, h.log, err, "Failed to compute attendance percentage")
		return
	}

	response.OK(c, summary)
}
