package handler

import (
	"net/http"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/attenda/attenda-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ClassHandler handles admin-facing class management (CRUD).
type ClassHandler struct {
	classService *service.ClassService
	log          zerolog.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService, log zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		classService: classService,
		log:          log.With().Str("component", "class_handler").Logger(),
	}
}

// ListClasses godoc
// GET /api/admin/classes
// Lists all classes with their teacher name, without pagination.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "Failed to list classes")
		return
	}

	response.OK(c, gin.H{"classes": classes})
}

// CreateClass godoc
// POST /api/admin/classes
// Creates a class and, when "subject" is given, its first subject.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.classService.Create(c.Request.Context(), &req)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			response.Fail(c, http.StatusNotFound, response.ErrTeacherNotFound)
			return
		}
		failInternal(c, h.log, err, "Failed to create class")
		return
	}

	response.Created(c, created)
}

// UpdateClass godoc
// PATCH /api/admin/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			response.Fail(c, http.StatusNotFound, response.ErrTeacherNotFound)
			return
		}
		failStore(c, h.log, err, response.ErrClassNotFound, "Failed to update class")
		return
	}

	response.OK(c, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/admin/classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		failStore(c, h.log, err, response.ErrClassNotFound, "Failed to delete class")
		return
	}

	response.OK(c, gin.H{"success": true})
}
