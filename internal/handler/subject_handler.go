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

// SubjectHandler handles admin-facing subject management.
type SubjectHandler struct {
	subjectService *service.SubjectService
	log            zerolog.Logger
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectService *service.SubjectService, log zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
		log:            log.With().Str("component", "subject_handler").Logger(),
	}
}

type subjectListQuery struct {
	ClassID *int `form:"classId" binding:"omitempty,min=1"`
}

// ListSubjects godoc
// GET /api/admin/subjects?classId=
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	var q subjectListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subjects, err := h.subjectService.List(c.Request.Context(), q.ClassID)
	if err != nil {
		failInternal(c, h.log, err, "Failed to list subjects")
		return
	}

	response.OK(c, gin.H{"subjects": subjects})
}

// CreateSubject godoc
// POST /api/admin/subjects
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.subjectService.Create(c.Request.Context(), &req)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
			return
		}
		failInternal(c, h.log, err, "Failed to create subject")
		return
	}

	response.Created(c, gin.H{"subject": subject})
}

// UpdateSubject godoc
// PATCH /api/admin/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.subjectService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
			return
		}
		failStore(c, h.log, err, response.ErrSubjectNotFound, "Failed to update subject")
		return
	}

	response.OK(c, gin.H{"subject": subject})
}

// DeleteSubject godoc
// DELETE /api/admin/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		failStore(c, h.log, err, response.ErrSubjectNotFound, "Failed to delete subject")
		return
	}

	response.OK(c, gin.H{"success": true})
}
