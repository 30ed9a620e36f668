package handler

import (
	"net/http"

	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/attenda/attenda-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ActivityHandler struct {
	activityService *service.ActivityService
	log             zerolog.Logger
}

func NewActivityHandler(activityService *service.ActivityService, log zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		log:             log.With().Str("component", "activity_handler").Logger(),
	}
}

type activityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// ListActivity godoc
// GET /api/admin/activity?limit=
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	var q activityQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	logs, err := h.activityService.Recent(c.Request.Context(), q.Limit)
	if err != nil {
		failInternal(c, h.log, err, "Failed to list activity")
		return
	}

	response.OK(c, gin.H{"activity": logs})
}
