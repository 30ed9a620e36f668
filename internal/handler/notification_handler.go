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

// NotificationHandler handles notification writes; reads live on the dashboards.
type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "notification_handler").Logger(),
	}
}

// CreateNotification godoc
// POST /api/admin/notifications
// Without userId the notification goes to the first admin.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req model.CreateNotificationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.notificationService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if req.UserID == nil {
				response.Fail(c, http.StatusNotFound, response.ErrAdminNotFound)
			} else {
				response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			}
			return
		}
		failInternal(c, h.log, err, "Failed to create notification")
		return
	}

	response.Created(c, gin.H{"notification": n})
}

// DeleteNotification godoc
// DELETE /api/admin/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		failStore(c, h.log, err, response.ErrNotificationNotFound, "Failed to delete notification")
		return
	}

	response.OK(c, gin.H{"success": true})
}
