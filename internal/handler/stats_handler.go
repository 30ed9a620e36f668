package handler

import (
	"context"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// StatsHandler serves the single-number stats endpoints.
type StatsHandler struct {
	statsService *service.StatsService
	log          zerolog.Logger
}

func NewStatsHandler(statsService *service.StatsService, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		log:          log.With().Str("component", "stats_handler").Logger(),
	}
}

func (h *StatsHandler) count(fn func(context.Context) (int, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := fn(c.Request.Context())
		if err != nil {
			failInternal(c, h.log, err, "Failed to compute stat")
			return
		}
		response.OK(c, model.CountResponse{Count: n})
	}
}

// GET /api/stats/admins
func (h *StatsHandler) Admins() gin.HandlerFunc { return h.count(h.statsService.Admins) }

// GET /api/stats/students
func (h *StatsHandler) Students() gin.HandlerFunc { return h.count(h.statsService.Students) }

// GET /api/stats/teachers
func (h *StatsHandler) Teachers() gin.HandlerFunc { return h.count(h.statsService.Teachers) }

// GET /api/stats/classes
func (h *StatsHandler) Classes() gin.HandlerFunc { return h.count(h.statsService.Classes) }

// GET /api/stats/attendance
func (h *StatsHandler) Attendance() gin.HandlerFunc { return h.count(h.statsService.Attendance) }

// TodayRate godoc
// GET /api/stats/today-rate
func (h *StatsHandler) TodayRate(c *gin.Context) {
	rate, err := h.statsService.TodayRate(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "Failed to compute today's rate")
		return
	}
	response.OK(c, model.RateResponse{Rate: rate})
}
