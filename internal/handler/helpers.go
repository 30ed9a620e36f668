package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// paramID parses a positive integer path parameter. On failure it writes a
// 400 INVALID_ID response and returns false.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// failInternal logs err with the request id and answers 500.
func failInternal(c *gin.Context, log zerolog.Logger, err error, msg string) {
	log.Error().
		Err(err).
		Str("request_id", response.RequestID(c)).
		Str("path", c.FullPath()).
		Msg(msg)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// failStore maps the repository error classes shared by CRUD handlers.
// notFound is the entity-specific code used for pgx.ErrNoRows.
func failStore(c *gin.Context, log zerolog.Logger, err error, notFound response.ErrCode, msg string) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.Fail(c, http.StatusConflict, response.ErrEmailExists)
	case repository.IsForeignKeyViolation(err):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	default:
		failInternal(c, log, err, msg)
	}
}
