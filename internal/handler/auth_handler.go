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

// AuthHandler handles login and password reset.
type AuthHandler struct {
	authService  *service.AuthService
	resetService *service.PasswordResetService
	log          zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, resetService *service.PasswordResetService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		log:          log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /login
// Authenticates any user and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, "")
}

// AdminLogin godoc
// POST /api/admin/login
// Same as Login but only admins are accepted.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, model.RoleAdmin)
}

func (h *AuthHandler) login(c *gin.Context, role model.RoleName) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		failInternal(c, h.log, err, "Login failed")
		return
	}

	response.OK(c, result)
}

// ForgotPassword godoc
// POST /forgot-password
// Always answers success so the endpoint cannot be used to probe emails.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		failInternal(c, h.log, err, "Password reset request failed")
		return
	}

	response.OK(c, gin.H{"success": true})
}

// ResetPassword godoc
// POST /reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.resetService.Reset(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidResetToken)
			return
		}
		failInternal(c, h.log, err, "Password reset failed")
		return
	}

	response.OK(c, gin.H{"success": true})
}
