package handler

import (
	"errors"
	"net/http"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/attenda/attenda-backend/internal/repository"
	"github.com/attenda/attenda-backend/internal/response"
	"github.com/attenda/attenda-backend/internal/service"
	"github.com/attenda/attenda-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// UserHandler manages teacher and student accounts plus the small
// user-related admin reads (roles, profile, user list).
type UserHandler struct {
	userService *service.UserService
	log         zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log.With().Str("component", "user_handler").Logger(),
	}
}

func notFoundCode(role model.RoleName) response.ErrCode {
	if role == model.RoleStudent {
		return response.ErrStudentNotFound
	}
	return response.ErrTeacherNotFound
}

func collectionKey(role model.RoleName) string {
	if role == model.RoleStudent {
		return "students"
	}
	return "teachers"
}

// List godoc
// GET /api/admin/teachers, GET /api/admin/students
func (h *UserHandler) List(role model.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := h.userService.List(c.Request.Context(), role)
		if err != nil {
			failInternal(c, h.log, err, "Failed to list users")
			return
		}
		response.OK(c, gin.H{collectionKey(role): users})
	}
}

// Create godoc
// POST /api/admin/teachers, POST /api/admin/students
// A taken email answers 409 EMAIL_EXISTS without inserting.
func (h *UserHandler) Create(role model.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.NewUserInput
		if role == model.RoleStudent {
			var req model.CreateStudentRequest
			if fields := validator.Bind(c, &req); fields != nil {
				response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
				return
			}
			in = service.NewUserInput{Name: req.Name, Email: req.Email, Password: req.Password, ClassID: req.ClassID}
		} else {
			var req model.CreateTeacherRequest
			if fields := validator.Bind(c, &req); fields != nil {
				response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
				return
			}
			in = service.NewUserInput{Name: req.Name, Email: req.Email, Password: req.Password}
		}

		user, err := h.userService.Create(c.Request.Context(), role, in)
		if err != nil {
			if repository.IsForeignKeyViolation(err) {
				response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
				return
			}
			failStore(c, h.log, err, notFoundCode(role), "Failed to create user")
			return
		}

		response.Created(c, gin.H{string(role): user})
	}
}

// Update godoc
// PATCH /api/admin/teachers/:id, PATCH /api/admin/students/:id
func (h *UserHandler) Update(role model.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req model.UpdateUserRequest
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}

		user, err := h.userService.Update(c.Request.Context(), role, id, &req)
		if err != nil {
			if repository.IsForeignKeyViolation(err) {
				response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
				return
			}
			failStore(c, h.log, err, notFoundCode(role), "Failed to update user")
			return
		}

		response.OK(c, gin.H{string(role): user})
	}
}

// Delete godoc
// DELETE /api/admin/teachers/:id, DELETE /api/admin/students/:id
func (h *UserHandler) Delete(role model.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := h.userService.Delete(c.Request.Context(), role, id); err != nil {
			failStore(c, h.log, err, notFoundCode(role), "Failed to delete user")
			return
		}

		response.OK(c, gin.H{"success": true})
	}
}

// ListUsers godoc
// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListSummaries(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "Failed to list users")
		return
	}
	response.OK(c, gin.H{"users": users})
}

// ListRoles godoc
// GET /api/admin/roles
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.Roles(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err, "Failed to list roles")
		return
	}
	response.OK(c, gin.H{"roles": roles})
}

// Profile godoc
// GET /api/admin/profile
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.userService.AdminProfile(c.Request.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrAdminNotFound)
			return
		}
		failInternal(c, h.log, err, "Failed to load admin profile")
		return
	}
	response.OK(c, profile)
}
