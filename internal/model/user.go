package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// User is any account: admin, teacher or student.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"roleId"`
	Role         RoleName  `json:"role,omitempty"`
	ClassID      *int      `json:"classId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasRole reports whether the user's role matches r, ignoring case.
func (u *User) HasRole(r RoleName) bool {
	return NormalizeRole(string(u.Role)) == r
}

// UserSummary is the slim projection served by the user listing endpoint.
type UserSummary struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OptionalID distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present in the payload.
type OptionalID struct {
	Set   bool
	Value *int
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	s := string(b)
	if s == "null" || s == `""` {
		o.Value = nil
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		var str string
		if json.Unmarshal(b, &str) != nil {
			return err
		}
		parsed, convErr := strconv.Atoi(str)
		if convErr != nil {
			return convErr
		}
		n = parsed
	}
	o.Value = &n
	return nil
}

// LoginRequest is the payload for POST /login and /api/admin/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginUser is the user block returned after login.
type LoginUser struct {
	ID      int      `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Role    RoleName `json:"role"`
	ClassID *int     `json:"classId"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required,max=128"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// CreateTeacherRequest is the payload for POST /api/admin/teachers.
type CreateTeacherRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// CreateStudentRequest is the payload for POST /api/admin/students.
type CreateStudentRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	ClassID  *int   `json:"classId" binding:"omitempty,min=1"`
}

// UpdateUserRequest patches a teacher or student. ClassID only applies to students.
type UpdateUserRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=2,max=100"`
	Email    *string    `json:"email" binding:"omitempty,email,max=255"`
	Password *string    `json:"password" binding:"omitempty,min=6,max=128"`
	ClassID  OptionalID `json:"classId"`
}
