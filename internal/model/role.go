package model

import (
	"strings"
	"time"
)

// RoleName is the lower-cased role identifier stored in roles.name.
type RoleName string

const (
	RoleAdmin   RoleName = "admin"
	RoleTeacher RoleName = "teacher"
	RoleStudent RoleName = "student"
)

// NormalizeRole folds case so "ADMIN" and "Admin" compare equal to RoleAdmin.
func NormalizeRole(name string) RoleName {
	return RoleName(strings.ToLower(strings.TrimSpace(name)))
}

// Role is a named user role.
type Role struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
