package model

import "time"

// Class represents a school class group with an optional homeroom teacher.
type Class struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	TeacherID   *int      `json:"teacherId"`
	TeacherName *string   `json:"teacher"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ClassInfo is the compact class block on the student dashboard.
type ClassInfo struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Teacher *string `json:"teacher"`
}

// CreateClassRequest creates a class and optionally its first subject.
type CreateClassRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	TeacherID *int   `json:"teacherId" binding:"omitempty,min=1"`
	Subject   string `json:"subject" binding:"max=100"`
}

// CreateClassResponse is returned by POST /api/admin/classes.
type CreateClassResponse struct {
	Class   Class    `json:"class"`
	Subject *Subject `json:"subject"`
}

// UpdateClassRequest patches a class; "teacherId": null clears the teacher.
type UpdateClassRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=100"`
	TeacherID OptionalID `json:"teacherId"`
}
