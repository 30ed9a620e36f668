package model

import "time"

// Subject is taught within exactly one class.
type Subject struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	ClassID   int       `json:"classId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateSubjectRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	ClassID int    `json:"classId" binding:"required,min=1"`
}

type UpdateSubjectRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	ClassID *int    `json:"classId" binding:"omitempty,min=1"`
}
