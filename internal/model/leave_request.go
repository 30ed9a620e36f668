package model

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// LeaveRequest is a student's request to be excused for a date range.
type LeaveRequest struct {
	ID           int         `json:"id"`
	StudentID    int         `json:"studentId"`
	StudentName  *string     `json:"studentName,omitempty"`
	FromDate     time.Time   `json:"fromDate"`
	ToDate       time.Time   `json:"toDate"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
	ReviewedByID *int        `json:"reviewedById"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type CreateLeaveRequest struct {
	FromDate string `json:"fromDate" binding:"required,max=40"`
	ToDate   string `json:"toDate" binding:"required,max=40"`
	Reason   string `json:"reason" binding:"required,min=1,max=500"`
}

type ReviewLeaveRequest struct {
	Status       LeaveStatus `json:"status" binding:"required,oneof=Approved Rejected"`
	ReviewedByID int         `json:"reviewedById" binding:"required,min=1"`
}

type LeaveListQuery struct {
	Status LeaveStatus `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
}
