package model

import "time"

// AttendanceStatus is the mark recorded for one student, subject and day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusLate    AttendanceStatus = "Late"
	StatusLeave   AttendanceStatus = "Leave"
)

// Valid reports whether s is one of the four known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusLeave:
		return true
	}
	return false
}

// Attendance is one stored mark. Date is a calendar date at UTC midnight.
type Attendance struct {
	ID         int              `json:"id"`
	StudentID  int              `json:"studentId"`
	SubjectID  int              `json:"subjectId"`
	MarkedByID int              `json:"markedById"`
	Date       time.Time        `json:"date"`
	Status     AttendanceStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	Subject    *SubjectRef      `json:"subject,omitempty"`
}

// SubjectRef embeds the subject name next to an attendance row.
type SubjectRef struct {
	Name string `json:"name"`
}

// AttendanceRecordInput is one entry of a batch write.
type AttendanceRecordInput struct {
	StudentID  int              `json:"studentId" binding:"required,min=1"`
	SubjectID  int              `json:"subjectId" binding:"required,min=1"`
	MarkedByID int              `json:"markedById" binding:"required,min=1"`
	Status     AttendanceStatus `json:"status" binding:"required,oneof=Present Absent Late Leave"`
}

// SaveAttendanceRequest is the batch write payload.
type SaveAttendanceRequest struct {
	ClassID int                     `json:"classId" binding:"required,min=1"`
	Date    string                  `json:"date" binding:"required,max=40"`
	Records []AttendanceRecordInput `json:"records" binding:"required,min=1,dive"`
}

// SaveAttendanceResponse reports how many rows the batch wrote.
type SaveAttendanceResponse struct {
	Success bool `json:"success"`
	Saved   int  `json:"saved"`
}

// AttendanceListQuery binds GET /api/attendance/attendance/student/:studentId.
type AttendanceListQuery struct {
	ClassID int    `form:"classId" binding:"required,min=1"`
	Month   string `form:"month" binding:"required"`
}

// AttendancePercentageQuery binds GET /api/attendance/attendance/percentage.
type AttendancePercentageQuery struct {
	StudentID int    `form:"studentId" binding:"required,min=1"`
	ClassID   int    `form:"classId" binding:"required,min=1"`
	Month     string `form:"month"`
}

// AttendanceSummary is the percentage result for one student.
type AttendanceSummary struct {
	Percentage int `json:"percentage"`
	Present    int `json:"present"`
	Total      int `json:"total"`
}

// AttendanceFilter narrows attendance queries. Zero values are ignored;
// From is inclusive and To exclusive.
type AttendanceFilter struct {
	StudentID int
	ClassID   int
	Status    AttendanceStatus
	From      *time.Time
	To        *time.Time
}
