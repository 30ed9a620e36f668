package model

import (
	"encoding/json"
	"time"
)

// Activity actions recorded by services.
const (
	ActionAttendanceSaved = "attendance.saved"
	ActionClassCreated    = "class.created"
	ActionClassDeleted    = "class.deleted"
	ActionUserCreated     = "user.created"
	ActionUserDeleted     = "user.deleted"
	ActionPasswordReset   = "password.reset"
	ActionLeaveReviewed   = "leave.reviewed"
)

// ActivityLog is a persisted activity row.
type ActivityLog struct {
	ID        int64           `json:"id"`
	UserID    *int            `json:"userId"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ActivityEntry is the queued payload the activity worker persists.
type ActivityEntry struct {
	UserID    *int            `json:"user_id,omitempty"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp int64           `json:"ts"`
}
