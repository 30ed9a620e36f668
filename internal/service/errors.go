package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrWrongRole          = errors.New("user does not have the expected role")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidDateRange   = errors.New("fromDate is after toDate")
	ErrRoleMissing        = errors.New("role is not seeded")
)

// RecordError reports the first invalid record of an attendance batch.
type RecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("records[%d].%s: %s", e.Index, e.Field, e.Reason)
}

// Key is the field path used in validation responses.
func (e *RecordError) Key() string {
	return fmt.Sprintf("records[%d].%s", e.Index, e.Field)
}
