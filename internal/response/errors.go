package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrInvalidResetToken  ErrCode = "INVALID_RESET_TOKEN"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrWrongRole ErrCode = "WRONG_ROLE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidDate    ErrCode = "INVALID_DATE"
	ErrInvalidMonth   ErrCode = "INVALID_MONTH"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound             ErrCode = "NOT_FOUND"
	ErrClassNotFound        ErrCode = "CLASS_NOT_FOUND"
	ErrSubjectNotFound      ErrCode = "SUBJECT_NOT_FOUND"
	ErrTeacherNotFound      ErrCode = "TEACHER_NOT_FOUND"
	ErrStudentNotFound      ErrCode = "STUDENT_NOT_FOUND"
	ErrNotificationNotFound ErrCode = "NOTIFICATION_NOT_FOUND"
	ErrLeaveNotFound        ErrCode = "LEAVE_REQUEST_NOT_FOUND"
	ErrAdminNotFound        ErrCode = "ADMIN_NOT_FOUND"
	ErrConflict             ErrCode = "CONFLICT"
	ErrEmailExists          ErrCode = "EMAIL_EXISTS"
	ErrDependencyExists     ErrCode = "DEPENDENCY_EXISTS"

	// ─── Attendance ────────────────────────────────────────────────────
	ErrAttendanceSaveFailed ErrCode = "ATTENDANCE_SAVE_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrInvalidResetToken:
		return "Reset link is invalid or has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrWrongRole:
		return "User does not have the expected role."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidDate:
		return "Invalid date. Use YYYY-MM-DD."
	case ErrInvalidMonth:
		return "Invalid month. Use YYYY-MM."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrClassNotFound:
		return "Class not found."
	case ErrSubjectNotFound:
		return "Subject not found."
	case ErrTeacherNotFound:
		return "Teacher not found."
	case ErrStudentNotFound:
		return "Student not found."
	case ErrNotificationNotFound:
		return "Notification not found."
	case ErrLeaveNotFound:
		return "Leave request not found."
	case ErrAdminNotFound:
		return "Admin not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrEmailExists:
		return "Email already exists."
	case ErrDependencyExists:
		return "Record is still referenced by other data."

	// ─── Attendance ────────────────────────────────────────────────────
	case ErrAttendanceSaveFailed:
		return "Failed to save attendance."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}
