package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrNotSignedIn        ErrCode = "NOT_SIGNED_IN"
	ErrSessionExpired     ErrCode = "SESSION_EXPIRED"
	ErrNoToken            ErrCode = "NO_TOKEN_ISSUED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Attempt-specific ──────────────────────────────────────────────
	ErrAttemptNotFound   ErrCode = "ATTEMPT_NOT_FOUND"
	ErrExamLoadFailed    ErrCode = "EXAM_LOAD_FAILED"
	ErrSubmissionFailed  ErrCode = "SUBMISSION_FAILED"
	ErrAttemptClosed     ErrCode = "ATTEMPT_CLOSED"
	ErrUnknownQuestion   ErrCode = "UNKNOWN_QUESTION"
	ErrResultUnavailable ErrCode = "RESULT_UNAVAILABLE"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUpstream ErrCode = "UPSTREAM_ERROR"

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
		return "Invalid username or password."
	case ErrNotSignedIn:
		return "Please sign in to continue."
	case ErrSessionExpired:
		return "Your session has expired. Please sign in again."
	case ErrNoToken:
		return "The server accepted the request but issued no token."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this page."
	case ErrStudentAccessOnly:
		return "This page is only available to students."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Attempt-specific ──────────────────────────────────────────────
	case ErrAttemptNotFound:
		return "Exam attempt not found."
	case ErrExamLoadFailed:
		return "Failed to load exam. You can retry or go back to the exam list."
	case ErrSubmissionFailed:
		return "Failed to submit exam. Your answers are kept; submit again to retry."
	case ErrAttemptClosed:
		return "This attempt no longer accepts answers."
	case ErrUnknownQuestion:
		return "The question is not part of this exam."
	case ErrResultUnavailable:
		return "Failed to load result."

	// ─── Upstream ──────────────────────────────────────────────────────
	case ErrUpstream:
		return "The exam server could not be reached."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
