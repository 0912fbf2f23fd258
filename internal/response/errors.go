package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrGradeRequired  ErrCode = "GRADE_REQUIRED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrDuplicateEmail ErrCode = "DUPLICATE_EMAIL"
	ErrConflict       ErrCode = "CONFLICT"

	// ─── Workflow ──────────────────────────────────────────────────────
	ErrInvalidStage         ErrCode = "INVALID_WORKFLOW_STAGE"
	ErrAlreadyDecided       ErrCode = "APPLICATION_ALREADY_DECIDED"
	ErrPaymentNotOpen       ErrCode = "PAYMENT_NOT_OPEN"
	ErrProgramMisconfigured ErrCode = "PROGRAM_MISCONFIGURED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrGradeRequired:
		return "A high school grade is required for this study program."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrDuplicateEmail:
		return "An application with this email address already exists."
	case ErrConflict:
		return "Resource already exists."

	// ─── Workflow ──────────────────────────────────────────────────────
	case ErrInvalidStage:
		return "This operation is not valid in the application's current stage."
	case ErrAlreadyDecided:
		return "This application has already reached a final decision."
	case ErrPaymentNotOpen:
		return "This application is not awaiting payment."
	case ErrProgramMisconfigured:
		return "The study program is misconfigured. Please contact the admission office."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
