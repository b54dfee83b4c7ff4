package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeLockedRecord = "LOCKED_RECORD"
	CodeInvalidState = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInconsistentState  = "INCONSISTENT_STATE"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
