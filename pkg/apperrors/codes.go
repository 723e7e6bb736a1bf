package apperrors

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	// System errors
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business errors
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"

	// Payment trust boundary
	CodeMissingSignature ErrorCode = "MISSING_SIGNATURE"
	CodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"
	CodeUnknownOrder     ErrorCode = "UNKNOWN_ORDER"
	CodeGatewaySigning   ErrorCode = "GATEWAY_SIGNING_ERROR"
)
