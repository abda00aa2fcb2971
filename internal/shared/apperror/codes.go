package apperror

const (
	// Client errors (4xx)
	CodeValidationError       = "VALIDATION_ERROR"
	CodeBusinessRuleViolation = "BUSINESS_RULE_VIOLATION"
	CodeNotFound              = "NOT_FOUND"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeConflict              = "CONFLICT"
	CodeInvalidState          = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
