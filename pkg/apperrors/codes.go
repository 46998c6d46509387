package apperrors

// ErrorCode is the machine-readable code rendered to clients.
type ErrorCode string

const (
	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Generic business errors
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeNotImplemented   ErrorCode = "NOT_IMPLEMENTED"

	// Auth
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Token ledger
	CodeInsufficientTokens ErrorCode = "INSUFFICIENT_TOKENS"

	// Skill test sessions
	CodeInvalidSession  ErrorCode = "INVALID_SESSION"
	CodeSessionMismatch ErrorCode = "SESSION_MISMATCH"
	CodeSessionExpired  ErrorCode = "SESSION_EXPIRED"
	CodeSessionConsumed ErrorCode = "SESSION_CONSUMED"
)
