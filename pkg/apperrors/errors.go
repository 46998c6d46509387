package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is what services return to handlers. Only Code, Domain, Message
// and Details are rendered; the cause stays server-side.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Domain   string      `json:"domain"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	s := fmt.Sprintf("%s/%s: %s", e.Domain, e.Code, e.Message)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code, domain and message, so a sentinel still matches the
// copies WithDetails and WithError hand out.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code && e.Domain == t.Domain && e.Message == t.Message
}

func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPCode: httpCode}
}

// WithDetails returns a copy; sentinels are shared and never mutated.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// InternalError wraps an unexpected failure (storage, encoding, ...).
func InternalError(err error) *AppError {
	return New(CodeInternalError, "system", "Internal server error", http.StatusInternalServerError).WithError(err)
}

// ValidationError carries field -> message details.
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).WithDetails(details)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, "request", message, http.StatusBadRequest)
}
