package apperror

import "net/http"

// AppError is the error type used across services. It carries the HTTP status
// code the handler layer should respond with, so callers never have to match
// on message strings.
type AppError struct {
	Code    int    // HTTP status code (e.g., 400, 404, 409)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Shorthands for the taxonomy used by the booking workflow.

// Validation marks a missing or malformed required field.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NotFound marks an absent entity.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Conflict marks an availability or hold violation.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}
