package errors

import (
	"errors"
	"fmt"
)

// AppError is an application-specific error type
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// creates a new AppError with a formatted message
func Newf(code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// wraps an error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// CodeOf returns the code of the first AppError in the chain, or an empty string
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// Error code constants
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInvalidArg = "INVALID_ARGUMENT" // Caller-fixable validation failure
	CodeExternal   = "EXTERNAL_ERROR"
	CodeConflict   = "CONFLICT"         // State conflict or UNIQUE violation
	CodeDependency = "DEPENDENCY_ERROR" // Foreign key constraint violation
	CodeStorage    = "STORAGE_ERROR"    // Connection or transaction failure
)
