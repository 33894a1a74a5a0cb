package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for the per-folder outcome taxonomy. All of these are caught
// at the worker boundary and converted into status-carrying records; only setup
// errors reach the orchestrator's caller.
var (
	ErrNoFormFound       = errors.New("no application form found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrParseFailure      = errors.New("no fields could be identified")
	ErrCacheCorrupt      = errors.New("cache file unreadable")
	ErrExport            = errors.New("spreadsheet export failed")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
