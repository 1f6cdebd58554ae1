package schedule

import (
	"fmt"
)

// Error represents a schedule-specific error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Schedule error codes
const (
	ErrCodeScheduleNotFound = "SCHEDULE_NOT_FOUND"
	ErrCodeScheduleParse    = "SCHEDULE_PARSE_ERROR"
	ErrCodeScheduleInvalid  = "SCHEDULE_INVALID"
)

// NewNotFoundError creates an error for a missing schedule file
func NewNotFoundError(path string) *Error {
	return &Error{
		Code:    ErrCodeScheduleNotFound,
		Message: "fee schedule file not found",
		Details: path,
	}
}

// NewParseError creates an error for an unparsable schedule file
func NewParseError(path string, cause error) *Error {
	return &Error{
		Code:    ErrCodeScheduleParse,
		Message: "fee schedule file could not be parsed",
		Details: fmt.Sprintf("%s: %v", path, cause),
	}
}

// NewInvalidScheduleError creates an error for a schedule that fails validation
func NewInvalidScheduleError(message, details string) *Error {
	return &Error{
		Code:    ErrCodeScheduleInvalid,
		Message: message,
		Details: details,
	}
}

// IsScheduleError checks if an error is a schedule error
func IsScheduleError(err error) bool {
	_, ok := err.(*Error)
	return ok
}
