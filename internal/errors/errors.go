package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Roster error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrEmptyInput      ErrorCode = "EMPTY_INPUT"       // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrFileNotFound    ErrorCode = "FILE_NOT_FOUND"    // 404
	ErrNothingValid    ErrorCode = "NOTHING_VALID"     // 422
	ErrNothingToExport ErrorCode = "NOTHING_TO_EXPORT" // 422
	ErrCancelled       ErrorCode = "CANCELLED"         // 499
	ErrLoadFailed      ErrorCode = "LOAD_FAILED"       // 500
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// RosterError represents a structured error with code, status, and details.
type RosterError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *RosterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RosterError {
	return &RosterError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewEmptyInput creates a 400 error for a bulk import with nothing pasted.
func NewEmptyInput() *RosterError {
	return &RosterError{
		Code:    ErrEmptyInput,
		Status:  400,
		Message: "paste the data before importing",
	}
}

// NewNotFound creates a 404 error for when a person cannot be found.
func NewNotFound(id string) *RosterError {
	return &RosterError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("person not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *RosterError {
	return &RosterError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNothingValid creates a 422 error when a bulk import produced no records.
// The per-line diagnostics travel in Details so callers can show them.
func NewNothingValid(diagnostics any, lines int) *RosterError {
	return &RosterError{
		Code:    ErrNothingValid,
		Status:  422,
		Message: "no valid records found",
		Details: map[string]any{"diagnostics": diagnostics, "skipped_lines": lines},
	}
}

// NewNothingToExport creates a 422 error for exporting an empty collection.
func NewNothingToExport() *RosterError {
	return &RosterError{
		Code:    ErrNothingToExport,
		Status:  422,
		Message: "there is no data to export",
	}
}

// NewCancelled creates a 499 error for an operation whose context was cancelled.
func NewCancelled(op string) *RosterError {
	return &RosterError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewLoadFailed creates a 500 error for a stored collection that could not be decoded.
func NewLoadFailed(err error) *RosterError {
	msg := "failed to load saved data"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &RosterError{
		Code:    ErrLoadFailed,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RosterError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RosterError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error (or anything it wraps) is a RosterError with the given code.
func Is(err error, code ErrorCode) bool {
	var rErr *RosterError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}

// AsRoster returns the RosterError in err's chain, if any.
func AsRoster(err error) (*RosterError, bool) {
	var rErr *RosterError
	if stderrors.As(err, &rErr) {
		return rErr, true
	}
	return nil, false
}
