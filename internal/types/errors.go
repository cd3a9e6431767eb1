package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for heapsim errors.
type ErrorCode string

// Tracker error codes
const (
	ALLOCATION_NOT_FOUND ErrorCode = "ALLOCATION_NOT_FOUND"
	ALLOCATION_INVALID   ErrorCode = "ALLOCATION_INVALID"
)

// Bug simulator error codes
const (
	BUG_NOT_FOUND ErrorCode = "BUG_NOT_FOUND"
	INVALID_STATE ErrorCode = "INVALID_STATE"
	NO_EXAMPLE    ErrorCode = "NO_EXAMPLE"
)

// Strategy error codes
const (
	STRATEGY_SOURCE_MISSING ErrorCode = "STRATEGY_SOURCE_MISSING"
	STRATEGY_UNKNOWN_BUG    ErrorCode = "STRATEGY_UNKNOWN_BUG"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Scanner error codes
const (
	SCAN_BUFFER_EMPTY    ErrorCode = "SCAN_BUFFER_EMPTY"
	SCAN_PATTERN_INVALID ErrorCode = "SCAN_PATTERN_INVALID"
)

// Error represents a structured error with an error code, message, and
// optional cause. All core operations return their failure conditions as
// values of this type; none of them are fatal to the process.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var simErr *Error
	if errors.As(target, &simErr) {
		return e.Code == simErr.Code
	}
	return false
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a new Error that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from err if it is (or wraps) an *Error.
// Returns an empty code and false otherwise.
func CodeOf(err error) (ErrorCode, bool) {
	var simErr *Error
	if errors.As(err, &simErr) {
		return simErr.Code, true
	}
	return "", false
}
