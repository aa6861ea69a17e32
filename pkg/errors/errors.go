// Package errors provides structured error types for the tsoracle library.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the oracle facade and graph I/O
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure of the oracle is a deterministic input or programming
// error; nothing here is transient and nothing is retried. Codes map the
// failure taxonomy:
//   - INVALID_CONFIG: construction without a graph, malformed variable lists
//   - INVALID_GRAPH / INVALID_LAGGED_EDGE: edge-matrix compilation contract violations
//   - INVALID_QUERY: malformed X/Y/Z node sets
//   - MISSING_BOUND: max-lag ancestor mode invoked without a bound
//   - UNSUPPORTED: operations this oracle deliberately does not implement
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidQuery, "lag %d must be non-positive", lag)
//	if errors.Is(err, errors.ErrCodeInvalidQuery) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidGraph, origErr, "compile edge matrix")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Graph compilation errors
	ErrCodeInvalidGraph      Code = "INVALID_GRAPH"
	ErrCodeInvalidLaggedEdge Code = "INVALID_LAGGED_EDGE"

	// Query errors
	ErrCodeInvalidQuery Code = "INVALID_QUERY"
	ErrCodeMissingBound Code = "MISSING_BOUND"

	// Operation errors
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
