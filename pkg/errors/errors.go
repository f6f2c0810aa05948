// Package errors provides structured error types for symgraph.
//
// This package defines error codes and types that enable:
//   - Eager, local failure of graph construction and rewrite operations
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages in the CLI
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Graph errors mirror the failure taxonomy of the expression engine:
//   - SHAPE_MISMATCH: operand or replacement shapes disagree
//   - DIMENSION_ERROR / INDEX_ERROR: invalid block boundaries or jagged grids
//   - EMPTY_INPUT: zero-length concatenation
//   - CYCLIC_DEPENDENCY: self-referential sequential elimination
//   - INVALID_ARGUMENT: a symbol was required but something else was given
//
// The remaining codes cover configuration and the CLI.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeShapeMismatch, "add: %dx%d vs %dx%d", r1, c1, r2, c2)
//	if errors.Is(err, errors.ErrCodeShapeMismatch) {
//	    // Handle shape error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph construction and rewrite errors
	ErrCodeShapeMismatch    Code = "SHAPE_MISMATCH"
	ErrCodeDimension        Code = "DIMENSION_ERROR"
	ErrCodeIndex            Code = "INDEX_ERROR"
	ErrCodeEmptyInput       Code = "EMPTY_INPUT"
	ErrCodeCyclicDependency Code = "CYCLIC_DEPENDENCY"
	ErrCodeInvalidArgument  Code = "INVALID_ARGUMENT"

	// Input validation errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
