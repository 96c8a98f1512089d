// Package errors provides structured error types for reebsmooth.
//
// The CLI and the HTTP server classify failures with a [Code] so that the
// same condition yields the same exit code, HTTP status and message
// everywhere. The core graph packages return plain sentinel errors; the
// pipeline wraps them here.
//
// # Error Codes
//
//   - INVALID_*: the request or input cannot be processed as given
//   - FILE_NOT_FOUND: a named input file is missing
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidEpsilon, "epsilon %q is not a number", s)
//	if errors.Is(err, errors.ErrCodeInvalidEpsilon) {
//	    // report a usage error
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidGraph, cause, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidEpsilon   Code = "INVALID_EPSILON"
	ErrCodeInvalidPrecision Code = "INVALID_PRECISION"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeTimeout      Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// IsInvalid reports whether code describes bad caller input.
func (c Code) IsInvalid() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidFormat,
		ErrCodeInvalidEpsilon, ErrCodeInvalidPrecision, ErrCodeInvalidConfig:
		return true
	}
	return false
}

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
