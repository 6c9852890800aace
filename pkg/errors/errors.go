// Package errors provides structured error types for pipelayout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - DANGLING_CONNECTION / CYCLIC_GRAPH: pipeline graph precondition violations
//   - INTERNAL_*: Unexpected internal errors
//
// # Domain Errors
//
// Two typed errors describe a pipeline graph that cannot be laid out:
// [DanglingConnectionError] (a step depends on an unknown step) and
// [CyclicGraphError] (the dependency relation is not acyclic). Both carry a
// code through [GetCode] and match their sentinels with errors.Is:
//
//	if errors.Is(err, perrors.ErrCyclicGraph) {
//	    // show the user which steps form the cycle
//	}
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid step id: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeDuplicateStep  Code = "DUPLICATE_STEP"

	// Graph precondition errors
	ErrCodeDanglingConnection Code = "DANGLING_CONNECTION"
	ErrCodeCyclicGraph        Code = "CYCLIC_GRAPH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var (
	// ErrDanglingConnection matches every [DanglingConnectionError] via errors.Is.
	ErrDanglingConnection = errors.New("dangling connection")

	// ErrCyclicGraph matches every [CyclicGraphError] via errors.Is.
	ErrCyclicGraph = errors.New("graph contains a cycle")
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

// coded is implemented by typed errors that are not *Error.
type coded interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for the outermost coded error.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.Code()
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

// DanglingConnectionError reports an incoming connection that references a
// step which does not exist in the pipeline.
type DanglingConnectionError struct {
	Step    string // Step declaring the connection
	Missing string // Referenced step that does not exist
}

// Error implements the error interface.
func (e *DanglingConnectionError) Error() string {
	return fmt.Sprintf("step %q depends on unknown step %q", e.Step, e.Missing)
}

// Code returns the error code for this error type.
func (e *DanglingConnectionError) Code() Code { return ErrCodeDanglingConnection }

// Is makes errors.Is(err, ErrDanglingConnection) succeed.
func (e *DanglingConnectionError) Is(target error) bool { return target == ErrDanglingConnection }

// CyclicGraphError reports that the step graph is not acyclic.
type CyclicGraphError struct {
	// Residual holds the steps that could not be ordered, in pipeline order.
	Residual []string
	// Cycles holds the strongly connected groups of steps that form cycles.
	// It may be empty when only Residual is known.
	Cycles [][]string
}

// Error implements the error interface.
func (e *CyclicGraphError) Error() string {
	if len(e.Cycles) > 0 {
		parts := make([]string, len(e.Cycles))
		for i, c := range e.Cycles {
			parts[i] = "[" + strings.Join(c, " → ") + "]"
		}
		return fmt.Sprintf("graph contains a cycle: %s", strings.Join(parts, ", "))
	}
	if len(e.Residual) > 0 {
		return fmt.Sprintf("graph contains a cycle: %d steps unresolved (%s)", len(e.Residual), strings.Join(e.Residual, ", "))
	}
	return "graph contains a cycle"
}

// Code returns the error code for this error type.
func (e *CyclicGraphError) Code() Code { return ErrCodeCyclicGraph }

// Is makes errors.Is(err, ErrCyclicGraph) succeed.
func (e *CyclicGraphError) Is(target error) bool { return target == ErrCyclicGraph }
