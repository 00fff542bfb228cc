// Package errors provides structured error handling with context propagation and process exit code mapping.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error for metrics and exit codes.
type ErrorType string

const (
	// TypeValidation indicates invalid input such as a bad name or flag (exit 2)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates a missing resource (exit 3)
	TypeNotFound ErrorType = "not_found"
	// TypeConflict indicates a catalog conflict such as a duplicate collection (exit 3)
	TypeConflict ErrorType = "conflict"
	// TypeInternal indicates a bug or unexpected state (exit 1)
	TypeInternal ErrorType = "internal"
	// TypeExternal indicates a database server or network failure (exit 4)
	TypeExternal ErrorType = "external"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitConflict   = 3
	ExitExternal   = 4
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this error type.
func (e *Error) ExitCode() int {
	switch e.Type {
	case TypeValidation:
		return ExitValidation
	case TypeNotFound, TypeConflict:
		return ExitConflict
	case TypeExternal:
		return ExitExternal
	default:
		return ExitInternal
	}
}

// ValidationError creates a new validation error.
func ValidationError(message string) *Error {
	return newError(TypeValidation, message, nil)
}

// NotFoundError creates a new not-found error.
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

// ConflictError creates a new conflict error.
func ConflictError(message string) *Error {
	return newError(TypeConflict, message, nil)
}

// InternalError creates a new internal error.
func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

// ExternalError creates a new external service error.
func ExternalError(message string, cause error) *Error {
	return newError(TypeExternal, message, cause)
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    t,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithCause attaches the underlying error (chainable).
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithField is an alias for WithContext (chainable).
func (e *Error) WithField(key string, value any) *Error {
	return e.WithContext(key, value)
}

// LogAttrs flattens type, message and context into slog-style key/value pairs.
func (e *Error) LogAttrs() []any {
	attrs := []any{"error_type", string(e.Type), "error", e.Error()}
	for k, v := range e.Context {
		attrs = append(attrs, k, v)
	}
	return attrs
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("unexpected failure", err)
}

// ExitCode returns the exit code for any error, ExitOK for nil.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return AsStructuredError(err).ExitCode()
}
