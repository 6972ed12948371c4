// Package errors provides structured error handling for the audit tooling.
// Errors carry a machine-readable code so the CLI can map failures to
// process exit categories and operators can grep logs by code.
package errors

import (
	"fmt"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes for the audit engine
const (
	// Fatal startup errors: nothing meaningful can run without these.
	CodeImageIndexMissing   ErrorCode = "IMAGE_INDEX_MISSING"
	CodeLockRegistryMissing ErrorCode = "LOCK_REGISTRY_MISSING"
	CodeConfigInvalid       ErrorCode = "CONFIG_INVALID"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"

	// Caller contract violations
	CodeDryRunViolation ErrorCode = "DRY_RUN_VIOLATION"
	CodeRunInProgress   ErrorCode = "RUN_IN_PROGRESS"

	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ExitCode maps the error code to a process exit status
func (e *AppError) ExitCode() int {
	switch e.Code {
	case CodeConfigInvalid:
		return 2
	case CodeImageIndexMissing, CodeLockRegistryMissing:
		return 3
	case CodeDatabaseError:
		return 4
	case CodeDryRunViolation, CodeRunInProgress:
		return 5
	default:
		return 1
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewImageIndexMissingError indicates the image index could not be loaded.
// The index is a hard prerequisite for any verification run.
func NewImageIndexMissingError(path string, cause error) *AppError {
	return NewAppError(
		CodeImageIndexMissing,
		"Image index unavailable",
		fmt.Sprintf("Failed to load %s; build the index first", path),
	).WithMetadata("path", path).WithCause(cause)
}

// NewLockRegistryMissingError indicates the lock registry could not be
// loaded. The fix applier fails closed without it.
func NewLockRegistryMissingError(path string, cause error) *AppError {
	return NewAppError(
		CodeLockRegistryMissing,
		"Lock registry unavailable",
		fmt.Sprintf("Refusing to run unprotected without %s", path),
	).WithMetadata("path", path).WithCause(cause)
}

// NewConfigError creates a configuration error
func NewConfigError(details string) *AppError {
	return NewAppError(CodeConfigInvalid, "Invalid configuration", details)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewDryRunViolationError indicates a mutating operation was requested
// while the engine is in dry-run mode.
func NewDryRunViolationError(operation string) *AppError {
	return NewAppError(
		CodeDryRunViolation,
		"Cannot mutate in dry-run mode",
		fmt.Sprintf("Operation %s requires a live run", operation),
	).WithMetadata("operation", operation)
}

// NewRunInProgressError indicates another live apply run holds the run lock.
func NewRunInProgressError(lockPath string) *AppError {
	return NewAppError(
		CodeRunInProgress,
		"Another apply run is in progress",
		fmt.Sprintf("Could not acquire run lock at %s", lockPath),
	).WithMetadata("lock_path", lockPath)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
