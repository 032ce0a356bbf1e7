package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess          = 0   // Indicates every item was installed or already present.
	ExitErrorGeneric     = 1   // Indicates at least one item failed to install.
	ExitErrorTimeout     = 2   // Indicates the run exceeded its overall timeout.
	ExitErrorConfig      = 4   // Indicates a configuration error.
	ExitErrorEnvironment = 5   // Indicates the package manager is unusable.
	ExitErrorCanceled    = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// EnvironmentError reports that the external package manager itself is
// unavailable. It is the only failure that aborts a run before any item is
// dispatched.
type EnvironmentError struct {
	// Manager is the name of the package manager that was probed.
	Manager string
	// Cause is the underlying lookup or policy failure.
	Cause error
}

// Error returns a message naming the unavailable package manager.
func (e EnvironmentError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("package manager %q is not available", e.Manager)
	}
	return fmt.Sprintf("package manager %q is not available: %v", e.Manager, e.Cause)
}

// Unwrap returns the underlying cause.
func (e EnvironmentError) Unwrap() error { return e.Cause }

// ItemInstallFailure records that one item's install call did not succeed.
// It never aborts a run; the orchestrator stores it on the job.
type ItemInstallFailure struct {
	// ItemID is the identifier passed to the package manager.
	ItemID string
	// ExitCode is the exit status reported by the package manager, or -1 when
	// the process could not be started.
	ExitCode int
	// Cause is the launch error, if any.
	Cause error
}

// Error returns a formatted message describing the failed install.
func (e ItemInstallFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("install of %q failed: %v", e.ItemID, e.Cause)
	}
	return fmt.Sprintf("install of %q failed with exit code %d", e.ItemID, e.ExitCode)
}

// Unwrap returns the underlying cause.
func (e ItemInstallFailure) Unwrap() error { return e.Cause }

// ExistenceCheckFailure records that probing an item for presence failed.
// The orchestrator treats the item as not installed and only logs this error.
type ExistenceCheckFailure struct {
	// ItemID is the identifier that was probed.
	ItemID string
	// Cause is the probe failure.
	Cause error
}

// Error returns a formatted message describing the failed probe.
func (e ExistenceCheckFailure) Error() string {
	return fmt.Sprintf("existence check for %q failed: %v", e.ItemID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e ExistenceCheckFailure) Unwrap() error { return e.Cause }

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// TimeoutError represents an operation that exceeded its time limit. It
// captures the operation name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps the error returned by a run, and the number of failed
// items it reported, to a process exit code.
func ExitCodeFor(err error, failed uint) int {
	var envErr EnvironmentError
	var cfgErr ConfigError
	switch {
	case err == nil && failed == 0:
		return ExitSuccess
	case err == nil:
		return ExitErrorGeneric
	case errors.As(err, &envErr):
		return ExitErrorEnvironment
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
