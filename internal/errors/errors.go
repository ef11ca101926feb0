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
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates at least one job failed.
	ExitErrorTimeout  = 2   // Indicates the run was dominated by timeouts.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
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

// JobError represents the failure of a single job observed at the worker
// boundary. It carries the worker and job identifiers together with the
// job's own failure reason, so that reports and retry predicates can
// inspect structured failure data.
type JobError struct {
	// WorkerID identifies the worker that ran the job.
	WorkerID int
	// JobID identifies the failed job.
	JobID int
	// Reason is the failure reason produced by the job body.
	Reason string
	// Retryable marks the failure as transient. Retry orchestrators may
	// consult this through IsTransient; it never changes the message.
	Retryable bool
}

// Error returns a formatted message embedding the worker id, job id and
// the underlying failure reason.
//
// Returns:
//   - string: The error message string.
func (e JobError) Error() string {
	return fmt.Sprintf("worker %d: job %d failed: %s", e.WorkerID, e.JobID, e.Reason)
}

// Transient reports whether the failure was flagged as retryable.
func (e JobError) Transient() bool { return e.Retryable }

// CancellationError represents a job that observed an abort signal while
// waiting and stopped cooperatively. Cancellations are always reported and
// never retried.
type CancellationError struct {
	// WorkerID identifies the worker that ran the job.
	WorkerID int
	// JobID identifies the canceled job.
	JobID int
}

// Error returns a formatted message describing the cancellation.
//
// Returns:
//   - string: The error message string.
func (e CancellationError) Error() string {
	return fmt.Sprintf("worker %d: job %d canceled", e.WorkerID, e.JobID)
}

// TimeoutError represents a race deadline elapsing before a job settled.
// It captures the operation name and the duration limit that was exceeded.
// The job's eventual outcome, if any, has been discarded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
//
// Returns:
//   - string: The error message string.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// transient is the interface satisfied by errors that classify themselves
// as retryable. JobError implements it; external collaborators may too.
type transient interface {
	Transient() bool
}

// IsTransient reports whether err classifies itself as a transient,
// retryable failure. Cancellations and timeouts are never transient.
// This is the default classification predicate used by the transient
// retry orchestrator; callers may substitute their own.
//
// Parameters:
//   - err: The error to classify.
//
// Returns:
//   - bool: true if the error is worth retrying.
func IsTransient(err error) bool {
	var tr transient
	if errors.As(err, &tr) {
		return tr.Transient()
	}
	return false
}

// IsCancellation reports whether err records a cooperative cancellation.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if a CancellationError is in the chain.
func IsCancellation(err error) bool {
	var cancelErr CancellationError
	return errors.As(err, &cancelErr)
}

// IsTimeout reports whether err records a race lost to a deadline.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if a TimeoutError is in the chain.
func IsTimeout(err error) bool {
	var timeoutErr TimeoutError
	return errors.As(err, &timeoutErr)
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
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
