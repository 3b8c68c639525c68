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
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between strategies.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorFault    = 5   // Indicates an aggregation fault (carry exhaustion, worker failure).
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// AggregationError encapsulates a failed aggregation while preserving the
// original cause and the strategy that produced it.
type AggregationError struct {
	// Strategy is the name of the strategy that failed.
	Strategy string
	// Cause is the underlying error that aborted the aggregation.
	Cause error
}

// Error returns the strategy name followed by the cause message.
func (e AggregationError) Error() string {
	return fmt.Sprintf("%s aggregation failed: %v", e.Strategy, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e AggregationError) Unwrap() error { return e.Cause }

// CarryOverflowError reports that the overflow counter of a limb position
// would have exceeded the range of a uint64. It cannot happen for any input
// set smaller than 2^64 digests and signals a violated design limit.
type CarryOverflowError struct {
	// Limb is the limb index whose counter was exhausted.
	Limb int
	// Phase names where the exhaustion was detected ("fold" or "correction").
	Phase string
}

// Error returns a formatted message describing the exhausted counter.
func (e CarryOverflowError) Error() string {
	return fmt.Sprintf("carry counter exhausted at limb %d during %s", e.Limb, e.Phase)
}

// WorkerError reports that a parallel worker terminated abnormally. No
// partial result is produced when a worker fails.
type WorkerError struct {
	// Shard is the index of the shard the worker was assigned.
	Shard int
	// Cause describes the failure. Panics are converted to errors.
	Cause error
}

// Error returns a formatted message identifying the failed worker.
func (e WorkerError) Error() string {
	return fmt.Sprintf("worker for shard %d failed: %v", e.Shard, e.Cause)
}

// Unwrap returns the underlying cause.
func (e WorkerError) Unwrap() error { return e.Cause }

// TimeoutError represents an aggregation run that exceeded its deadline.
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

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// IsFault reports whether err carries one of the two fatal aggregation
// faults: carry counter exhaustion or a failed worker.
func IsFault(err error) bool {
	var co CarryOverflowError
	var we WorkerError
	return errors.As(err, &co) || errors.As(err, &we)
}

// WrapError prefixes err with a formatted context message, keeping it
// reachable through errors.Is and errors.As. A nil err stays nil.
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
