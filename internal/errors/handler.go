package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ExitCodeFor maps an error to the process exit code the CLI reports.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	var valErr ValidationError
	var timeoutErr TimeoutError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case IsFault(err):
		return ExitErrorFault
	default:
		return ExitErrorGeneric
	}
}

// HandleAggregationError writes a one-line description of err to out and
// returns the matching exit code. A nil error returns ExitSuccess and writes
// nothing.
func HandleAggregationError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached after %s.\n", duration)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "Status: Canceled by user after %s.\n", duration)
	case ExitErrorFault:
		fmt.Fprintf(out, "Status: Aborted. Aggregation fault: %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
