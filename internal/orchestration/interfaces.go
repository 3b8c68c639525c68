package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/digestagg/internal/digest"
)

// AggregationResult encapsulates the outcome of one strategy run.
// It serves as the shared domain type between orchestration and presentation layers.
type AggregationResult struct {
	// Name is the registry key of the strategy (e.g., "parallel").
	Name string
	// Result is the aggregate. It is the zero digest if an error occurred.
	Result digest.Digest
	// Duration is the time taken by the strategy.
	Duration time.Duration
	// Err contains any error returned by the strategy.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Count     int
	Verbose   bool
	Quiet     bool
	ShowValue bool
}

// Completion is sent once per strategy when its run finishes.
type Completion struct {
	Index    int
	Name     string
	Duration time.Duration
	Err      error
}

// ProgressReporter displays the progress of a run while strategies execute.
// The orchestration layer only knows about completion events; how they are
// rendered (spinner, log lines, nothing) is up to the implementation.
type ProgressReporter interface {
	// DisplayProgress consumes completions until the channel is closed and
	// then calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, completions <-chan Completion, numStrategies int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, completions <-chan Completion, numStrategies int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, completions <-chan Completion, numStrategies int, out io.Writer) {
	f(wg, completions, numStrategies, out)
}

// NullProgressReporter drains the completion channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, completions <-chan Completion, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(completions)
}

// ResultPresenter defines how run results are shown to the user.
type ResultPresenter interface {
	// PresentComparisonTable displays the per-strategy summary table.
	PresentComparisonTable(results []AggregationResult, out io.Writer)

	// PresentResult displays the agreed aggregate.
	PresentResult(result AggregationResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles aggregation errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
