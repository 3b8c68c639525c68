package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/digestagg/internal/format"
	"github.com/agbru/digestagg/internal/orchestration"
)

const (
	// HexDisplayEdges specifies the number of hex characters to display at the
	// beginning and end of a truncated aggregate.
	HexDisplayEdges = 40
	// ProgressRefreshRate defines the refresh frequency of the spinner.
	ProgressRefreshRate = 100 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a completion bar until the
// completions channel is closed, then prints one line per finished strategy.
// It calls wg.Done when it returns.
func DisplayProgress(wg *sync.WaitGroup, completions <-chan orchestration.Completion, numStrategies int, out io.Writer) {
	defer wg.Done()
	tracker := orchestration.NewProgressTracker(numStrategies)
	if tracker == nil {
		orchestration.DrainChannel(completions)
		return
	}

	s := newSpinner(out)
	s.UpdateSuffix(progressSuffix(orchestration.ProgressSnapshot{Total: numStrategies}))
	s.Start()

	var finished []orchestration.ProgressSnapshot
	for c := range completions {
		snap := tracker.Update(c)
		finished = append(finished, snap)
		s.UpdateSuffix(progressSuffix(snap))
	}
	s.Stop()

	if !tracker.IsMultiStrategy() {
		return
	}
	for _, snap := range finished {
		status := "done"
		if snap.Last.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(out, "  [%d/%d] %-12s %s in %s\n",
			snap.Done, snap.Total, snap.Last.Name, status, format.FormatExecutionDuration(snap.Last.Duration))
	}
}

func progressSuffix(snap orchestration.ProgressSnapshot) string {
	return fmt.Sprintf(" Aggregating %s %d/%d", progressBar(snap.Fraction, ProgressBarWidth), snap.Done, snap.Total)
}

// progressBar renders progress, clamped to [0, 1], as a bar of length cells.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0.0), 1.0)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}
