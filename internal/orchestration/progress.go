package orchestration

import "time"

// ProgressTracker counts finished strategies for a progress display.
type ProgressTracker struct {
	total   int
	done    int
	failed  int
	slowest time.Duration
}

// NewProgressTracker creates a tracker for numStrategies runs. Returns nil if
// numStrategies <= 0.
func NewProgressTracker(numStrategies int) *ProgressTracker {
	if numStrategies <= 0 {
		return nil
	}
	return &ProgressTracker{total: numStrategies}
}

// ProgressSnapshot is the tracker state after one completion.
type ProgressSnapshot struct {
	Last     Completion
	Done     int
	Failed   int
	Total    int
	Fraction float64
	// Slowest is the longest strategy duration seen so far.
	Slowest time.Duration
}

// Update records c and returns the new state.
func (p *ProgressTracker) Update(c Completion) ProgressSnapshot {
	p.done++
	if c.Err != nil {
		p.failed++
	}
	p.slowest = max(p.slowest, c.Duration)
	return ProgressSnapshot{
		Last:     c,
		Done:     p.done,
		Failed:   p.failed,
		Total:    p.total,
		Fraction: float64(p.done) / float64(p.total),
		Slowest:  p.slowest,
	}
}

// Total returns the number of strategies being tracked.
func (p *ProgressTracker) Total() int {
	return p.total
}

// IsMultiStrategy reports whether more than one strategy is tracked.
func (p *ProgressTracker) IsMultiStrategy() bool {
	return p.total > 1
}

// DrainChannel reads all completions without processing them.
func DrainChannel(completions <-chan Completion) {
	for range completions {
	}
}
