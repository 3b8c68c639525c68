// Package calibration measures the parallel strategy at several worker
// counts and records the fastest one in a profile.
package calibration

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/digestagg/internal/aggregator"
	"github.com/agbru/digestagg/internal/digest"
	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/logging"
)

// DefaultRounds is the number of timed runs per worker count. The fastest
// run is kept.
const DefaultRounds = 3

// Result is the measurement of one worker count.
type Result struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// Options controls a calibration run.
type Options struct {
	// Candidates are the worker counts to measure. Empty selects
	// GenerateWorkerCandidates.
	Candidates []int
	// Rounds is the number of runs per candidate. Values below 1 select
	// DefaultRounds.
	Rounds int
	Logger logging.Logger
}

// Run measures the parallel strategy on digests for every candidate worker
// count and returns the measurements with the fastest successful count.
// Every run is checked against the sequential sum; a disagreement fails the
// candidate. Ties go to the smaller worker count.
func Run(ctx context.Context, digests []digest.Digest, opts Options) ([]Result, int, error) {
	candidates := opts.Candidates
	if len(candidates) == 0 {
		candidates = GenerateWorkerCandidates()
	}
	rounds := opts.Rounds
	if rounds < 1 {
		rounds = DefaultRounds
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop
	}

	reference := aggregator.Sum(digests)
	results := make([]Result, 0, len(candidates))
	best, bestDuration := 0, time.Duration(0)

	for _, workers := range candidates {
		if err := ctx.Err(); err != nil {
			return results, 0, err
		}
		res := measure(digests, workers, rounds, reference)
		if res.Err != nil {
			logger.Error("calibration candidate failed", res.Err, logging.Int("workers", workers))
		} else {
			logger.Debug("calibration candidate measured",
				logging.Int("workers", workers), logging.Duration("duration", res.Duration))
			if best == 0 || res.Duration < bestDuration {
				best, bestDuration = workers, res.Duration
			}
		}
		results = append(results, res)
	}

	if best == 0 {
		return results, 0, fmt.Errorf("calibration: no worker count succeeded out of %d", len(candidates))
	}
	fields := []logging.Field{logging.Int("workers", best), logging.Duration("duration", bestDuration)}
	if single := results[0]; single.Workers == 1 && single.Err == nil && bestDuration > 0 {
		fields = append(fields, logging.Float64("speedup", float64(single.Duration)/float64(bestDuration)))
	}
	logger.Info("calibration finished", fields...)
	return results, best, nil
}

func measure(digests []digest.Digest, workers, rounds int, reference digest.Digest) Result {
	res := Result{Workers: workers}
	p, err := aggregator.NewParallelColumn(workers)
	if err != nil {
		res.Err = err
		return res
	}
	for i := 0; i < rounds; i++ {
		start := time.Now()
		got, err := p.Aggregate(digests)
		elapsed := time.Since(start)
		if err != nil {
			res.Err = apperrors.AggregationError{Strategy: p.Name(), Cause: err}
			return res
		}
		if got != reference {
			res.Err = apperrors.AggregationError{
				Strategy: p.Name(),
				Cause:    fmt.Errorf("%d workers disagree with the sequential sum", workers),
			}
			return res
		}
		if i == 0 || elapsed < res.Duration {
			res.Duration = elapsed
		}
	}
	return res
}
