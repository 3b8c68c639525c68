package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/digestagg/internal/aggregator"
	"github.com/agbru/digestagg/internal/digest"
	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/logging"
	"github.com/agbru/digestagg/internal/metrics"
	"github.com/agbru/digestagg/internal/parallel"
)

const tracerName = "github.com/agbru/digestagg/internal/orchestration"

// Instrumentation bundles the optional observers of a run. The zero value
// records nothing.
type Instrumentation struct {
	// Recorder receives one observation per strategy run.
	Recorder *metrics.Recorder
	// Logger receives debug lines for each strategy run.
	Logger logging.Logger
}

// ExecuteAggregations runs every strategy concurrently over the same digest
// set and collects their results.
//
// Each strategy runs in its own goroutine inside a trace span named
// "aggregate". A strategy does not start when ctx is already done; its result
// then carries the context error. Errors are wrapped in
// apperrors.AggregationError naming the strategy. digests is shared and must
// not be modified while the strategies run. Both sinks in inst are optional.
//
// The returned slice holds one result per strategy, in input order, and the
// error is the first strategy error observed.
func ExecuteAggregations(ctx context.Context, strategies []aggregator.Strategy, digests []digest.Digest,
	inst Instrumentation, progressReporter ProgressReporter, out io.Writer) ([]AggregationResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	tracer := otel.Tracer(tracerName)
	results := make([]AggregationResult, len(strategies))
	completions := make(chan Completion, len(strategies))
	var firstErr parallel.ErrorCollector

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, completions, len(strategies), out)

	for i, s := range strategies {
		idx, strategy := i, s
		g.Go(func() error {
			res := runStrategy(ctx, tracer, strategy, digests, inst)
			results[idx] = res
			firstErr.SetError(res.Err)
			completions <- Completion{Index: idx, Name: res.Name, Duration: res.Duration, Err: res.Err}
			return nil
		})
	}

	_ = g.Wait()
	close(completions)
	displayWg.Wait()

	return results, firstErr.Err()
}

func runStrategy(ctx context.Context, tracer trace.Tracer, s aggregator.Strategy, digests []digest.Digest, inst Instrumentation) AggregationResult {
	name := s.Name()
	_, span := tracer.Start(ctx, "aggregate", trace.WithAttributes(
		attribute.String("strategy", name),
		attribute.Int("digests", len(digests)),
	))
	defer span.End()

	start := time.Now()
	var (
		sum digest.Digest
		err error
	)
	if err = ctx.Err(); err == nil {
		sum, err = s.Aggregate(digests)
	}
	elapsed := time.Since(start)

	if err != nil {
		sum = digest.Zero()
		err = apperrors.AggregationError{Strategy: name, Cause: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.String("fingerprint", fmt.Sprintf("%016x", sum.Fingerprint())))
		span.SetStatus(codes.Ok, "")
	}

	if inst.Recorder != nil {
		inst.Recorder.Observe(name, len(digests), elapsed, err)
	}
	if inst.Logger != nil {
		if err != nil {
			inst.Logger.Error("aggregation failed", err, logging.String("strategy", name), logging.Duration("elapsed", elapsed))
		} else {
			inst.Logger.Debug("aggregation finished",
				logging.String("strategy", name),
				logging.Int("digests", len(digests)),
				logging.Uint64("fingerprint", sum.Fingerprint()),
				logging.Duration("elapsed", elapsed))
		}
	}

	return AggregationResult{Name: name, Result: sum, Duration: elapsed, Err: err}
}

// GetStrategiesToRun resolves a strategy selection against the registry.
// "all" returns every registered strategy in name order; any other name
// returns that strategy alone, or nil if it is unknown.
func GetStrategiesToRun(name string, registry *aggregator.Registry) []aggregator.Strategy {
	if name == "all" {
		return registry.All()
	}
	if s, err := registry.Get(name); err == nil {
		return []aggregator.Strategy{s}
	}
	return nil
}

// AnalyzeComparisonResults sorts results by duration, checks that every
// successful strategy produced the same aggregate, and presents the outcome.
//
// A fault (carry counter exhaustion or a failed worker) in any strategy fails
// the whole run even when other strategies succeeded. Otherwise the result is
// ExitSuccess when all successful results agree, ExitErrorMismatch when two of
// them disagree, or the exit code of the first error when every strategy
// failed.
func AnalyzeComparisonResults(results []AggregationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *AggregationResult
	var firstError, faultErr error
	successCount := 0

	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			if faultErr == nil && apperrors.IsFault(results[i].Err) {
				faultErr = results[i].Err
			}
		} else {
			successCount++
			if firstValidResult == nil {
				firstValidResult = &results[i]
			}
		}
	}

	if !opts.Quiet {
		presenter.PresentComparisonTable(results, out)
	}

	if successCount == 0 {
		if firstError == nil {
			fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy was run.\n")
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the aggregation.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	if faultErr != nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. A strategy hit a fault; no aggregate is reported.\n")
		return errHandler.HandleError(faultErr, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && res.Result != firstValidResult.Result {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! Strategies %q and %q disagree on the aggregate.\n",
				firstValidResult.Name, res.Name)
			return apperrors.ExitErrorMismatch
		}
	}

	if !opts.Quiet {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}
	presenter.PresentResult(*firstValidResult, opts, out)
	return apperrors.ExitSuccess
}
