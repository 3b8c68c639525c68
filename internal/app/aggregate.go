package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/digestagg/internal/cli"
	"github.com/agbru/digestagg/internal/digest"
	"github.com/agbru/digestagg/internal/digestio"
	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/generator"
	"github.com/agbru/digestagg/internal/logging"
	"github.com/agbru/digestagg/internal/metrics"
	"github.com/agbru/digestagg/internal/orchestration"
	"github.com/agbru/digestagg/internal/sysmon"
)

// runAggregate loads or generates the digest set, runs the selected
// strategies and reports the outcome.
func (a *Application) runAggregate(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	start := time.Now()
	digests, err := a.loadDigests()
	if err != nil {
		a.Logger.Error("cannot load digests", err, logging.String("input", a.Config.Input))
		return apperrors.HandleAggregationError(err, time.Since(start), a.ErrWriter)
	}
	a.Logger.Debug("digest set ready", logging.Int("digests", len(digests)), logging.Duration("elapsed", time.Since(start)))

	if a.Config.Save != "" {
		if err := digestio.WriteFile(a.Config.Save, digests); err != nil {
			a.Logger.Error("cannot save digest set", err, logging.String("path", a.Config.Save))
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			cli.DisplaySaved(out, "Digest set", a.Config.Save)
		}
	}

	strategies := orchestration.GetStrategiesToRun(a.Config.Strategy, a.Registry)
	if len(strategies) == 0 {
		fmt.Fprintf(a.ErrWriter, "No strategy matches %q.\n", a.Config.Strategy)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, len(digests), out)
		cli.PrintExecutionMode(strategies, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	recorder := metrics.NewRecorder()
	memCollector := metrics.NewMemoryCollector()
	before := memCollector.Snapshot()

	results, firstErr := orchestration.ExecuteAggregations(ctx, strategies, digests,
		orchestration.Instrumentation{Recorder: recorder, Logger: a.Logger}, progressReporter, progressOut)
	if firstErr != nil {
		a.Logger.Debug("at least one strategy failed", logging.Err(firstErr))
	}
	delta := metrics.Delta(before, memCollector.Snapshot())

	presOpts := orchestration.PresentationOptions{
		Count:     len(digests),
		Verbose:   a.Config.Verbose,
		Quiet:     a.Config.Quiet,
		ShowValue: a.Config.ShowValue,
	}
	presenter := cli.CLIResultPresenter{}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, out)

	if best := findBestResult(results); best != nil && exitCode == apperrors.ExitSuccess && a.Config.Output != "" {
		if err := cli.WriteResultToFile(*best, len(digests), a.Config.Output); err != nil {
			a.Logger.Error("cannot save aggregate report", err, logging.String("path", a.Config.Output))
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			cli.DisplaySaved(out, "Aggregate report", a.Config.Output)
		}
	}

	if a.Config.Verbose {
		cli.DisplayMemoryStats(delta, out)
		cli.DisplaySystemStats(sysmon.Sample(), out)
	}
	if a.Config.Metrics {
		fmt.Fprintln(out)
		if err := recorder.WriteText(out); err != nil {
			a.Logger.Error("cannot write metrics", err)
		}
	}
	return exitCode
}

// loadDigests reads the input file, or generates Count digests from Seed
// when no input is configured.
func (a *Application) loadDigests() ([]digest.Digest, error) {
	if a.Config.Input != "" {
		return digestio.ReadFile(a.Config.Input)
	}
	return generator.New(a.Config.Seed).Random(a.Config.Count), nil
}

func findBestResult(results []orchestration.AggregationResult) *orchestration.AggregationResult {
	var bestResult *orchestration.AggregationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}
