package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/digestagg/internal/calibration"
	"github.com/agbru/digestagg/internal/cli"
	"github.com/agbru/digestagg/internal/config"
	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/logging"
)

// ProfileMaxAge is how long a calibration profile is trusted.
const ProfileMaxAge = 30 * 24 * time.Hour

// runCalibration measures the parallel strategy on the configured digest set
// and optionally stores the fastest worker count.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
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

	fmt.Fprintf(out, "--- Calibration ---\nMeasuring the parallel strategy on %d digests...\n", len(digests))
	results, best, err := calibration.Run(ctx, digests, calibration.Options{Logger: a.Logger})
	if err != nil {
		if apperrors.IsContextError(err) {
			return apperrors.HandleAggregationError(err, time.Since(start), a.ErrWriter)
		}
		fmt.Fprintf(a.ErrWriter, "Calibration failed: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	calibration.PrintResults(out, results, best)
	fmt.Fprintln(out)
	calibration.PrintRecommendation(out, best)

	if a.Config.CalibrationProfile != "" {
		profile := calibration.NewProfile()
		profile.Digests = len(digests)
		profile.Workers = best
		profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
		if err := profile.SaveProfile(a.Config.CalibrationProfile); err != nil {
			a.Logger.Error("cannot save calibration profile", err, logging.String("path", a.Config.CalibrationProfile))
			return apperrors.ExitErrorGeneric
		}
		cli.DisplaySaved(out, "Calibration profile", a.Config.CalibrationProfile)
	}
	return apperrors.ExitSuccess
}

// applyProfile replaces the default worker count with the one recorded in
// the calibration profile. A missing, foreign or stale profile is ignored.
func applyProfile(cfg *config.AppConfig, logger logging.Logger) {
	if cfg.CalibrationProfile == "" || cfg.Calibrate || cfg.WorkersExplicit() {
		return
	}
	profile, err := calibration.LoadProfile(cfg.CalibrationProfile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("no calibration profile", logging.String("path", cfg.CalibrationProfile))
		return
	case err != nil:
		logger.Error("ignoring unreadable calibration profile", err, logging.String("path", cfg.CalibrationProfile))
		return
	case !profile.IsValid() || profile.IsStale(ProfileMaxAge):
		logger.Debug("ignoring calibration profile from another machine or too old",
			logging.String("path", cfg.CalibrationProfile))
		return
	}
	cfg.Workers = profile.Workers
	logger.Debug("workers loaded from calibration profile", logging.Int("workers", cfg.Workers))
}
