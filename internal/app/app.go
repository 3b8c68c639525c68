// Package app wires configuration, digest loading, the strategies and the
// CLI presentation into the digestagg command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/digestagg/internal/aggregator"
	"github.com/agbru/digestagg/internal/cli"
	"github.com/agbru/digestagg/internal/config"
	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/logging"
	"github.com/agbru/digestagg/internal/tracing"
	"github.com/agbru/digestagg/internal/ui"
)

// Application represents the digestagg application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *aggregator.Registry
	ErrWriter io.Writer
	Logger    logging.Logger

	customRegistry bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry replaces the default strategy registry. The -workers setting
// is then ignored.
func WithRegistry(r *aggregator.Registry) AppOption {
	return func(a *Application) {
		a.Registry = r
		a.customRegistry = true
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		registry, err := aggregator.NewDefaultRegistry(aggregator.DefaultWorkers)
		if err != nil {
			return nil, err
		}
		app.Registry = registry
	}

	programName := "digestagg"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Registry.List())
	if err != nil {
		return nil, err
	}
	configureOutput(cfg)
	if app.Logger == nil {
		app.Logger = logging.NewConsoleLogger(errWriter, "digestagg", logLevel(cfg), cfg.NoColor || cfg.Quiet)
	}
	applyProfile(&cfg, app.Logger)
	app.Config = cfg

	if !app.customRegistry && cfg.Workers != aggregator.DefaultWorkers {
		registry, err := aggregator.NewDefaultRegistry(cfg.Workers)
		if err != nil {
			return nil, apperrors.WrapError(err, "build strategy registry")
		}
		app.Registry = registry
	}
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	configureOutput(a.Config)

	if a.Config.Trace != "" {
		stop, err := a.startTracing()
		if err != nil {
			a.Logger.Error("cannot start tracing", err, logging.String("path", a.Config.Trace))
			return apperrors.ExitErrorGeneric
		}
		defer stop()
	}

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	return a.runAggregate(ctx, out)
}

func logLevel(cfg config.AppConfig) zerolog.Level {
	switch {
	case cfg.Verbose:
		return zerolog.DebugLevel
	case cfg.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// configureOutput sets the global log level and the color theme from cfg.
func configureOutput(cfg config.AppConfig) {
	zerolog.SetGlobalLevel(logLevel(cfg))
	ui.InitTheme(cfg.NoColor || cfg.Quiet, cfg.Theme)
}

// startTracing exports the spans of the run to the configured trace file.
// The returned function flushes the spans and closes the file.
func (a *Application) startTracing() (func(), error) {
	f, err := os.Create(a.Config.Trace)
	if err != nil {
		return nil, apperrors.WrapError(err, "create trace file")
	}
	shutdown, err := tracing.Setup(f, Version)
	if err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			a.Logger.Error("cannot flush spans", err)
		}
		if err := f.Close(); err != nil {
			a.Logger.Error("cannot close trace file", err, logging.String("path", a.Config.Trace))
		}
	}, nil
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (-help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
