// Package config parses and validates the digestagg command-line
// configuration.
//
// Values are resolved with the following priority (highest first):
//  1. Command-line flags
//  2. Environment variables (DIGESTAGG_ prefix)
//  3. TOML configuration file given with -config
//  4. Built-in defaults
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/agbru/digestagg/internal/aggregator"
	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/ui"
)

const (
	// EnvPrefix is prepended to every environment variable the
	// configuration reads.
	EnvPrefix = "DIGESTAGG_"

	// StrategyAll selects every registered strategy and compares results.
	StrategyAll = "all"

	// DefaultCount is the number of digests generated when no input file
	// is given.
	DefaultCount = 1000
	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 1 * time.Minute
)

// CompletionShells lists the shells accepted by -completion.
var CompletionShells = []string{"bash", "zsh", "fish"}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Count is the number of random digests to generate when Input is empty.
	Count int
	// Seed seeds the digest generator. The same seed reproduces the same set.
	Seed uint64
	// Strategy is a registered strategy name or "all".
	Strategy string
	// Workers is the worker count of the parallel strategy. Zero selects a
	// value from the number of CPUs.
	Workers int
	// Input is a digest set file to aggregate instead of generated digests.
	Input string
	// Save writes the digest set that was aggregated to this path.
	Save string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Verbose enables debug logging and memory statistics.
	Verbose bool
	// Quiet reduces output to the aggregate fingerprint.
	Quiet bool
	// ShowValue prints the full aggregate in hexadecimal.
	ShowValue bool
	// Metrics prints the Prometheus metrics collected during the run.
	Metrics bool
	// NoColor disables ANSI colors in the output.
	NoColor bool
	// Theme names the color theme (see ui.ThemeNames).
	Theme string
	// Output writes a text report of the agreed aggregate to this path.
	Output string
	// Trace writes the OpenTelemetry spans of the run to this file as JSON.
	Trace string
	// Completion prints a shell completion script for the named shell and
	// exits.
	Completion string
	// Calibrate measures the parallel strategy at several worker counts
	// instead of aggregating.
	Calibrate bool
	// CalibrationProfile is where -calibrate stores its result. Other runs
	// read their worker count from it when no worker count was given.
	CalibrationProfile string
	// ConfigFile is the optional TOML file consulted for unset flags.
	ConfigFile string

	workersExplicit bool
}

// WorkersExplicit reports whether the worker count came from a flag, the
// environment or the configuration file rather than a default.
func (c AppConfig) WorkersExplicit() bool { return c.workersExplicit }

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Count:    DefaultCount,
		Seed:     1,
		Strategy: StrategyAll,
		Workers:  aggregator.DefaultWorkers,
		Timeout:  DefaultTimeout,
		Theme:    ui.DefaultThemeName,
	}
}

// ParseConfig parses args into an AppConfig, then fills unset values from
// the configuration file and the environment, and validates the result.
// args excludes the program name; usage and parse errors go to errorWriter.
// It returns flag.ErrHelp when -h was given and a ConfigError for invalid
// values or an unknown -strategy.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableStrategies []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := Default()
	fs.IntVar(&config.Count, "n", config.Count, "Number of random digests to generate.")
	fs.Uint64Var(&config.Seed, "seed", config.Seed, "Seed of the digest generator.")
	fs.StringVar(&config.Strategy, "strategy", config.Strategy,
		fmt.Sprintf("Strategy to run: %s or %q.", strings.Join(availableStrategies, ", "), StrategyAll))
	fs.IntVar(&config.Workers, "workers", config.Workers, "Workers of the parallel strategy (0 = derive from CPU count).")
	fs.StringVar(&config.Input, "input", "", "Digest set file to aggregate (.msgpack or .msgpack.zst).")
	fs.StringVar(&config.Save, "save", "", "Write the aggregated digest set to this file.")
	fs.DurationVar(&config.Timeout, "timeout", config.Timeout, "Maximum duration of the run.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose output (debug logs, memory statistics).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Alias for -v.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode: print only the aggregate fingerprint.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Alias for -q.")
	fs.BoolVar(&config.ShowValue, "c", false, "Print the full aggregate in hexadecimal.")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print collected Prometheus metrics after the run.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Theme, "theme", config.Theme, fmt.Sprintf("Color theme: %s.", strings.Join(ui.ThemeNames(), ", ")))
	fs.StringVar(&config.Output, "o", "", "Write a report of the aggregate to this file.")
	fs.StringVar(&config.Output, "output", "", "Alias for -o.")
	fs.StringVar(&config.Trace, "trace", "", "Write OpenTelemetry spans of the run to this file (JSON).")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script (bash, zsh, fish) and exit.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the parallel strategy at several worker counts and exit.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile file (written by -calibrate, read otherwise).")
	fs.StringVar(&config.ConfigFile, "config", "", "TOML configuration file.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	config.workersExplicit = isFlagSet(fs, "workers")

	configFile := config.ConfigFile
	if !isFlagSet(fs, "config") {
		configFile = lookupEnv("CONFIG", "")
	}
	if configFile != "" {
		if err := applyFile(&config, fs, configFile); err != nil {
			return AppConfig{}, err
		}
		config.ConfigFile = configFile
	}

	applyEnvOverrides(&config, fs)

	if config.Workers == 0 {
		config.Workers = EstimateWorkers()
	}

	if err := config.Validate(availableStrategies); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableStrategies []string) error {
	if c.Input == "" && c.Count < 0 {
		return apperrors.NewConfigError("digest count must be non-negative, got %d", c.Count)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("worker count must be at least 1, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported completion shell %q (available: %s)",
			c.Completion, strings.Join(CompletionShells, ", "))
	}
	if !slices.Contains(ui.ThemeNames(), c.Theme) {
		return apperrors.NewConfigError("unknown theme %q (available: %s)", c.Theme, strings.Join(ui.ThemeNames(), ", "))
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("-q and -v are mutually exclusive")
	}
	if c.Strategy != StrategyAll && !slices.Contains(availableStrategies, c.Strategy) {
		return apperrors.NewConfigError("unknown strategy %q (available: %s, %s)",
			c.Strategy, strings.Join(availableStrategies, ", "), StrategyAll)
	}
	return nil
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}
