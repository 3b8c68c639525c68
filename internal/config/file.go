package config

import (
	"flag"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	apperrors "github.com/agbru/digestagg/internal/errors"
)

// fileConfig mirrors the keys accepted in a TOML configuration file.
type fileConfig struct {
	Count     int64  `toml:"count"`
	Seed      int64  `toml:"seed"`
	Strategy  string `toml:"strategy"`
	Workers   int64  `toml:"workers"`
	Input     string `toml:"input"`
	Save      string `toml:"save"`
	Timeout   string `toml:"timeout"`
	Verbose   bool   `toml:"verbose"`
	Quiet     bool   `toml:"quiet"`
	ShowValue bool   `toml:"show_value"`
	Metrics   bool   `toml:"metrics"`
	NoColor   bool   `toml:"no_color"`
	Output    string `toml:"output"`
	Theme     string `toml:"theme"`
	Trace     string `toml:"trace"`

	Calibrate          bool   `toml:"calibrate"`
	CalibrationProfile string `toml:"calibration_profile"`
}

// applyFile loads path and copies every key it defines into cfg, unless the
// matching flag was given on the command line.
func applyFile(cfg *AppConfig, fs *flag.FlagSet, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return apperrors.WrapError(err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return apperrors.NewConfigError("config %s: unknown key %q", path, undecoded[0].String())
	}

	defined := func(key string, flags ...string) bool {
		return meta.IsDefined(key) && !isFlagSetAny(fs, flags...)
	}

	if defined("count", "n") {
		n, err := safecast.Conv[int](raw.Count)
		if err != nil {
			return apperrors.NewConfigError("config %s: count: %v", path, err)
		}
		cfg.Count = n
	}
	if defined("seed", "seed") {
		seed, err := safecast.Conv[uint64](raw.Seed)
		if err != nil {
			return apperrors.NewConfigError("config %s: seed: %v", path, err)
		}
		cfg.Seed = seed
	}
	if defined("workers", "workers") {
		w, err := safecast.Conv[int](raw.Workers)
		if err != nil {
			return apperrors.NewConfigError("config %s: workers: %v", path, err)
		}
		cfg.Workers = w
		cfg.workersExplicit = true
	}
	if defined("strategy", "strategy") {
		cfg.Strategy = strings.TrimSpace(raw.Strategy)
	}
	if defined("input", "input") {
		cfg.Input = strings.TrimSpace(raw.Input)
	}
	if defined("save", "save") {
		cfg.Save = strings.TrimSpace(raw.Save)
	}
	if defined("timeout", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return apperrors.NewConfigError("config %s: timeout: %v", path, err)
		}
		cfg.Timeout = d
	}
	if defined("verbose", "v", "verbose") {
		cfg.Verbose = raw.Verbose
	}
	if defined("quiet", "q", "quiet") {
		cfg.Quiet = raw.Quiet
	}
	if defined("show_value", "c") {
		cfg.ShowValue = raw.ShowValue
	}
	if defined("metrics", "metrics") {
		cfg.Metrics = raw.Metrics
	}
	if defined("no_color", "no-color") {
		cfg.NoColor = raw.NoColor
	}
	if defined("output", "o", "output") {
		cfg.Output = strings.TrimSpace(raw.Output)
	}
	if defined("trace", "trace") {
		cfg.Trace = strings.TrimSpace(raw.Trace)
	}
	if defined("theme", "theme") {
		cfg.Theme = strings.TrimSpace(raw.Theme)
	}
	if defined("calibrate", "calibrate") {
		cfg.Calibrate = raw.Calibrate
	}
	if defined("calibration_profile", "calibration-profile") {
		cfg.CalibrationProfile = strings.TrimSpace(raw.CalibrationProfile)
	}
	return nil
}
