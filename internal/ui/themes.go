package ui

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
)

// Theme maps each color role used by the CLI to an ANSI escape sequence.
// The zero Theme prints no escape codes at all.
type Theme struct {
	Name string

	Primary   string // digest counts, headings
	Secondary string // strategy names, environment facts
	Success   string // agreeing results, optimal calibration rows
	Warning   string // durations, timeouts
	Error     string // faults, mismatches
	Info      string // neutral highlights
	Bold      string
	Underline string
	Reset     string
}

// DefaultThemeName is the theme used when none is configured.
const DefaultThemeName = "dark"

var (
	// DarkTheme uses bright 256-color codes for dark backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme uses darker codes that stay readable on light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// BasicTheme sticks to the eight standard ANSI colors for terminals
	// without 256-color support.
	BasicTheme = Theme{
		Name:      "basic",
		Primary:   "\033[34m",
		Secondary: "\033[36m",
		Success:   "\033[32m",
		Warning:   "\033[33m",
		Error:     "\033[31m",
		Info:      "\033[35m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		BasicTheme.Name:   BasicTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ThemeNames returns the names accepted by SetTheme, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme installs t as the active theme. Tests use it to restore
// state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates the named theme. Unknown names leave the active theme
// unchanged and return an error.
func SetTheme(name string) error {
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	SetCurrentTheme(t)
	return nil
}

// InitTheme selects the theme for a run. noColor, or a NO_COLOR environment
// variable with any value (https://no-color.org/), wins over name. An empty
// or unknown name selects DefaultThemeName.
func InitTheme(noColor bool, name string) {
	if noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if err := SetTheme(name); err != nil {
		SetCurrentTheme(themes[DefaultThemeName])
	}
}
