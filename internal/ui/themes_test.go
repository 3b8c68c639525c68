package ui

import (
	"slices"
	"testing"
)

// Theme tests mutate package state and must not run in parallel.

func TestSetTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	for _, want := range []Theme{DarkTheme, LightTheme, BasicTheme, NoColorTheme} {
		if err := SetTheme(want.Name); err != nil {
			t.Fatalf("SetTheme(%q): %v", want.Name, err)
		}
		if got := GetCurrentTheme(); got != want {
			t.Errorf("SetTheme(%q): got theme %q", want.Name, got.Name)
		}
	}

	SetCurrentTheme(LightTheme)
	if err := SetTheme("neon"); err == nil {
		t.Error("unknown theme must be rejected")
	}
	if GetCurrentTheme().Name != "light" {
		t.Error("a rejected theme must not change the active one")
	}
}

func TestThemeNames(t *testing.T) {
	want := []string{"basic", "dark", "light", "none"}
	if got := ThemeNames(); !slices.Equal(got, want) {
		t.Errorf("ThemeNames() = %v, want %v", got, want)
	}
}

func TestInitTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	InitTheme(true, "light")
	if GetCurrentTheme().Name != "none" {
		t.Error("noColor must win over the theme name")
	}
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("no-color theme must produce empty escape codes")
	}

	InitTheme(false, "basic")
	if GetCurrentTheme().Name != "basic" {
		t.Errorf("got theme %q, want basic", GetCurrentTheme().Name)
	}

	InitTheme(false, "")
	if GetCurrentTheme().Name != DefaultThemeName {
		t.Errorf("empty name must select %q, got %q", DefaultThemeName, GetCurrentTheme().Name)
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false, "dark")
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR must disable colors")
	}
}

func TestColorsFollowTheme(t *testing.T) {
	original := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(original) })

	SetCurrentTheme(DarkTheme)
	checks := map[string][2]string{
		"red":       {ColorRed(), DarkTheme.Error},
		"green":     {ColorGreen(), DarkTheme.Success},
		"yellow":    {ColorYellow(), DarkTheme.Warning},
		"blue":      {ColorBlue(), DarkTheme.Primary},
		"magenta":   {ColorMagenta(), DarkTheme.Info},
		"cyan":      {ColorCyan(), DarkTheme.Secondary},
		"bold":      {ColorBold(), DarkTheme.Bold},
		"underline": {ColorUnderline(), DarkTheme.Underline},
		"reset":     {ColorReset(), DarkTheme.Reset},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s: got %q, want %q", name, c[0], c[1])
		}
	}
}
