package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks its observable behavior.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	tmpDir := t.TempDir()
	binName := "digestagg"
	if runtime.GOOS == "windows" {
		binName = "digestagg.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/digestagg")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build digestagg: %v", err)
	}

	setPath := filepath.Join(tmpDir, "set.msgpack.zst")
	profilePath := filepath.Join(tmpDir, "calibration.toml")

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Compare all strategies",
			args:     []string{"-n", "100"},
			wantOut:  "Global Status: Success",
			wantCode: 0,
		},
		{
			name:     "Show value",
			args:     []string{"-n", "10", "-strategy", "column", "-c"},
			wantOut:  "Aggregate (hex, 4032 bits)",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Save set",
			args:     []string{"-n", "64", "-seed", "3", "-save", setPath, "-q"},
			wantCode: 0,
		},
		{
			name:     "Load saved set",
			args:     []string{"-input", setPath, "-strategy", "parallel", "-workers", "5"},
			wantOut:  "Aggregating 64 digests",
			wantCode: 0,
		},
		{
			name:     "Empty set",
			args:     []string{"-n", "0"},
			wantOut:  "aggregate is zero",
			wantCode: 0,
		},
		{
			name:     "Unknown strategy",
			args:     []string{"-strategy", "quantum"},
			wantOut:  "unknown strategy",
			wantCode: 4,
		},
		{
			name:     "Missing input",
			args:     []string{"-input", filepath.Join(tmpDir, "absent.msgpack")},
			wantCode: 1,
		},
		{
			name:     "Metrics dump",
			args:     []string{"-n", "10", "-metrics"},
			wantOut:  "digestagg_digests_aggregated_total",
			wantCode: 0,
		},
		{
			name:     "Calibrate",
			args:     []string{"-calibrate", "-n", "200", "-calibration-profile", profilePath},
			wantOut:  "(Optimal)",
			wantCode: 0,
		},
		{
			name:     "Run with calibration profile",
			args:     []string{"-n", "20", "-calibration-profile", profilePath, "-strategy", "parallel", "-q"},
			wantCode: 0,
		},
		{
			name:     "Unknown theme",
			args:     []string{"-theme", "neon"},
			wantOut:  "unknown theme",
			wantCode: 4,
		},
		{
			name:     "Bash completion",
			args:     []string{"-completion", "bash"},
			wantOut:  "-calibration-profile",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "digestagg",
			wantCode: 0,
		},
	}

	// Cases run in order: loading depends on the saved set.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("command did not run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
