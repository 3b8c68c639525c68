package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/digestagg/internal/digest"
	"github.com/agbru/digestagg/internal/generator"
	"github.com/agbru/digestagg/internal/orchestration"
	"github.com/agbru/digestagg/internal/ui"
)

func TestMain(m *testing.M) {
	ui.InitTheme(true, "")
	os.Exit(m.Run())
}

func sampleResult() orchestration.AggregationResult {
	return orchestration.AggregationResult{
		Name:     "column",
		Result:   generator.New(4).Digest(),
		Duration: 1500 * time.Microsecond,
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	res := sampleResult()
	got := FormatQuietResult(res.Result)
	if len(got) != 16 {
		t.Errorf("fingerprint %q should have 16 hex digits", got)
	}
	if FormatQuietResult(digest.Zero()) == got {
		t.Error("different digests should have different fingerprints")
	}

	var buf bytes.Buffer
	DisplayQuietResult(&buf, res)
	if buf.String() != got+"\n" {
		t.Errorf("quiet output = %q", buf.String())
	}
}

func TestFormatHex(t *testing.T) {
	t.Parallel()
	d := sampleResult().Result

	full, truncated := FormatHex(d, true)
	if truncated || len(full) != 2*digest.Size {
		t.Errorf("full hex: truncated=%v len=%d", truncated, len(full))
	}

	short, truncated := FormatHex(d, false)
	if !truncated || len(short) != 2*HexDisplayEdges+3 {
		t.Errorf("short hex: truncated=%v len=%d", truncated, len(short))
	}
	if !strings.HasPrefix(full, short[:HexDisplayEdges]) || !strings.HasSuffix(full, short[len(short)-HexDisplayEdges:]) {
		t.Error("truncated hex must keep both edges")
	}
}

func TestDisplayResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		opts        orchestration.PresentationOptions
		contains    []string
		notContains []string
	}{
		{
			name:        "summary only",
			opts:        orchestration.PresentationOptions{Count: 10},
			contains:    []string{"Digests aggregated: 10", "Fastest strategy:   column", "1.5ms", "Fingerprint:"},
			notContains: []string{"Aggregate (hex"},
		},
		{
			name:     "truncated value",
			opts:     orchestration.PresentationOptions{Count: 10, ShowValue: true},
			contains: []string{"Aggregate (hex, 4032 bits)", "(truncated)", "Tip: use -v"},
		},
		{
			name:        "full value",
			opts:        orchestration.PresentationOptions{Count: 10, ShowValue: true, Verbose: true},
			contains:    []string{"Aggregate (hex, 4032 bits)"},
			notContains: []string{"(truncated)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			DisplayResult(sampleResult(), tt.opts, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, output)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(output, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestDisplayResult_ZeroAggregate(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayResult(orchestration.AggregationResult{Name: "sequential"}, orchestration.PresentationOptions{}, &buf)
	if !strings.Contains(buf.String(), "aggregate is zero") {
		t.Errorf("zero aggregate not flagged:\n%s", buf.String())
	}
}

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	res := sampleResult()

	if err := WriteResultToFile(res, 5, ""); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}

	path := filepath.Join(dir, "nested", "dir", "aggregate.txt")
	if err := WriteResultToFile(res, 5, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	s := string(content)
	for _, want := range []string{"# Strategy: column", "# Digests: 5", "# Fingerprint: " + FormatQuietResult(res.Result), res.Result.String()} {
		if !strings.Contains(s, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteResultToFile_InvalidPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteResultToFile(sampleResult(), 1, filepath.Join(blocker, "report.txt")); err == nil {
		t.Error("expected an error when the parent is a file")
	}
}

func TestDisplaySaved(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplaySaved(&buf, "Digest set", "set.msgpack")
	if !strings.Contains(buf.String(), "Digest set saved to: set.msgpack") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
