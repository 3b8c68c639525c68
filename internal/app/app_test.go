package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/digestagg/internal/aggregator"
	"github.com/agbru/digestagg/internal/cli"
	"github.com/agbru/digestagg/internal/digest"
	"github.com/agbru/digestagg/internal/digestio"
	apperrors "github.com/agbru/digestagg/internal/errors"
	"github.com/agbru/digestagg/internal/generator"
	"github.com/agbru/digestagg/internal/logging"
)

// run builds an Application from args and runs it, returning the exit code
// and standard output.
func run(t *testing.T, ctx context.Context, args []string, opts ...AppOption) (int, string) {
	t.Helper()
	opts = append([]AppOption{WithLogger(logging.Nop)}, opts...)
	application, err := New(append([]string{"digestagg"}, args...), io.Discard, opts...)
	if err != nil {
		t.Fatalf("New(%v): %v", args, err)
	}
	var out bytes.Buffer
	code := application.Run(ctx, &out)
	return code, out.String()
}

func expectedFingerprint(seed uint64, n int) string {
	return cli.FormatQuietResult(generator.Expected(generator.New(seed).Random(n)))
}

func TestRun_CompareAll(t *testing.T) {
	code, out := run(t, context.Background(), []string{"-n", "50", "-no-color"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	for _, want := range []string{
		"Aggregating 50 digests",
		"Parallel comparison of 3 strategies",
		"Comparison Summary",
		"Global Status: Success",
		expectedFingerprint(1, 50),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_QuietPrintsOnlyFingerprint(t *testing.T) {
	code, out := run(t, context.Background(), []string{"-n", "20", "-seed", "9", "-strategy", "parallel", "-q"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if want := expectedFingerprint(9, 20) + "\n"; out != want {
		t.Errorf("quiet output = %q, want %q", out, want)
	}
}

func TestRun_SaveThenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.msgpack.zst")

	code, out := run(t, context.Background(), []string{"-n", "30", "-seed", "4", "-save", path, "-no-color"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("save run failed with %d:\n%s", code, out)
	}
	if !strings.Contains(out, "Digest set saved to: "+path) {
		t.Errorf("save not confirmed:\n%s", out)
	}

	saved, err := digestio.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(saved) != 30 {
		t.Fatalf("saved %d digests, want 30", len(saved))
	}

	code, out = run(t, context.Background(), []string{"-input", path, "-q"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("reload run failed with %d", code)
	}
	if want := expectedFingerprint(4, 30) + "\n"; out != want {
		t.Errorf("reloaded aggregate = %q, want %q", out, want)
	}
}

func TestRun_OutputReportAndMetrics(t *testing.T) {
	report := filepath.Join(t.TempDir(), "report.txt")
	code, out := run(t, context.Background(), []string{"-n", "10", "-o", report, "-metrics", "-v", "-no-color"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d:\n%s", code, out)
	}
	for _, want := range []string{
		"Aggregate report saved to: " + report,
		"Memory Stats:",
		`digestagg_aggregations_total{status="ok",strategy="column"} 1`,
		"digestagg_aggregation_duration_seconds_bucket",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	content, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(content), "# Digests: 10") {
		t.Errorf("unexpected report:\n%s", content)
	}
}

func TestRun_MissingInput(t *testing.T) {
	code, _ := run(t, context.Background(), []string{"-input", filepath.Join(t.TempDir(), "absent.msgpack")})
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code %d, want %d", code, apperrors.ExitErrorGeneric)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, _ := run(t, ctx, []string{"-n", "5", "-q"})
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

// liar returns a fixed, wrong aggregate.
type liar struct{}

func (liar) Name() string { return "liar" }

func (liar) Aggregate([]digest.Digest) (digest.Digest, error) {
	return digest.Digest{42}, nil
}

func TestRun_MismatchIsReported(t *testing.T) {
	registry := aggregator.NewRegistry()
	for _, s := range []aggregator.Strategy{aggregator.Sequential{}, liar{}} {
		if err := registry.Register(s); err != nil {
			t.Fatal(err)
		}
	}
	code, out := run(t, context.Background(), []string{"-n", "8", "-no-color"}, WithRegistry(registry))
	if code != apperrors.ExitErrorMismatch {
		t.Fatalf("exit code %d, want %d", code, apperrors.ExitErrorMismatch)
	}
	if !strings.Contains(out, "CRITICAL ERROR") {
		t.Errorf("mismatch not reported:\n%s", out)
	}
}

func TestRun_Completion(t *testing.T) {
	code, out := run(t, context.Background(), []string{"-completion", "bash"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out, `strategies="column parallel sequential all"`) {
		t.Errorf("unexpected completion script:\n%s", out)
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New([]string{"digestagg", "-h"}, io.Discard)
	if !IsHelpError(err) {
		t.Errorf("expected help error, got %v", err)
	}

	_, err = New([]string{"digestagg", "-strategy", "nope"}, io.Discard)
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

func TestNew_WorkersRebuildRegistry(t *testing.T) {
	application, err := New([]string{"digestagg", "-workers", "7"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	s, err := application.Registry.Get("parallel")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.(*aggregator.ParallelColumn).Workers(); got != 7 {
		t.Errorf("parallel strategy has %d workers, want 7", got)
	}
}

func TestVersion(t *testing.T) {
	if !HasVersionFlag([]string{"-n", "3", "--version"}) || HasVersionFlag([]string{"-v"}) {
		t.Error("HasVersionFlag misdetects the version flag")
	}
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "digestagg "+Version) {
		t.Errorf("unexpected version line %q", buf.String())
	}
}

func TestRun_TraceWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.json")

	code, out := run(t, context.Background(), []string{"-n", "10", "-trace", path, "-no-color"})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d, output:\n%s", code, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	spans := strings.Count(string(data), `"Name":"aggregate"`)
	if spans != 3 {
		t.Errorf("got %d aggregate spans, want one per strategy:\n%s", spans, data)
	}
	for _, strategy := range []string{"sequential", "column", "parallel"} {
		if !strings.Contains(string(data), strategy) {
			t.Errorf("no span for %s", strategy)
		}
	}
}
