// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult], [FormatHex].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/digestagg/internal/digest"
	"github.com/agbru/digestagg/internal/format"
	"github.com/agbru/digestagg/internal/orchestration"
	"github.com/agbru/digestagg/internal/ui"
)

// FormatQuietResult returns the single-line form of a result used by quiet
// mode: the 16-hex-digit fingerprint of the aggregate.
func FormatQuietResult(d digest.Digest) string {
	return fmt.Sprintf("%016x", d.Fingerprint())
}

// DisplayQuietResult prints FormatQuietResult followed by a newline.
func DisplayQuietResult(out io.Writer, result orchestration.AggregationResult) {
	fmt.Fprintln(out, FormatQuietResult(result.Result))
}

// FormatHex returns the big-endian hexadecimal form of d. Unless full is
// set, only the first and last HexDisplayEdges characters are kept.
func FormatHex(d digest.Digest, full bool) (hex string, truncated bool) {
	s := d.String()
	if full || len(s) <= 2*HexDisplayEdges {
		return s, false
	}
	return s[:HexDisplayEdges] + "..." + s[len(s)-HexDisplayEdges:], true
}

// DisplayResult prints the aggregate summary: strategy, duration,
// fingerprint, and the hexadecimal value when opts.ShowValue is set.
func DisplayResult(result orchestration.AggregationResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\n--- Aggregate ---\n")
	fmt.Fprintf(out, "Digests aggregated: %s%d%s (%s)\n",
		ui.ColorCyan(), opts.Count, ui.ColorReset(), format.FormatBytes(uint64(opts.Count)*digest.Size))
	fmt.Fprintf(out, "Fastest strategy:   %s%s%s in %s%s%s\n",
		ui.ColorGreen(), result.Name, ui.ColorReset(),
		ui.ColorYellow(), format.FormatExecutionDuration(result.Duration), ui.ColorReset())
	fmt.Fprintf(out, "Fingerprint:        %s%s%s\n", ui.ColorBold(), FormatQuietResult(result.Result), ui.ColorReset())
	if result.Result.IsZero() {
		fmt.Fprintf(out, "Note: the aggregate is zero.\n")
	}

	if !opts.ShowValue {
		return
	}
	hex, truncated := FormatHex(result.Result, opts.Verbose)
	fmt.Fprintf(out, "Aggregate (hex, %d bits):\n%s%s%s\n", digest.Width*digest.LimbBits, ui.ColorMagenta(), hex, ui.ColorReset())
	if truncated {
		fmt.Fprintf(out, "(truncated) Tip: use -v with -c to print all %d hex digits.\n", 2*digest.Size)
	}
}

// WriteResultToFile writes a text report of result to path, creating parent
// directories as needed. An empty path writes nothing.
func WriteResultToFile(result orchestration.AggregationResult, count int, path string) (err error) {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	fmt.Fprintf(file, "# Digest Aggregate\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Strategy: %s\n", result.Name)
	fmt.Fprintf(file, "# Duration: %s\n", result.Duration)
	fmt.Fprintf(file, "# Digests: %d\n", count)
	fmt.Fprintf(file, "# Fingerprint: %s\n", FormatQuietResult(result.Result))
	fmt.Fprintf(file, "\n")
	_, err = fmt.Fprintf(file, "%s\n", result.Result.String())
	return err
}

// DisplaySaved confirms that a file was written.
func DisplaySaved(out io.Writer, what, path string) {
	fmt.Fprintf(out, "%s%s saved to: %s%s%s\n", ui.ColorGreen(), what, ui.ColorCyan(), path, ui.ColorReset())
}
