package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/digestagg/internal/aggregator"
	"github.com/agbru/digestagg/internal/config"
	"github.com/agbru/digestagg/internal/sysmon"
	"github.com/agbru/digestagg/internal/ui"
)

// PrintExecutionConfig displays where the digests come from, the timeout,
// the environment and the parallel worker count.
func PrintExecutionConfig(cfg config.AppConfig, count int, out io.Writer) {
	source := fmt.Sprintf("generated with seed %d", cfg.Seed)
	if cfg.Input != "" {
		source = "read from " + cfg.Input
	}
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Aggregating %s%d digests%s (%s) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), count, ui.ColorReset(), source, ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "CPU features: %s%s%s.\n", ui.ColorCyan(), sysmon.CPUFeatureString(), ui.ColorReset())
	fmt.Fprintf(out, "Parallel strategy: %s%d%s workers.\n", ui.ColorCyan(), cfg.Workers, ui.ColorReset())
}

// PrintExecutionMode displays whether one strategy runs or several are
// compared.
func PrintExecutionMode(strategies []aggregator.Strategy, out io.Writer) {
	var modeDesc string
	if len(strategies) > 1 {
		modeDesc = fmt.Sprintf("Parallel comparison of %d strategies", len(strategies))
	} else {
		modeDesc = fmt.Sprintf("Single run of the %s%s%s strategy",
			ui.ColorGreen(), strategies[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
