package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell scripts are generated from flagRegistry, so adding a flag only
// requires appending to it.
type FlagCompletion struct {
	Long       string   // long flag name without dashes (e.g., "strategy")
	Short      string   // short flag without the dash (e.g., "n")
	Help       string   // description text
	Values     []string // suggested values (nil = boolean or free-form)
	ValueName  string   // label for the value in zsh (e.g., "count")
	IsFile     bool     // true if the flag takes a file path
	IsStrategy bool     // true if values come from the strategy registry
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Short: "n", Help: "Number of random digests to generate", ValueName: "count"},
	{Long: "seed", Help: "Seed of the digest generator", ValueName: "seed"},
	{Long: "strategy", Help: "Strategy to run", IsStrategy: true, ValueName: "strategy"},
	{Long: "workers", Help: "Workers of the parallel strategy", Values: []string{"0", "1", "3", "8", "21", "63"}, ValueName: "workers"},
	{Long: "input", Help: "Digest set file to aggregate", IsFile: true, ValueName: "file"},
	{Long: "save", Help: "Write the digest set to a file", IsFile: true, ValueName: "file"},
	{Long: "output", Short: "o", Help: "Write a report of the aggregate", IsFile: true, ValueName: "file"},
	{Long: "config", Help: "TOML configuration file", IsFile: true, ValueName: "file"},
	{Long: "trace", Help: "Write OpenTelemetry spans to a file", IsFile: true, ValueName: "file"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "verbose", Short: "v", Help: "Verbose output"},
	{Long: "quiet", Short: "q", Help: "Print only the fingerprint"},
	{Short: "c", Help: "Print the full aggregate in hexadecimal"},
	{Long: "metrics", Help: "Print Prometheus metrics after the run"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "theme", Help: "Color theme", Values: []string{"basic", "dark", "light", "none"}, ValueName: "theme"},
	{Long: "calibrate", Help: "Measure the parallel strategy and exit"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a bash, zsh or fish completion script to out,
// offering strategies as the values of -strategy.
func GenerateCompletion(out io.Writer, shell string, strategies []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(strategies)
	case "zsh":
		script = zshCompletion(strategies)
	case "fish":
		script = fishCompletion(strategies)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// flagNames returns the dashed spellings of f, long form first.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion(strategies []string) string {
	var opts []string
	var cases strings.Builder
	var filePatterns []string
	for _, f := range flagRegistry {
		names := flagNames(f)
		opts = append(opts, names...)
		var body string
		switch {
		case f.IsFile:
			filePatterns = append(filePatterns, names...)
			continue
		case f.IsStrategy:
			body = `COMPREPLY=( $(compgen -W "${strategies}" -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(names, "|"), body)
	}
	if len(filePatterns) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(filePatterns, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for digestagg
# Add this to your ~/.bashrc or ~/.bash_completion

_digestagg_completions() {
    local cur prev opts strategies
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    strategies="%s all"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _digestagg_completions digestagg
`, strings.Join(opts, " "), strings.Join(strategies, " "), cases.String())
}

func zshCompletion(strategies []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef digestagg

# Zsh completion script for digestagg
# Place this file in a directory listed in $fpath

_digestagg() {
    local -a strategies
    strategies=(%s all)

    _arguments -s \
%s
}

_digestagg "$@"
`, strings.Join(strategies, " "), strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsStrategy:
		valueSuffix = fmt.Sprintf(":%s:($strategies)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, valueSuffix)
}

func fishCompletion(strategies []string) string {
	lines := []string{
		"# Fish completion script for digestagg",
		"# Add this to ~/.config/fish/completions/digestagg.fish",
		"",
		"complete -c digestagg -f",
	}
	strategyList := strings.Join(strategies, " ")
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, strategyList))
	}
	return strings.Join(lines, "\n") + "\n"
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, strategyList string) string {
	parts := []string{"complete -c digestagg"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsStrategy:
		parts = append(parts, fmt.Sprintf("-xa '%s all'", strategyList))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
