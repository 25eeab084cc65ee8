package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/fatih/color"
)

// maxValueLen bounds values printed without --verbose.
const maxValueLen = 100

// formatValue truncates long values for display
func formatValue(v string, maxLen int) string {
	if maxLen > 0 && len(v) > maxLen {
		return v[:maxLen] + "..."
	}
	return v
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) value(v string) string {
	if f.verbose {
		return v
	}
	return formatValue(v, maxValueLen)
}

func (f *ConsoleFormatter) FormatSnapshot(snap *capture.Snapshot, rules *capture.RuleSet) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s %s\n", bold("Cycle:"), cyan(snap.ID()))

	if snap.Skipped() {
		fmt.Fprintf(f.writer, "  %s response skipped %s\n\n", red("x"), red(fmt.Sprintf("(%v)", snap.Err())))
		return
	}

	var found, missing, failed int
	for _, key := range snap.Keys() {
		outcome, _ := snap.Outcome(key)
		switch outcome.Kind() {
		case capture.KindFound:
			found++
			v, _ := outcome.Value()
			fmt.Fprintf(f.writer, "  %s %s = %s\n", green("✓"), key, f.value(v))
		case capture.KindNotFound:
			missing++
			fmt.Fprintf(f.writer, "  %s %s %s\n", yellow("-"), key, yellow("(not found)"))
		case capture.KindFailed:
			failed++
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), key, red(fmt.Sprintf("(%v)", outcome.Err())))
		}

		if f.verbose {
			if rule, ok := rules.Rule(key); ok {
				fmt.Fprintf(f.writer, "    Expression: %s\n", rule.Expression)
			}
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Variables: ")
	if found > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d found", found)))
	}
	if missing > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d not found", missing)))
	}
	if failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", snap.Len())
	if f.verbose {
		fmt.Fprintf(f.writer, "Time:      %s\n", snap.CreatedAt().Format("2006-01-02T15:04:05.000Z07:00"))
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatResolutions(res []env.Resolution) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, r := range res {
		if !r.Found() {
			fmt.Fprintf(f.writer, "  %s %s %s\n", yellow("-"), r.Key, yellow("(undefined)"))
			continue
		}
		fmt.Fprintf(f.writer, "  %s %s = %s %s\n", green("✓"), r.Key, f.value(r.Value), cyan("["+r.Tier.String()+"]"))
	}
}

func (f *ConsoleFormatter) FormatRules(rules *capture.RuleSet) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, rule := range rules.Rules() {
		fmt.Fprintf(f.writer, "  %s %s: %s\n", green("✓"), rule.Key, rule.Expression)
	}
	for _, rej := range rules.Rejected() {
		fmt.Fprintf(f.writer, "  %s %s: %s\n", red("✗"), rej.Key, red(rej.Err.Error()))
	}

	fmt.Fprintf(f.writer, "\nRules: %d valid", rules.Len())
	if n := len(rules.Rejected()); n > 0 {
		fmt.Fprintf(f.writer, ", %s", red(fmt.Sprintf("%d rejected", n)))
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("respvar"), version)
}
