package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatSnapshot(snap *capture.Snapshot, rules *capture.RuleSet)
	FormatResolutions(res []env.Resolution)
	FormatRules(rules *capture.RuleSet)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush() error
}

// Options selects the writer and console behaviour for New.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New returns the formatter for format. An empty format is console.
func New(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", FormatConsole:
		consoleOpts := []ConsoleOption{
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		}
		if opts.Writer != nil {
			consoleOpts = append(consoleOpts, WithWriter(opts.Writer))
		}
		return NewConsoleFormatter(consoleOpts...), nil
	case FormatJSON:
		var jsonOpts []JSONOption
		if opts.Writer != nil {
			jsonOpts = append(jsonOpts, JSONWithWriter(opts.Writer))
		}
		return NewJSONFormatter(jsonOpts...), nil
	case FormatYAML, "yml":
		var yamlOpts []YAMLOption
		if opts.Writer != nil {
			yamlOpts = append(yamlOpts, YAMLWithWriter(opts.Writer))
		}
		return NewYAMLFormatter(yamlOpts...), nil
	}
	return nil, fmt.Errorf("unknown output format %q (expected console, json or yaml)", format)
}
