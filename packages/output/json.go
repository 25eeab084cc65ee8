package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
)

// JSONFormatter formats extraction results as JSON
type JSONFormatter struct {
	writer io.Writer
	report report
	now    func() time.Time
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatSnapshot(snap *capture.Snapshot, rules *capture.RuleSet) {
	f.report.addSnapshot(snap, rules)
}

func (f *JSONFormatter) FormatResolutions(res []env.Resolution) {
	f.report.addResolutions(res)
}

func (f *JSONFormatter) FormatRules(rules *capture.RuleSet) {
	f.report.addRules(rules)
}

func (f *JSONFormatter) FormatError(err error) {
	f.report.addError(err)
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.report.take(f.now()))
}
