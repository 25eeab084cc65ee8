package output

import (
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats extraction results as a YAML document
type YAMLFormatter struct {
	writer io.Writer
	report report
	now    func() time.Time
}

type YAMLOption func(*YAMLFormatter)

func NewYAMLFormatter(opts ...YAMLOption) *YAMLFormatter {
	f := &YAMLFormatter{
		writer: os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func YAMLWithWriter(w io.Writer) YAMLOption {
	return func(f *YAMLFormatter) {
		f.writer = w
	}
}

func (f *YAMLFormatter) FormatSnapshot(snap *capture.Snapshot, rules *capture.RuleSet) {
	f.report.addSnapshot(snap, rules)
}

func (f *YAMLFormatter) FormatResolutions(res []env.Resolution) {
	f.report.addResolutions(res)
}

func (f *YAMLFormatter) FormatRules(rules *capture.RuleSet) {
	f.report.addRules(rules)
}

func (f *YAMLFormatter) FormatError(err error) {
	f.report.addError(err)
}

func (f *YAMLFormatter) FormatHeader(version string) {}

// Flush writes the accumulated document
func (f *YAMLFormatter) Flush() error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(f.report.take(f.now())); err != nil {
		return err
	}
	return encoder.Close()
}
