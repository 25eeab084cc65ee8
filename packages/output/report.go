package output

import (
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
)

// Report is the document written by the JSON and YAML formatters.
type Report struct {
	Cycles      []ReportCycle    `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Resolutions []env.Resolution `json:"resolutions,omitempty" yaml:"resolutions,omitempty"`
	Rules       []ReportRule     `json:"rules,omitempty" yaml:"rules,omitempty"`
	Rejected    []ReportRule     `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Errors      []string         `json:"errors,omitempty" yaml:"errors,omitempty"`
	Time        string           `json:"time" yaml:"time"`
}

// ReportCycle represents one extraction
type ReportCycle struct {
	ID        string           `json:"id" yaml:"id"`
	CreatedAt string           `json:"createdAt" yaml:"createdAt"`
	Skipped   bool             `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Error     string           `json:"error,omitempty" yaml:"error,omitempty"`
	Variables []ReportVariable `json:"variables" yaml:"variables"`
}

// ReportVariable represents the outcome for one key
type ReportVariable struct {
	Key        string `json:"key" yaml:"key"`
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
	Status     string `json:"status" yaml:"status"`
	Value      string `json:"value,omitempty" yaml:"value,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportRule represents a configured rule
type ReportRule struct {
	Key        string `json:"key" yaml:"key"`
	Expression string `json:"expression" yaml:"expression"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// report accumulates formatter calls for the buffered formats.
type report struct {
	doc Report
}

func (r *report) addSnapshot(snap *capture.Snapshot, rules *capture.RuleSet) {
	cycle := ReportCycle{
		ID:        snap.ID(),
		CreatedAt: snap.CreatedAt().Format(time.RFC3339Nano),
		Skipped:   snap.Skipped(),
		Variables: make([]ReportVariable, 0, snap.Len()),
	}
	if err := snap.Err(); err != nil {
		cycle.Error = err.Error()
	}

	for _, key := range snap.Keys() {
		outcome, _ := snap.Outcome(key)
		v := ReportVariable{
			Key:    key,
			Status: outcome.Kind().String(),
		}
		if rule, ok := rules.Rule(key); ok {
			v.Expression = rule.Expression
		}
		if value, ok := outcome.Value(); ok {
			v.Value = value
		}
		if err := outcome.Err(); err != nil {
			v.Error = err.Error()
		}
		cycle.Variables = append(cycle.Variables, v)
	}

	r.doc.Cycles = append(r.doc.Cycles, cycle)
}

func (r *report) addResolutions(res []env.Resolution) {
	r.doc.Resolutions = append(r.doc.Resolutions, res...)
}

func (r *report) addRules(rules *capture.RuleSet) {
	for _, rule := range rules.Rules() {
		r.doc.Rules = append(r.doc.Rules, ReportRule{Key: rule.Key, Expression: rule.Expression})
	}
	for _, rej := range rules.Rejected() {
		r.doc.Rejected = append(r.doc.Rejected, ReportRule{Key: rej.Key, Expression: rej.Expression, Error: rej.Err.Error()})
	}
}

func (r *report) addError(err error) {
	r.doc.Errors = append(r.doc.Errors, err.Error())
}

// take returns the accumulated document and resets the buffer.
func (r *report) take(now time.Time) Report {
	doc := r.doc
	doc.Time = now.Format(time.RFC3339)
	r.doc = Report{}
	return doc
}
