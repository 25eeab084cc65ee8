package capture

import (
	"fmt"

	"github.com/abdul-hamid-achik/respvar/packages/http"
	"github.com/tidwall/gjson"
)

// maxLoggedPayload bounds how much of a malformed body ends up in the log.
const maxLoggedPayload = 512

// Extractor evaluates a RuleSet against responses. It holds no per-response
// state, so one Extractor may serve any number of cycles.
type Extractor struct {
	rules *RuleSet
	s     *settings
}

func NewExtractor(rules *RuleSet, opts ...Option) *Extractor {
	return &Extractor{
		rules: rules,
		s:     newSettings(opts),
	}
}

func (e *Extractor) Rules() *RuleSet {
	return e.rules
}

// Extract parses the response payload once and evaluates every rule against
// it. The request is only used for log context and may be nil.
//
// A payload that is not valid JSON, including an empty one or a nil response,
// produces a skipped snapshot with no outcomes.
func (e *Extractor) Extract(req *http.Request, resp *http.Response) *Snapshot {
	snap := &Snapshot{
		id:        e.s.newID(),
		createdAt: e.s.now(),
	}

	payload := resp.Payload()
	if !gjson.Valid(payload) {
		snap.err = ErrMalformedDocument
		e.s.logger.Error("response could not be parsed as JSON",
			"cycle", snap.id, "request", req.String(), "response", resp,
			"payload", truncate(payload, maxLoggedPayload))
		return snap
	}

	doc := gjson.Parse(payload)
	snap.keys = make([]string, 0, e.rules.Len())
	snap.outcomes = make(map[string]Outcome, e.rules.Len())

	for _, rule := range e.rules.Rules() {
		outcome := evaluate(rule, doc)
		snap.keys = append(snap.keys, rule.Key)
		snap.outcomes[rule.Key] = outcome

		switch outcome.Kind() {
		case KindFound:
			e.s.logger.Debug("variable assigned", "cycle", snap.id, "key", rule.Key, "value", outcome.value)
		case KindNotFound:
			e.s.logger.Debug("variable not found in response", "cycle", snap.id, "key", rule.Key, "expression", rule.Expression)
		case KindFailed:
			e.s.logger.Error("JSONPath expression could not be evaluated",
				"cycle", snap.id, "key", rule.Key, "expression", rule.Expression,
				"request", req.String(), "error", outcome.err)
		}
	}

	return snap
}

// evaluate runs one rule. Any panic raised while walking the document is
// reported as a failed outcome for this rule only.
func evaluate(rule Rule, doc gjson.Result) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed(fmt.Errorf("%w: %v", ErrEvaluationPanic, r))
		}
	}()

	nodes, err := rule.path.Read(doc)
	if err != nil {
		return Failed(err)
	}
	return outcomeOf(nodes)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
