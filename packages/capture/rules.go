package capture

import (
	"errors"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/respvar/packages/jsonpath"
)

// ErrNoExpression marks a listed variable that has no expression configured.
var ErrNoExpression = errors.New("no JSONPath expression configured")

// Rule binds a variable name to a compiled expression.
type Rule struct {
	Key        string
	Expression string
	path       *jsonpath.Path
}

// Path returns the compiled expression.
func (r Rule) Path() *jsonpath.Path {
	return r.path
}

// Rejection records a rule that was left out of a RuleSet.
type Rejection struct {
	Key        string
	Expression string
	Err        error
}

// RuleSet is an ordered, immutable set of compiled rules. A nil *RuleSet is
// an empty set.
type RuleSet struct {
	rules    []Rule
	rejected []Rejection
}

// NewRuleSet compiles the expression of every listed name, in list order.
//
// Blank and duplicate names are skipped. A name without an expression, or
// whose expression does not compile, is logged and rejected; the remaining
// rules are unaffected. Expressions for names that are not listed are
// ignored.
func NewRuleSet(names []string, expressions map[string]string, opts ...Option) *RuleSet {
	s := newSettings(opts)
	rs := &RuleSet{}
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			s.logger.Warn("blank response variable name ignored")
			continue
		}
		if seen[name] {
			s.logger.Warn("duplicate response variable ignored", "key", name)
			continue
		}
		seen[name] = true

		expr, ok := expressions[name]
		if !ok || strings.TrimSpace(expr) == "" {
			s.logger.Error("response variable has no JSONPath expression", "key", name)
			rs.rejected = append(rs.rejected, Rejection{Key: name, Err: ErrNoExpression})
			continue
		}

		path, err := jsonpath.Compile(expr)
		if err != nil {
			s.logger.Error("JSONPath expression could not be compiled",
				"key", name, "expression", expr, "error", err)
			rs.rejected = append(rs.rejected, Rejection{Key: name, Expression: expr, Err: err})
			continue
		}

		rs.rules = append(rs.rules, Rule{Key: name, Expression: expr, path: path})
	}

	var unlisted []string
	for key := range expressions {
		if !seen[key] {
			unlisted = append(unlisted, key)
		}
	}
	sort.Strings(unlisted)
	for _, key := range unlisted {
		s.logger.Debug("JSONPath expression ignored for unlisted variable", "key", key)
	}

	return rs
}

// Rules returns the active rules in order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Keys returns the names of the active rules in order.
func (rs *RuleSet) Keys() []string {
	if rs == nil {
		return nil
	}
	keys := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		keys[i] = r.Key
	}
	return keys
}

func (rs *RuleSet) Rule(key string) (Rule, bool) {
	if rs == nil {
		return Rule{}, false
	}
	for _, r := range rs.rules {
		if r.Key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// Rejected returns the rules that were left out, in list order.
func (rs *RuleSet) Rejected() []Rejection {
	if rs == nil {
		return nil
	}
	out := make([]Rejection, len(rs.rejected))
	copy(out, rs.rejected)
	return out
}

func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}
