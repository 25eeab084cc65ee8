package capture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/jsonpath"
	"github.com/tidwall/gjson"
)

// MultiValueSeparator joins the values of an expression matching several
// nodes.
const MultiValueSeparator = ","

var (
	// ErrMalformedDocument marks a response body that is not valid JSON.
	ErrMalformedDocument = errors.New("response body is not valid JSON")

	// ErrEvaluationPanic marks an expression whose evaluation panicked.
	ErrEvaluationPanic = errors.New("JSONPath evaluation panicked")
)

type OutcomeKind int

const (
	KindNotFound OutcomeKind = iota
	KindFound
	KindFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindFailed:
		return "failed"
	default:
		return "not_found"
	}
}

// Outcome is the result of evaluating one rule against one response. Only a
// Found outcome carries a value.
type Outcome struct {
	kind  OutcomeKind
	value string
	err   error
}

func Found(value string) Outcome {
	return Outcome{kind: KindFound, value: value}
}

func NotFound() Outcome {
	return Outcome{kind: KindNotFound}
}

func Failed(err error) Outcome {
	return Outcome{kind: KindFailed, err: err}
}

func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

func (o Outcome) Value() (string, bool) {
	return o.value, o.kind == KindFound
}

func (o Outcome) Err() error {
	return o.err
}

func (o Outcome) String() string {
	switch o.kind {
	case KindFound:
		return fmt.Sprintf("found(%s)", o.value)
	case KindFailed:
		return fmt.Sprintf("failed(%v)", o.err)
	default:
		return "not_found"
	}
}

// outcomeOf joins the text of every matched node in document order.
func outcomeOf(nodes []gjson.Result) Outcome {
	if len(nodes) == 0 {
		return NotFound()
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = jsonpath.Text(n)
	}
	return Found(strings.Join(parts, MultiValueSeparator))
}

// Snapshot holds the outcome of every rule for one response. It is never
// modified after Extract returns it.
type Snapshot struct {
	id        string
	createdAt time.Time
	keys      []string
	outcomes  map[string]Outcome
	err       error
}

func (s *Snapshot) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

func (s *Snapshot) CreatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.createdAt
}

// Skipped reports whether the response could not be parsed, in which case
// the snapshot holds no outcomes.
func (s *Snapshot) Skipped() bool {
	return s != nil && s.err != nil
}

// Err returns the document error of a skipped snapshot.
func (s *Snapshot) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Keys returns the evaluated keys in rule order.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Outcome returns the outcome for key. The boolean is false when no rule
// for key was evaluated, which tells an unknown key apart from NotFound.
func (s *Snapshot) Outcome(key string) (Outcome, bool) {
	if s == nil {
		return Outcome{}, false
	}
	o, ok := s.outcomes[key]
	return o, ok
}

// Value implements env.Values. Only Found outcomes yield a value.
func (s *Snapshot) Value(key string) (string, bool) {
	o, ok := s.Outcome(key)
	if !ok {
		return "", false
	}
	return o.Value()
}

// Values returns the found values keyed by name.
func (s *Snapshot) Values() map[string]string {
	result := make(map[string]string)
	if s == nil {
		return result
	}
	for k, o := range s.outcomes {
		if v, ok := o.Value(); ok {
			result[k] = v
		}
	}
	return result
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
