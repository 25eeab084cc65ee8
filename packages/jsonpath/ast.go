package jsonpath

import (
	"regexp"

	"github.com/tidwall/gjson"
)

// Path is a compiled JSONPath expression. It is immutable and safe for
// concurrent use.
type Path struct {
	expr     string
	segments []segment
	fn       function
}

type segment struct {
	sel  selector
	deep bool
}

// selector picks nodes out of a single input node, appending them to out.
type selector interface {
	selectFrom(ctx *evalContext, node gjson.Result, out []gjson.Result) ([]gjson.Result, error)
	definite() bool
}

type nameSelector struct {
	names []string
}

type indexSelector struct {
	indices []int
}

type sliceSelector struct {
	start, end, step *int
}

type wildcardSelector struct{}

type filterSelector struct {
	expr filterExpr
}

type function int

const (
	fnNone function = iota
	fnLength
	fnSize
	fnMin
	fnMax
	fnSum
	fnAvg
	fnKeys
	fnFirst
	fnLast
)

var functionNames = map[string]function{
	"length": fnLength,
	"size":   fnSize,
	"min":    fnMin,
	"max":    fnMax,
	"sum":    fnSum,
	"avg":    fnAvg,
	"keys":   fnKeys,
	"first":  fnFirst,
	"last":   fnLast,
}

func (f function) String() string {
	for name, fn := range functionNames {
		if fn == f {
			return name + "()"
		}
	}
	return ""
}

// filterExpr is a node of a filter predicate, evaluated against the current
// node (@).
type filterExpr interface {
	test(ctx *evalContext, current gjson.Result) (bool, error)
}

type orExpr struct {
	left, right filterExpr
}

type andExpr struct {
	left, right filterExpr
}

type notExpr struct {
	inner filterExpr
}

type existsExpr struct {
	query *Path
	rel   bool
}

type compareExpr struct {
	left  operand
	op    string
	right operand
}

type matchExpr struct {
	left operand
	re   *regexp.Regexp
}

// operand is one side of a comparison: either an embedded query or a literal.
type operand struct {
	query   *Path
	rel     bool
	literal *value
}
