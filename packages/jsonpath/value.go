package jsonpath

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

type valueKind int

const (
	kindNothing valueKind = iota
	kindNull
	kindBool
	kindNumber
	kindString
	kindJSON
)

// value is a scalar view of a node used by filter comparisons. kindNothing
// stands for an operand whose query matched no node (or several).
type value struct {
	kind valueKind
	b    bool
	num  float64
	str  string
}

func nothing() value              { return value{kind: kindNothing} }
func nullValue() value            { return value{kind: kindNull} }
func boolValue(b bool) value      { return value{kind: kindBool, b: b} }
func stringValue(s string) value  { return value{kind: kindString, str: s} }
func numberValue(f float64) value { return value{kind: kindNumber, num: f} }

func valueOf(r gjson.Result) value {
	switch r.Type {
	case gjson.Null:
		return nullValue()
	case gjson.False:
		return boolValue(false)
	case gjson.True:
		return boolValue(true)
	case gjson.Number:
		return value{kind: kindNumber, num: r.Num}
	case gjson.String:
		return stringValue(r.Str)
	case gjson.JSON:
		return value{kind: kindJSON, str: compact(r)}
	}
	return nothing()
}

func (v value) equal(o value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindNothing, kindNull:
		return true
	case kindBool:
		return v.b == o.b
	case kindNumber:
		return v.num == o.num
	default:
		return v.str == o.str
	}
}

// compare reports whether v op o holds. Ordering is only defined between two
// numbers or two strings; every other ordering comparison is false.
func (v value) compare(op string, o value) bool {
	switch op {
	case "==":
		return v.equal(o)
	case "!=":
		return !v.equal(o)
	}

	var cmp int
	switch {
	case v.kind == kindNumber && o.kind == kindNumber:
		switch {
		case v.num < o.num:
			cmp = -1
		case v.num > o.num:
			cmp = 1
		}
	case v.kind == kindString && o.kind == kindString:
		switch {
		case v.str < o.str:
			cmp = -1
		case v.str > o.str:
			cmp = 1
		}
	default:
		return false
	}

	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// Text renders a matched node as plain text. Strings are unquoted, numbers
// keep their literal form from the document, true, false and null are written
// as such, and objects and arrays become compact JSON.
func Text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.JSON:
		return compact(r)
	}
	if r.Raw != "" {
		return r.Raw
	}
	return r.String()
}

// compact renders an object or array without insignificant whitespace.
func compact(r gjson.Result) string {
	return r.Get("@ugly").Raw
}

func numberResult(f float64) gjson.Result {
	raw := strconv.FormatFloat(f, 'f', -1, 64)
	return gjson.Result{Type: gjson.Number, Raw: raw, Num: f}
}

func stringResult(s string) gjson.Result {
	raw, _ := json.Marshal(s)
	return gjson.Result{Type: gjson.String, Raw: string(raw), Str: s}
}
