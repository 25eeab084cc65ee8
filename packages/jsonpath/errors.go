package jsonpath

import "fmt"

// SyntaxError reports an expression that could not be compiled.
type SyntaxError struct {
	Expr   string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonpath: %s at offset %d in %q", e.Msg, e.Offset, e.Expr)
}

// EvalError reports a compiled expression that could not be applied to a
// document.
type EvalError struct {
	Expr string
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("jsonpath: cannot evaluate %q: %s", e.Expr, e.Msg)
}
