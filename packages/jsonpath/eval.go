package jsonpath

import (
	"github.com/tidwall/gjson"
)

type evalContext struct {
	root gjson.Result
	expr string
}

// Read evaluates the path against doc and returns the matched nodes in
// document order. A path that does not exist in doc yields an empty list.
func (p *Path) Read(doc gjson.Result) ([]gjson.Result, error) {
	ctx := &evalContext{root: doc, expr: p.expr}
	return p.eval(ctx, doc)
}

// ReadString parses raw as JSON and evaluates the path against it. Malformed
// JSON is reported as an error.
func (p *Path) ReadString(raw string) ([]gjson.Result, error) {
	if !gjson.Valid(raw) {
		return nil, &EvalError{Expr: p.expr, Msg: "document is not valid JSON"}
	}
	return p.Read(gjson.Parse(raw))
}

// String returns the expression the path was compiled from.
func (p *Path) String() string {
	return p.expr
}

// IsDefinite reports whether the path can match at most one node.
func (p *Path) IsDefinite() bool {
	for _, seg := range p.segments {
		if seg.deep || !seg.sel.definite() {
			return false
		}
	}
	return true
}

func (p *Path) eval(ctx *evalContext, start gjson.Result) ([]gjson.Result, error) {
	if !start.Exists() {
		return nil, nil
	}

	nodes := []gjson.Result{start}
	for _, seg := range p.segments {
		var (
			next []gjson.Result
			err  error
		)
		for _, node := range nodes {
			if seg.deep {
				next, err = descend(ctx, seg.sel, node, next)
			} else {
				next, err = seg.sel.selectFrom(ctx, node, next)
			}
			if err != nil {
				return nil, err
			}
		}
		if len(next) == 0 {
			return nil, nil
		}
		nodes = next
	}

	if p.fn != fnNone {
		return applyFunction(ctx, p.fn, nodes)
	}
	return nodes, nil
}

// descend applies sel to node and then to every descendant, depth first.
func descend(ctx *evalContext, sel selector, node gjson.Result, out []gjson.Result) ([]gjson.Result, error) {
	out, err := sel.selectFrom(ctx, node, out)
	if err != nil {
		return nil, err
	}
	if !node.IsObject() && !node.IsArray() {
		return out, nil
	}
	node.ForEach(func(_, child gjson.Result) bool {
		out, err = descend(ctx, sel, child, out)
		return err == nil
	})
	return out, err
}

func (s nameSelector) selectFrom(_ *evalContext, node gjson.Result, out []gjson.Result) ([]gjson.Result, error) {
	if !node.IsObject() {
		return out, nil
	}
	for _, name := range s.names {
		if v, ok := member(node, name); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s nameSelector) definite() bool {
	return len(s.names) == 1
}

// member finds a key by exact match. Keys are compared after unescaping, so
// names containing gjson path syntax need no special treatment.
func member(node gjson.Result, name string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	node.ForEach(func(key, val gjson.Result) bool {
		if key.String() == name {
			found, ok = val, true
			return false
		}
		return true
	})
	return found, ok
}

func (s indexSelector) selectFrom(_ *evalContext, node gjson.Result, out []gjson.Result) ([]gjson.Result, error) {
	if !node.IsArray() {
		return out, nil
	}
	elems := node.Array()
	for _, idx := range s.indices {
		if idx < 0 {
			idx += len(elems)
		}
		if idx >= 0 && idx < len(elems) {
			out = append(out, elems[idx])
		}
	}
	return out, nil
}

func (s indexSelector) definite() bool {
	return len(s.indices) == 1
}

func (s sliceSelector) selectFrom(_ *evalContext, node gjson.Result, out []gjson.Result) ([]gjson.Result, error) {
	if !node.IsArray() {
		return out, nil
	}
	elems := node.Array()
	for _, i := range s.indices(len(elems)) {
		out = append(out, elems[i])
	}
	return out, nil
}

func (s sliceSelector) definite() bool {
	return false
}

// indices resolves the slice bounds against an array of length n using the
// usual start:end:step rules, where negative bounds count from the end.
func (s sliceSelector) indices(n int) []int {
	step := 1
	if s.step != nil {
		step = *s.step
	}

	var result []int
	if step > 0 {
		lower, upper := 0, n
		if s.start != nil {
			lower = clamp(normalize(*s.start, n), 0, n)
		}
		if s.end != nil {
			upper = clamp(normalize(*s.end, n), 0, n)
		}
		for i := lower; i < upper; i += step {
			result = append(result, i)
			if step >= upper-i {
				break
			}
		}
		return result
	}

	upper, lower := n-1, -1
	if s.start != nil {
		upper = clamp(normalize(*s.start, n), -1, n-1)
	}
	if s.end != nil {
		lower = clamp(normalize(*s.end, n), -1, n-1)
	}
	for i := upper; i > lower; i += step {
		result = append(result, i)
		if step <= lower-i {
			break
		}
	}
	return result
}

func normalize(i, n int) int {
	if i < 0 {
		return n + i
	}
	return i
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

func (wildcardSelector) selectFrom(_ *evalContext, node gjson.Result, out []gjson.Result) ([]gjson.Result, error) {
	if !node.IsObject() && !node.IsArray() {
		return out, nil
	}
	node.ForEach(func(_, child gjson.Result) bool {
		out = append(out, child)
		return true
	})
	return out, nil
}

func (wildcardSelector) definite() bool {
	return false
}

// selectFrom keeps the children of node (array elements or object member
// values) for which the predicate holds.
func (s filterSelector) selectFrom(ctx *evalContext, node gjson.Result, out []gjson.Result) ([]gjson.Result, error) {
	if !node.IsObject() && !node.IsArray() {
		return out, nil
	}
	var err error
	node.ForEach(func(_, child gjson.Result) bool {
		var ok bool
		ok, err = s.expr.test(ctx, child)
		if err != nil {
			return false
		}
		if ok {
			out = append(out, child)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (filterSelector) definite() bool {
	return false
}

func (e orExpr) test(ctx *evalContext, current gjson.Result) (bool, error) {
	ok, err := e.left.test(ctx, current)
	if err != nil || ok {
		return ok, err
	}
	return e.right.test(ctx, current)
}

func (e andExpr) test(ctx *evalContext, current gjson.Result) (bool, error) {
	ok, err := e.left.test(ctx, current)
	if err != nil || !ok {
		return false, err
	}
	return e.right.test(ctx, current)
}

func (e notExpr) test(ctx *evalContext, current gjson.Result) (bool, error) {
	ok, err := e.inner.test(ctx, current)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (e existsExpr) test(ctx *evalContext, current gjson.Result) (bool, error) {
	start := ctx.root
	if e.rel {
		start = current
	}
	nodes, err := e.query.eval(ctx, start)
	if err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

func (e compareExpr) test(ctx *evalContext, current gjson.Result) (bool, error) {
	left, err := e.left.resolve(ctx, current)
	if err != nil {
		return false, err
	}
	right, err := e.right.resolve(ctx, current)
	if err != nil {
		return false, err
	}
	return left.compare(e.op, right), nil
}

func (e matchExpr) test(ctx *evalContext, current gjson.Result) (bool, error) {
	left, err := e.left.resolve(ctx, current)
	if err != nil {
		return false, err
	}
	return left.kind == kindString && e.re.MatchString(left.str), nil
}

// resolve turns an operand into a single value. A query that matches no node,
// or more than one, resolves to nothing.
func (o operand) resolve(ctx *evalContext, current gjson.Result) (value, error) {
	if o.literal != nil {
		return *o.literal, nil
	}
	start := ctx.root
	if o.rel {
		start = current
	}
	nodes, err := o.query.eval(ctx, start)
	if err != nil {
		return value{}, err
	}
	if len(nodes) != 1 {
		return nothing(), nil
	}
	return valueOf(nodes[0]), nil
}
