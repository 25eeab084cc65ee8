package jsonpath

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// applyFunction runs a trailing function over the nodes matched by the rest of
// the path. A single matched array is treated as the list of its elements.
func applyFunction(ctx *evalContext, fn function, nodes []gjson.Result) ([]gjson.Result, error) {
	switch fn {
	case fnLength, fnSize:
		n, err := length(nodes)
		if err != nil {
			return nil, ctx.errorf("%s: %v", fn, err)
		}
		return []gjson.Result{numberResult(float64(n))}, nil
	case fnKeys:
		if len(nodes) != 1 || !nodes[0].IsObject() {
			return nil, ctx.errorf("%s requires a single object", fn)
		}
		var keys []gjson.Result
		nodes[0].ForEach(func(key, _ gjson.Result) bool {
			keys = append(keys, stringResult(key.String()))
			return true
		})
		return keys, nil
	case fnFirst, fnLast:
		items := elements(nodes)
		if len(items) == 0 {
			return nil, nil
		}
		if fn == fnFirst {
			return items[:1], nil
		}
		return items[len(items)-1:], nil
	case fnMin, fnMax, fnSum, fnAvg:
		if len(nodes) == 1 && nodes[0].IsObject() {
			return nil, ctx.errorf("%s cannot aggregate an object", fn)
		}
		f, err := aggregate(fn, elements(nodes))
		if err != nil {
			return nil, ctx.errorf("%s: %v", fn, err)
		}
		return []gjson.Result{numberResult(f)}, nil
	}
	return nil, ctx.errorf("unsupported function")
}

func length(nodes []gjson.Result) (int, error) {
	if len(nodes) != 1 {
		return len(nodes), nil
	}
	node := nodes[0]
	switch {
	case node.IsArray():
		return len(node.Array()), nil
	case node.IsObject():
		n := 0
		node.ForEach(func(_, _ gjson.Result) bool {
			n++
			return true
		})
		return n, nil
	}
	return 0, fmt.Errorf("cannot take the length of a %s", node.Type)
}

func elements(nodes []gjson.Result) []gjson.Result {
	if len(nodes) == 1 && nodes[0].IsArray() {
		return nodes[0].Array()
	}
	return nodes
}

// aggregate folds the numeric items; other items are skipped. At least one
// number is required.
func aggregate(fn function, items []gjson.Result) (float64, error) {
	var (
		acc   float64
		count int
	)
	for _, item := range items {
		if item.Type != gjson.Number {
			continue
		}
		n := item.Num
		switch {
		case count == 0:
			acc = n
		case fn == fnMin && n < acc:
			acc = n
		case fn == fnMax && n > acc:
			acc = n
		case fn == fnSum || fn == fnAvg:
			acc += n
		}
		count++
	}
	if count == 0 {
		return 0, fmt.Errorf("no numeric values to aggregate")
	}
	if fn == fnAvg {
		return acc / float64(count), nil
	}
	return acc, nil
}

func (ctx *evalContext) errorf(format string, args ...any) error {
	return &EvalError{Expr: ctx.expr, Msg: fmt.Sprintf(format, args...)}
}
