package template

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/respvar/packages/builtin"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/abdul-hamid-achik/respvar/packages/logging"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// RenderError lists the placeholders a strict render could not fill.
type RenderError struct {
	Unresolved []string
	Failed     []error
}

func (e *RenderError) Error() string {
	var parts []string
	if len(e.Unresolved) > 0 {
		parts = append(parts, "unresolved placeholders: "+strings.Join(e.Unresolved, ", "))
	}
	if len(e.Failed) > 0 {
		parts = append(parts, errors.Join(e.Failed...).Error())
	}
	return strings.Join(parts, "; ")
}

func (e *RenderError) Unwrap() []error {
	return e.Failed
}

type Renderer struct {
	funcs       *builtin.Registry
	environment env.Source
	logger      *slog.Logger
	strict      bool
}

type Option func(*Renderer)

func WithFuncs(funcs *builtin.Registry) Option {
	return func(r *Renderer) {
		r.funcs = funcs
	}
}

// WithEnvironment replaces the source for {{$NAME}} placeholders.
func WithEnvironment(s env.Source) Option {
	return func(r *Renderer) {
		r.environment = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// WithStrict makes Render fail when a placeholder cannot be filled. Otherwise
// such placeholders are left in place and logged.
func WithStrict(strict bool) Option {
	return func(r *Renderer) {
		r.strict = strict
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.funcs == nil {
		r.funcs = builtin.NewRegistry()
	}
	if r.environment == nil {
		r.environment = env.OSEnvironment("")
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

// Render replaces every placeholder in input. lookup may be nil, in which
// case only functions and environment placeholders resolve.
func (r *Renderer) Render(input string, lookup env.LookupFunc) (string, error) {
	var (
		unresolved []string
		failed     []error
	)

	out := placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		value, ok, err := r.resolve(expr, lookup)
		if err != nil {
			r.logger.Warn("placeholder function failed", "placeholder", expr, "error", err)
			failed = append(failed, err)
			return match
		}
		if !ok {
			r.logger.Warn("unresolved placeholder", "placeholder", expr)
			unresolved = append(unresolved, expr)
			return match
		}
		return value
	})

	if r.strict && (len(unresolved) > 0 || len(failed) > 0) {
		return out, &RenderError{Unresolved: unresolved, Failed: failed}
	}
	return out, nil
}

func (r *Renderer) resolve(expr string, lookup env.LookupFunc) (string, bool, error) {
	if name, ok := strings.CutPrefix(expr, "$"); ok {
		v, found := r.environment.Lookup(name)
		return v, found, nil
	}

	if builtin.IsCall(expr) {
		v, ok, err := r.funcs.Call(expr)
		if err != nil || ok {
			return v, ok, err
		}
	}

	if lookup == nil {
		return "", false, nil
	}
	v, ok := lookup(expr)
	return v, ok, nil
}

// Placeholders returns the distinct placeholder expressions in input, in
// order of first appearance.
func Placeholders(input string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if !seen[expr] {
			seen[expr] = true
			result = append(result, expr)
		}
	}
	return result
}
