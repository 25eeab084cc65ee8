package template

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/builtin"
	"github.com/abdul-hamid-achik/respvar/packages/capture"
	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/abdul-hamid-achik/respvar/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(opts ...Option) *Renderer {
	funcs := builtin.NewRegistry(builtin.WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	}))
	base := []Option{
		WithFuncs(funcs),
		WithEnvironment(env.MapSource{"HOME": "/home/test"}),
	}
	return NewRenderer(append(base, opts...)...)
}

func TestRender(t *testing.T) {
	lookup := env.MapSource{"name": "Big Ears", "id": "42"}.Lookup

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no placeholders", input: "plain text", want: "plain text"},
		{name: "lookup", input: `{"user": "{{name}}"}`, want: `{"user": "Big Ears"}`},
		{name: "whitespace trimmed", input: "/users/{{ id }}", want: "/users/42"},
		{name: "repeated", input: "{{id}}-{{id}}", want: "42-42"},
		{name: "function", input: "t={{timestamp()}}", want: "t=1714566600"},
		{name: "function with args", input: `{{base64("user:pass")}}`, want: "dXNlcjpwYXNz"},
		{name: "environment", input: "{{$HOME}}/data", want: "/home/test/data"},
		{name: "unresolved left in place", input: "{{missing}} and {{name}}", want: "{{missing}} and Big Ears"},
		{name: "unknown function falls back to lookup", input: "{{nope()}}", want: "{{nope()}}"},
	}

	r := newTestRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.input, lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_NilLookup(t *testing.T) {
	r := newTestRenderer()

	got, err := r.Render("{{$HOME}} {{name}}", nil)

	require.NoError(t, err)
	assert.Equal(t, "/home/test {{name}}", got)
}

func TestRender_Strict(t *testing.T) {
	r := newTestRenderer(WithStrict(true))
	lookup := env.MapSource{"name": "Big Ears"}.Lookup

	got, err := r.Render(`{{name}} {{missing}} {{$UNSET}} {{base64Decode("%%%")}}`, lookup)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, []string{"missing", "$UNSET"}, renderErr.Unresolved)
	require.Len(t, renderErr.Failed, 1)
	assert.Contains(t, err.Error(), "unresolved placeholders: missing, $UNSET")
	assert.Contains(t, err.Error(), "base64Decode()")
	assert.Equal(t, `Big Ears {{missing}} {{$UNSET}} {{base64Decode("%%%")}}`, got)
}

func TestRender_FunctionRangeErrors(t *testing.T) {
	r := newTestRenderer(WithStrict(true))

	input := "{{random(-9223372036854775808, 9223372036854775807)}}"
	got, err := r.Render(input, nil)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	require.Len(t, renderErr.Failed, 1)
	assert.Contains(t, err.Error(), "too wide")
	assert.Equal(t, input, got)
}

func TestRender_StrictAllResolved(t *testing.T) {
	r := newTestRenderer(WithStrict(true))

	got, err := r.Render("{{upper(abc)}}", nil)

	require.NoError(t, err)
	assert.Equal(t, "ABC", got)
}

func TestRender_LogsUnresolved(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := newTestRenderer(WithLogger(logger))

	_, err := r.Render("{{missing}}", nil)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "unresolved placeholder")
	assert.Contains(t, buf.String(), "placeholder=missing")
}

func TestRender_WithProvider(t *testing.T) {
	env.SetProperty("respvar.template.test", "yeah")
	t.Cleanup(func() { env.ClearProperty("respvar.template.test") })

	p := capture.NewProvider(capture.NewRuleSet(
		[]string{"name"},
		map[string]string{"name": "$.greeting.name"},
	))
	p.ExtractValues(nil, http.NewResponse(200, []byte(`{"greeting": {"name": "Noddy"}}`)))

	r := newTestRenderer(WithStrict(true))
	got, err := r.Render("Hello {{name}}, {{respvar.template.test}}", p.LookupValue)

	require.NoError(t, err)
	assert.Equal(t, "Hello Noddy, yeah", got)
}

func TestRenderError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &RenderError{Failed: []error{cause}}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", err.Error())
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{{a}} {{ b }} {{a}} {{uuid()}} {not} {{}}")
	assert.Equal(t, []string{"a", "b", "uuid()"}, got)
}
