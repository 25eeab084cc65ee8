package capture

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/http"
	"github.com/abdul-hamid-achik/respvar/packages/jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeting = `{"greeting": {"hail": "Hello", "name": "Big Ears"}}`

func respond(body string) *http.Response {
	return http.NewResponse(200, []byte(body))
}

func extract(t *testing.T, expressions map[string]string, names []string, body string) *Snapshot {
	t.Helper()
	rs := NewRuleSet(names, expressions)
	return NewExtractor(rs).Extract(http.NewRequest("GET", "http://example.com/greeting"), respond(body))
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		body      string
		wantKind  OutcomeKind
		wantValue string
	}{
		{
			name:      "one match",
			expr:      "$['greeting']['name']",
			body:      greeting,
			wantKind:  KindFound,
			wantValue: "Big Ears",
		},
		{
			name:      "multiple matches joined",
			expr:      "$['greeting']['name'][*]",
			body:      `{"greeting": {"hail": "Hello", "name": ["Big Ears", "Noddy"]}}`,
			wantKind:  KindFound,
			wantValue: "Big Ears,Noddy",
		},
		{
			name:     "empty array is not found",
			expr:     "$['greeting']['name'][*]",
			body:     `{"greeting": {"hail": "Hello", "name": []}}`,
			wantKind: KindNotFound,
		},
		{
			name:     "path not found",
			expr:     "$['greeting']['title']",
			body:     greeting,
			wantKind: KindNotFound,
		},
		{
			name:      "number keeps its literal form",
			expr:      "$.count",
			body:      `{"count": 42}`,
			wantKind:  KindFound,
			wantValue: "42",
		},
		{
			name:      "object is compacted",
			expr:      "$.greeting",
			body:      `{"greeting": { "hail" : "Hello" }}`,
			wantKind:  KindFound,
			wantValue: `{"hail":"Hello"}`,
		},
		{
			name:      "empty string is a value",
			expr:      "$.name",
			body:      `{"name": ""}`,
			wantKind:  KindFound,
			wantValue: "",
		},
		{
			name:      "null is a value",
			expr:      "$.name",
			body:      `{"name": null}`,
			wantKind:  KindFound,
			wantValue: "null",
		},
		{
			name:      "filter over objects",
			expr:      "$.items[?(@.enabled == true)].id",
			body:      `{"items": [{"id": 1, "enabled": true}, {"id": 2, "enabled": false}, {"id": 3, "enabled": true}]}`,
			wantKind:  KindFound,
			wantValue: "1,3",
		},
		{
			name:     "evaluation error",
			expr:     "$.names.sum()",
			body:     `{"names": ["x", "y"]}`,
			wantKind: KindFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := extract(t, map[string]string{"name": tt.expr}, []string{"name"}, tt.body)

			require.False(t, snap.Skipped())
			outcome, ok := snap.Outcome("name")
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, outcome.Kind())

			value, found := outcome.Value()
			assert.Equal(t, tt.wantKind == KindFound, found)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestExtractor_Extract_EvaluationErrorIsIsolated(t *testing.T) {
	snap := extract(t,
		map[string]string{
			"total": "$.names.sum()",
			"first": "$.names[0]",
		},
		[]string{"total", "first"},
		`{"names": ["x", "y"]}`,
	)

	total, ok := snap.Outcome("total")
	require.True(t, ok)
	assert.Equal(t, KindFailed, total.Kind())
	var evalErr *jsonpath.EvalError
	assert.ErrorAs(t, total.Err(), &evalErr)

	first, ok := snap.Value("first")
	assert.True(t, ok)
	assert.Equal(t, "x", first)
}

func TestExtractor_Extract_IllegalExpression(t *testing.T) {
	snap := extract(t, map[string]string{"name": "$['greeting].''']"}, []string{"name"}, greeting)

	assert.False(t, snap.Skipped())
	assert.Empty(t, snap.Keys())
	assert.Empty(t, snap.Values())
	_, ok := snap.Outcome("name")
	assert.False(t, ok)
}

func TestExtractor_Extract_MalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
	}{
		{name: "broken json", resp: respond(`{"greeting: {"hail" Hello", "name": "Big Ears""}}}`)},
		{name: "empty body", resp: respond("")},
		{name: "plain text", resp: respond("Big Ears")},
		{name: "nil response", resp: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRuleSet([]string{"name"}, map[string]string{"name": "$['greeting']['title']"})
			snap := NewExtractor(rs).Extract(nil, tt.resp)

			assert.True(t, snap.Skipped())
			assert.ErrorIs(t, snap.Err(), ErrMalformedDocument)
			assert.Empty(t, snap.Keys())
			assert.Empty(t, snap.Values())
			assert.Equal(t, 0, snap.Len())
		})
	}
}

func TestExtractor_Extract_KeysInRuleOrder(t *testing.T) {
	snap := extract(t,
		map[string]string{"b": "$.b", "a": "$.a", "c": "$.missing"},
		[]string{"b", "a", "c"},
		`{"a": 1, "b": 2}`,
	)

	assert.Equal(t, []string{"b", "a", "c"}, snap.Keys())
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, snap.Values())
}

func TestExtractor_Extract_Stamps(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rs := NewRuleSet([]string{"name"}, map[string]string{"name": "$.greeting.name"})
	e := NewExtractor(rs,
		WithClock(func() time.Time { return at }),
		WithIDGenerator(func() string { return "cycle-1" }),
	)

	snap := e.Extract(nil, respond(greeting))

	assert.Equal(t, "cycle-1", snap.ID())
	assert.Equal(t, at, snap.CreatedAt())
}

func TestExtractor_Extract_UniqueCycleIDs(t *testing.T) {
	e := NewExtractor(NewRuleSet(nil, nil))

	first := e.Extract(nil, respond("{}"))
	second := e.Extract(nil, respond("{}"))

	assert.NotEmpty(t, first.ID())
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestExtractor_Extract_LogsMalformedPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := NewExtractor(NewRuleSet(nil, nil), WithLogger(logger))

	resp := respond("not json " + strings.Repeat("x", 1000))
	resp.Headers["Content-Type"] = "text/plain"
	e.Extract(http.NewRequest("GET", "http://example.com/x"), resp)

	out := buf.String()
	assert.Contains(t, out, "response could not be parsed as JSON")
	assert.Contains(t, out, "GET http://example.com/x")
	assert.Contains(t, out, "response.content_type=text/plain")
	assert.NotContains(t, out, strings.Repeat("x", 600))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "found(Big Ears)", Found("Big Ears").String())
	assert.Equal(t, "not_found", NotFound().String())
	assert.Equal(t, "failed(boom)", Failed(errors.New("boom")).String())
	assert.Equal(t, "found", KindFound.String())
	assert.Equal(t, "failed", KindFailed.String())
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestSnapshot_Nil(t *testing.T) {
	var s *Snapshot

	assert.Empty(t, s.ID())
	assert.True(t, s.CreatedAt().IsZero())
	assert.False(t, s.Skipped())
	assert.NoError(t, s.Err())
	assert.Nil(t, s.Keys())
	assert.Empty(t, s.Values())
	assert.Equal(t, 0, s.Len())
	_, ok := s.Value("name")
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
