package capture

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/abdul-hamid-achik/respvar/packages/jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleSet(t *testing.T) {
	tests := []struct {
		name         string
		names        []string
		expressions  map[string]string
		wantKeys     []string
		wantRejected []string
	}{
		{
			name:        "single rule",
			names:       []string{"name"},
			expressions: map[string]string{"name": "$['greeting']['name']"},
			wantKeys:    []string{"name"},
		},
		{
			name:  "keeps list order",
			names: []string{"b", "a", "c"},
			expressions: map[string]string{
				"a": "$.a",
				"b": "$.b",
				"c": "$.c",
			},
			wantKeys: []string{"b", "a", "c"},
		},
		{
			name:  "illegal expression rejected",
			names: []string{"name", "hail"},
			expressions: map[string]string{
				"name": "$['greeting].''']",
				"hail": "$.greeting.hail",
			},
			wantKeys:     []string{"hail"},
			wantRejected: []string{"name"},
		},
		{
			name:         "missing expression rejected",
			names:        []string{"name", "other"},
			expressions:  map[string]string{"other": "$.other"},
			wantKeys:     []string{"other"},
			wantRejected: []string{"name"},
		},
		{
			name:         "blank expression rejected",
			names:        []string{"name"},
			expressions:  map[string]string{"name": "   "},
			wantRejected: []string{"name"},
		},
		{
			name:        "duplicate names keep the first",
			names:       []string{"name", "name"},
			expressions: map[string]string{"name": "$.name"},
			wantKeys:    []string{"name"},
		},
		{
			name:        "blank names skipped",
			names:       []string{"", " ", "name"},
			expressions: map[string]string{"name": "$.name"},
			wantKeys:    []string{"name"},
		},
		{
			name:  "unlisted expressions ignored",
			names: []string{"name"},
			expressions: map[string]string{
				"name":   "$.name",
				"hidden": "$.hidden",
			},
			wantKeys: []string{"name"},
		},
		{
			name:        "no names",
			expressions: map[string]string{"name": "$.name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRuleSet(tt.names, tt.expressions)

			keys := rs.Keys()
			if len(tt.wantKeys) == 0 {
				assert.Empty(t, keys)
			} else {
				assert.Equal(t, tt.wantKeys, keys)
			}
			assert.Equal(t, len(tt.wantKeys), rs.Len())

			var rejected []string
			for _, r := range rs.Rejected() {
				rejected = append(rejected, r.Key)
			}
			assert.Equal(t, tt.wantRejected, rejected)
		})
	}
}

func TestNewRuleSet_RejectionErrors(t *testing.T) {
	rs := NewRuleSet([]string{"bad", "missing"}, map[string]string{"bad": "$[?(@.a ==]"})

	rejected := rs.Rejected()
	require.Len(t, rejected, 2)

	assert.Equal(t, "bad", rejected[0].Key)
	assert.Equal(t, "$[?(@.a ==]", rejected[0].Expression)
	var syntaxErr *jsonpath.SyntaxError
	assert.ErrorAs(t, rejected[0].Err, &syntaxErr)

	assert.Equal(t, "missing", rejected[1].Key)
	assert.ErrorIs(t, rejected[1].Err, ErrNoExpression)
}

func TestNewRuleSet_LogsProblems(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewRuleSet(
		[]string{"name", "name", "missing", "bad"},
		map[string]string{"name": "$.name", "bad": "$[", "extra": "$.extra"},
		WithLogger(logger),
	)

	out := buf.String()
	assert.Contains(t, out, "duplicate response variable ignored")
	assert.Contains(t, out, "response variable has no JSONPath expression")
	assert.Contains(t, out, "JSONPath expression could not be compiled")
	assert.Contains(t, out, "key=extra")
}

func TestRuleSet_Rule(t *testing.T) {
	rs := NewRuleSet([]string{"name"}, map[string]string{"name": "greeting.name"})

	rule, ok := rs.Rule("name")
	require.True(t, ok)
	assert.Equal(t, "greeting.name", rule.Expression)
	require.NotNil(t, rule.Path())
	assert.Equal(t, "greeting.name", rule.Path().String())

	_, ok = rs.Rule("other")
	assert.False(t, ok)
}

func TestRuleSet_Nil(t *testing.T) {
	var rs *RuleSet

	assert.Nil(t, rs.Rules())
	assert.Nil(t, rs.Keys())
	assert.Nil(t, rs.Rejected())
	assert.Equal(t, 0, rs.Len())
	_, ok := rs.Rule("name")
	assert.False(t, ok)
}

func TestRuleSet_RulesIsACopy(t *testing.T) {
	rs := NewRuleSet([]string{"a"}, map[string]string{"a": "$.a"})

	rules := rs.Rules()
	rules[0].Key = "changed"

	assert.Equal(t, []string{"a"}, rs.Keys())
}
