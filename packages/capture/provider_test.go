package capture

import (
	"sync"
	"testing"

	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/abdul-hamid-achik/respvar/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(expressions map[string]string, props, environ env.MapSource) *Provider {
	names := make([]string, 0, len(expressions))
	for k := range expressions {
		names = append(names, k)
	}
	resolver := env.NewResolver(env.WithProperties(props), env.WithEnvironment(environ))
	return NewProvider(NewRuleSet(names, expressions), WithResolver(resolver))
}

func TestProvider_LookupValue(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		props     env.MapSource
		environ   env.MapSource
		key       string
		wantValue string
		wantFound bool
		wantTier  env.Tier
	}{
		{
			name:      "extracted",
			body:      greeting,
			key:       "name",
			wantValue: "Big Ears",
			wantFound: true,
			wantTier:  env.TierExtracted,
		},
		{
			name:      "extracted wins over property",
			body:      greeting,
			props:     env.MapSource{"name": "from property"},
			key:       "name",
			wantValue: "Big Ears",
			wantFound: true,
			wantTier:  env.TierExtracted,
		},
		{
			name:      "not found falls through to property",
			body:      `{"greeting": {}}`,
			props:     env.MapSource{"name": "from property"},
			key:       "name",
			wantValue: "from property",
			wantFound: true,
			wantTier:  env.TierProperty,
		},
		{
			name:      "property",
			body:      greeting,
			props:     env.MapSource{"test": "yeah"},
			key:       "test",
			wantValue: "yeah",
			wantFound: true,
			wantTier:  env.TierProperty,
		},
		{
			name:      "property wins over environment",
			body:      greeting,
			props:     env.MapSource{"test": "yeah"},
			environ:   env.MapSource{"test": "nope"},
			key:       "test",
			wantValue: "yeah",
			wantFound: true,
			wantTier:  env.TierProperty,
		},
		{
			name:      "environment",
			body:      greeting,
			environ:   env.MapSource{"test": "env"},
			key:       "test",
			wantValue: "env",
			wantFound: true,
			wantTier:  env.TierEnvironment,
		},
		{
			name:     "not defined",
			body:     greeting,
			key:      "test",
			wantTier: env.TierNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(map[string]string{"name": "$['greeting']['name']"}, tt.props, tt.environ)
			p.ExtractValues(nil, respond(tt.body))

			value, found := p.LookupValue(tt.key)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantValue, value)

			res := p.Resolve(tt.key)
			assert.Equal(t, tt.wantTier, res.Tier)
			assert.Equal(t, tt.key, res.Key)
		})
	}
}

func TestProvider_LookupValue_BeforeExtraction(t *testing.T) {
	p := newTestProvider(map[string]string{"name": "$.name"}, env.MapSource{"name": "default"}, nil)

	assert.Nil(t, p.Snapshot())
	value, found := p.LookupValue("name")
	assert.True(t, found)
	assert.Equal(t, "default", value)
}

func TestProvider_LookupValue_SystemProperties(t *testing.T) {
	env.SetProperty("respvar.provider.test", "yeah")
	t.Cleanup(func() { env.ClearProperty("respvar.provider.test") })

	p := NewProvider(NewRuleSet(nil, nil))

	value, found := p.LookupValue("respvar.provider.test")
	assert.True(t, found)
	assert.Equal(t, "yeah", value)

	env.ClearProperty("respvar.provider.test")
	_, found = p.LookupValue("respvar.provider.test")
	assert.False(t, found)
}

func TestProvider_ExtractValues_KeepsPreviousOnMalformed(t *testing.T) {
	p := newTestProvider(map[string]string{"name": "$.greeting.name"}, nil, nil)

	first := p.ExtractValues(nil, respond(greeting))
	require.False(t, first.Skipped())

	skipped := p.ExtractValues(nil, respond(`{"greeting: {"hail" Hello"`))
	assert.True(t, skipped.Skipped())
	assert.Same(t, first, p.Snapshot())

	value, found := p.LookupValue("name")
	assert.True(t, found)
	assert.Equal(t, "Big Ears", value)

	next := p.ExtractValues(nil, respond(`{"greeting": {"name": "Noddy"}}`))
	assert.Same(t, next, p.Snapshot())
	value, _ = p.LookupValue("name")
	assert.Equal(t, "Noddy", value)
}

func TestProvider_ExtractValues_ReplacesWholeSnapshot(t *testing.T) {
	p := newTestProvider(map[string]string{"name": "$.greeting.name"}, nil, nil)

	p.ExtractValues(nil, respond(greeting))
	p.ExtractValues(nil, respond(`{"greeting": {}}`))

	_, found := p.LookupValue("name")
	assert.False(t, found)
	outcome, ok := p.Snapshot().Outcome("name")
	require.True(t, ok)
	assert.Equal(t, KindNotFound, outcome.Kind())
}

func TestProvider_SetRules(t *testing.T) {
	p := newTestProvider(map[string]string{"name": "$.greeting.name"}, nil, nil)
	p.ExtractValues(nil, respond(greeting))
	require.NotNil(t, p.Snapshot())

	p.SetRules(NewRuleSet([]string{"hail"}, map[string]string{"hail": "$.greeting.hail"}))

	assert.Nil(t, p.Snapshot())
	assert.Equal(t, []string{"hail"}, p.Rules().Keys())
	_, found := p.LookupValue("name")
	assert.False(t, found)

	p.ExtractValues(nil, respond(greeting))
	value, found := p.LookupValue("hail")
	assert.True(t, found)
	assert.Equal(t, "Hello", value)
}

func TestProvider_EndToEnd(t *testing.T) {
	tests := []struct {
		name string
		expr string
		body string
		want string
	}{
		{
			name: "single value",
			expr: "$.greeting.name",
			body: greeting,
			want: "Big Ears",
		},
		{
			name: "multiple values",
			expr: "$.greeting.name[*]",
			body: `{"greeting": {"hail": "Hello", "name": ["Big Ears", "Noddy"]}}`,
			want: "Big Ears,Noddy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(map[string]string{"name": tt.expr}, nil, nil)
			req := http.NewRequest("GET", "http://example.com/greeting")

			snap := p.ExtractValues(req, http.NewResponse(200, []byte(tt.body)))

			value, ok := snap.Value("name")
			require.True(t, ok)
			assert.Equal(t, tt.want, value)
			value, ok = p.LookupValue("name")
			require.True(t, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestProvider_ConcurrentLookups(t *testing.T) {
	p := newTestProvider(map[string]string{"name": "$.greeting.name"}, nil, nil)
	p.ExtractValues(nil, respond(greeting))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if v, ok := p.LookupValue("name"); ok {
					assert.Contains(t, []string{"Big Ears", "Noddy"}, v)
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		p.ExtractValues(nil, respond(`{"greeting": {"name": "Noddy"}}`))
		p.ExtractValues(nil, respond(greeting))
	}
	wg.Wait()
}
