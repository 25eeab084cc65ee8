package env

import (
	"fmt"
	"log/slog"

	"github.com/abdul-hamid-achik/respvar/packages/logging"
)

// Values is the extracted tier of the chain, usually a capture.Snapshot.
// Value reports only keys that hold an actual value.
type Values interface {
	Value(key string) (string, bool)
}

// Tier identifies which source answered a lookup.
type Tier int

const (
	TierNone Tier = iota
	TierExtracted
	TierProperty
	TierEnvironment
)

func (t Tier) String() string {
	switch t {
	case TierExtracted:
		return "extracted"
	case TierProperty:
		return "property"
	case TierEnvironment:
		return "environment"
	default:
		return "none"
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	for _, candidate := range []Tier{TierNone, TierExtracted, TierProperty, TierEnvironment} {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", text)
}

// Resolution is the answer for one key together with the tier it came from.
type Resolution struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Tier  Tier   `json:"tier" yaml:"tier"`
}

// Found reports whether any tier held the key.
func (r Resolution) Found() bool {
	return r.Tier != TierNone
}

// LookupFunc answers a single placeholder; the boolean is false when the key
// has no value in any tier.
type LookupFunc func(key string) (string, bool)

// Resolver answers lookups by consulting the extracted values, then the
// process properties, then the environment. The order is fixed.
type Resolver struct {
	properties  Source
	environment Source
	logger      *slog.Logger
}

type ResolverOption func(*Resolver)

// WithProperties replaces the process properties tier.
func WithProperties(s Source) ResolverOption {
	return func(r *Resolver) {
		r.properties = s
	}
}

// WithEnvironment replaces the environment tier.
func WithEnvironment(s Source) ResolverOption {
	return func(r *Resolver) {
		r.environment = s
	}
}

func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		properties:  SystemProperties(),
		environment: OSEnvironment(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrDiscard(r.logger)
	return r
}

// Lookup returns the value for key. values may be nil when nothing has been
// extracted yet.
func (r *Resolver) Lookup(values Values, key string) (string, bool) {
	res := r.Resolve(values, key)
	return res.Value, res.Found()
}

// Resolve is Lookup with the answering tier reported.
func (r *Resolver) Resolve(values Values, key string) Resolution {
	if values != nil {
		if v, ok := values.Value(key); ok {
			return Resolution{Key: key, Value: v, Tier: TierExtracted}
		}
	}
	if r.properties != nil {
		if v, ok := r.properties.Lookup(key); ok {
			return Resolution{Key: key, Value: v, Tier: TierProperty}
		}
	}
	if r.environment != nil {
		if v, ok := r.environment.Lookup(key); ok {
			return Resolution{Key: key, Value: v, Tier: TierEnvironment}
		}
	}

	r.logger.Debug("unresolved variable", "key", key)
	return Resolution{Key: key}
}

// ResolveAll resolves keys in order.
func (r *Resolver) ResolveAll(values Values, keys []string) []Resolution {
	result := make([]Resolution, 0, len(keys))
	for _, k := range keys {
		result = append(result, r.Resolve(values, k))
	}
	return result
}

// Bind fixes the extracted tier so a renderer can be handed a plain
// LookupFunc for one cycle.
func (r *Resolver) Bind(values Values) LookupFunc {
	return func(key string) (string, bool) {
		return r.Lookup(values, key)
	}
}
