package capture

import (
	"sync/atomic"

	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/abdul-hamid-achik/respvar/packages/http"
)

// Provider serves one polling task: it extracts values from each response and
// answers placeholder lookups from the latest usable snapshot, falling back to
// process properties and then environment variables.
//
// A snapshot that was skipped because the response could not be parsed does
// not replace the current one, so the previous cycle's values stay visible
// until a well-formed response arrives. Rules can be swapped from another
// goroutine with SetRules.
type Provider struct {
	extractor atomic.Pointer[Extractor]
	current   atomic.Pointer[Snapshot]
	resolver  *env.Resolver
	opts      []Option
	s         *settings
}

func NewProvider(rules *RuleSet, opts ...Option) *Provider {
	s := newSettings(opts)
	p := &Provider{
		resolver: s.resolver,
		opts:     opts,
		s:        s,
	}
	if p.resolver == nil {
		p.resolver = env.NewResolver(env.WithLogger(s.logger))
	}
	p.extractor.Store(NewExtractor(rules, opts...))
	return p
}

// ExtractValues extracts values from resp and, unless the response was
// malformed, makes them the current snapshot. The snapshot produced by this
// call is returned either way.
func (p *Provider) ExtractValues(req *http.Request, resp *http.Response) *Snapshot {
	snap := p.extractor.Load().Extract(req, resp)
	if snap.Skipped() {
		p.s.logger.Warn("extraction skipped, keeping previous values",
			"cycle", snap.ID(), "previous", p.current.Load().ID())
		return snap
	}
	p.current.Store(snap)
	return snap
}

// LookupValue resolves key through the extracted, property and environment
// tiers in that order.
func (p *Provider) LookupValue(key string) (string, bool) {
	return p.resolver.Lookup(p.values(), key)
}

// Resolve is LookupValue with the answering tier reported.
func (p *Provider) Resolve(key string) env.Resolution {
	return p.resolver.Resolve(p.values(), key)
}

// Snapshot returns the current snapshot, or nil before the first successful
// extraction.
func (p *Provider) Snapshot() *Snapshot {
	return p.current.Load()
}

func (p *Provider) Rules() *RuleSet {
	return p.extractor.Load().Rules()
}

// SetRules replaces the rule set and discards the current snapshot, whose
// keys belong to the old rules.
func (p *Provider) SetRules(rules *RuleSet) {
	p.extractor.Store(NewExtractor(rules, p.opts...))
	p.current.Store(nil)
	p.s.logger.Info("response variable rules replaced", "rules", rules.Len(), "rejected", len(rules.Rejected()))
}

// values returns the current snapshot as an env.Values, keeping a nil
// snapshot a nil interface.
func (p *Provider) values() env.Values {
	if snap := p.current.Load(); snap != nil {
		return snap
	}
	return nil
}
