package capture

import (
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/respvar/packages/core/env"
	"github.com/abdul-hamid-achik/respvar/packages/logging"
	"github.com/google/uuid"
)

type settings struct {
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	resolver *env.Resolver
}

// Option configures a RuleSet, Extractor or Provider.
type Option func(*settings)

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithClock sets the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// WithIDGenerator sets the function producing snapshot cycle IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *settings) {
		s.newID = fn
	}
}

// WithResolver sets the resolver a Provider answers lookups with.
func WithResolver(r *env.Resolver) Option {
	return func(s *settings) {
		s.resolver = r
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}
