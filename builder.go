package reqguard

import (
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/sirpi-io/reqguard/identity"
	"github.com/sirpi-io/reqguard/internal/rate"
	"github.com/sirpi-io/reqguard/session"
)

// Builder defines a public type used by reqguard APIs.
//
// Builder is the composition root: every dependency the Engine needs is
// constructed here and injected explicitly. There is no ambient global
// state; two engines built against different Redis clients are fully
// independent.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	resolver identity.Resolver
	sink     AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New returns a Builder seeded with DefaultConfig. Construction is
// allocation-only; no I/O happens before Build.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the shared cache handle all limiter and session state
// lives in.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithResolver sets the credential resolver used by Login. Optional:
// an engine without a resolver still guards and rate-limits, but Login
// returns ErrEngineNotReady.
func (b *Builder) WithResolver(r identity.Resolver) *Builder {
	b.resolver = r
	return b
}

// WithAuditSink sets the audit sink. Defaults to NoOpSink when audit is
// enabled without one.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// Build validates the configuration and assembles the Engine.
// A Builder can build at most one Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	b.built = true

	unit, err := rate.ParseUnit(b.config.Limiter.Unit)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(
		b.redis,
		rate.Rate{Count: b.config.Limiter.Count, Unit: unit},
		b.config.Limiter.KeyPrefix,
		b.config.Limiter.CacheTimeout,
	)

	mutating := make(map[string]struct{}, len(b.config.Session.MutatingMethods))
	for _, m := range b.config.Session.MutatingMethods {
		mutating[strings.ToUpper(m)] = struct{}{}
	}

	return &Engine{
		config:   b.config,
		limiter:  limiter,
		sessions: session.NewStore(b.redis, b.config.Session.KeyPrefix),
		resolver: b.resolver,
		mutating: mutating,
		audit:    newAuditDispatcher(b.config.Audit, b.sink),
		metrics:  NewMetrics(),
	}, nil
}
