package reqguard

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirpi-io/reqguard/internal/rate"
)

// Config defines a public type used by reqguard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Limiter LimiterConfig
	Session SessionConfig
	Audit   AuditConfig
}

/*
====================================
LIMITER CONFIG
====================================
*/

// LimiterConfig defines a public type used by reqguard APIs.
//
// LimiterConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LimiterConfig struct {
	// Count requests allowed per Unit window.
	Count int
	// Unit is one of "second", "minute", "hour", "day", "week".
	Unit string
	// KeyPrefix namespaces the Redis counter keys.
	KeyPrefix string
	// TrustedProxyHeader names the header the client IP is read from
	// before falling back to the socket peer address.
	TrustedProxyHeader string
	// FailOpen admits traffic when Redis is unreachable. Default is
	// fail-closed: the request fails with a server error rather than
	// silently allowing unlimited traffic.
	FailOpen bool
	// CacheTimeout bounds each evaluation's Redis round trips. A
	// timed-out operation counts as cache-unavailable, never as an
	// implicit allow. Zero disables the bound.
	CacheTimeout time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by reqguard APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// TTL is the fixed session lifetime written at login.
	TTL time.Duration
	// KeyPrefix namespaces session keys. Empty stores records under the
	// raw bearer token.
	KeyPrefix string
	// MutatingMethods is the set of HTTP verbs that require an
	// idempotency request id.
	MutatingMethods []string
	// RequestIDHeader names the header carrying the client-supplied
	// idempotency id.
	RequestIDHeader string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by reqguard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig returns the reference policy: 60 requests per minute per
// client/path pair, 6 hour sessions, idempotency enforced on
// POST/PUT/PATCH/DELETE.
func DefaultConfig() Config {
	return Config{
		Limiter: LimiterConfig{
			Count:              60,
			Unit:               string(rate.UnitMinute),
			KeyPrefix:          "limiter",
			TrustedProxyHeader: "X-Real-IP",
			FailOpen:           false,
			CacheTimeout:       500 * time.Millisecond,
		},
		Session: SessionConfig{
			TTL: 6 * time.Hour,
			MutatingMethods: []string{
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
			},
			RequestIDHeader: "X-Request-ID",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.MutatingMethods = append([]string(nil), cfg.Session.MutatingMethods...)
	return out
}

func validateConfig(cfg Config) error {
	if cfg.Limiter.Count <= 0 {
		return errors.New("limiter count must be > 0")
	}
	if _, err := rate.ParseUnit(cfg.Limiter.Unit); err != nil {
		return fmt.Errorf("limiter unit: %w", err)
	}
	if cfg.Limiter.CacheTimeout < 0 {
		return errors.New("limiter cache timeout must be >= 0")
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session ttl must be > 0")
	}
	if cfg.Session.RequestIDHeader == "" {
		return errors.New("session request id header must be set")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be > 0 when audit is enabled")
	}
	return nil
}
