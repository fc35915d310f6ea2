package reqguard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirpi-io/reqguard/session"
)

// Authenticate resolves a presented credential to its cached session and,
// for mutating methods, enforces at-most-once processing per
// client-supplied request id.
//
// credential is the raw header or cookie value in the form
// "Bearer <token>". Session existence in the cache is the sole source of
// truth for token validity; an absent or undecodable record is
// ErrTokenInvalid regardless of method.
//
// The idempotency step is a single-hop check-then-write, not an atomic
// compare-and-swap: two concurrent mutating requests carrying distinct
// fresh ids for the same session can both pass. Replay protection only
// guarantees rejection of an exact repeat of the immediately preceding
// id. The write-back preserves the session's remaining TTL.
func (e *Engine) Authenticate(ctx context.Context, credential, method, requestID string) (*AuthResult, error) {
	if e == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}

	token, ok := bearerToken(credential)
	if !ok {
		e.metricInc(MetricAuthRejected)
		e.auditEmit(ctx, AuditAuthDeny, "", false, ErrMalformedBearer.Error())
		return nil, ErrMalformedBearer
	}

	rec, err := e.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrRedisUnavailable) {
			e.metricInc(MetricCacheError)
			e.auditEmit(ctx, AuditCacheUnavailable, "", false, err.Error())
			return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
		}
		e.metricInc(MetricAuthRejected)
		e.auditEmit(ctx, AuditAuthDeny, "", false, ErrTokenInvalid.Error())
		return nil, ErrTokenInvalid
	}

	if e.isMutating(method) {
		if requestID == "" {
			e.metricInc(MetricAuthRejected)
			e.auditEmit(ctx, AuditAuthDeny, rec.Email, false, ErrMissingRequestID.Error())
			return nil, ErrMissingRequestID
		}

		if requestID == rec.RequestID {
			e.metricInc(MetricDuplicateRequest)
			e.auditEmit(ctx, AuditAuthDeny, rec.Email, false, ErrDuplicateRequest.Error())
			return nil, ErrDuplicateRequest
		}

		if err := e.sessions.RotateRequestID(ctx, token, rec, requestID); err != nil {
			e.metricInc(MetricCacheError)
			e.auditEmit(ctx, AuditCacheUnavailable, rec.Email, false, err.Error())
			return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
		}
	}

	e.metricInc(MetricAuthSuccess)
	e.auditEmit(ctx, AuditAuthAllow, rec.Email, true, "")

	return &AuthResult{
		Token:   token,
		Session: rec,
	}, nil
}

// bearerToken splits "Bearer <token>" off a header or cookie value.
// The scheme comparison is case-insensitive; the token must be a single
// non-empty word.
func bearerToken(value string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(value), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsRune(token, ' ') {
		return "", false
	}

	return token, true
}
