package reqguard

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirpi-io/reqguard/identity"
	"github.com/sirpi-io/reqguard/session"
)

// Login resolves email/password through the configured identity resolver
// and creates a session under the issued token with the configured TTL.
// Returns the opaque bearer token the client must present on every
// subsequent request.
func (e *Engine) Login(ctx context.Context, email, password string) (string, error) {
	if e == nil || e.sessions == nil {
		return "", ErrEngineNotReady
	}
	if e.resolver == nil {
		return "", ErrEngineNotReady
	}

	token, err := e.resolver.Resolve(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			e.metricInc(MetricLoginFailure)
			e.auditEmit(ctx, AuditLoginFailure, email, false, ErrInvalidCredentials.Error())
			return "", ErrInvalidCredentials
		case errors.Is(err, identity.ErrClientCredentials):
			e.metricInc(MetricLoginFailure)
			e.auditEmit(ctx, AuditLoginFailure, email, false, ErrClientCredentials.Error())
			return "", ErrClientCredentials
		default:
			e.metricInc(MetricLoginFailure)
			e.auditEmit(ctx, AuditLoginUnavailable, email, false, err.Error())
			return "", fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
		}
	}

	rec := &session.Record{Email: email}
	if token.Subject != "" && token.Subject != email {
		rec.Attributes = map[string]string{"subject": token.Subject}
	}

	if err := e.sessions.Save(ctx, token.Value, rec, e.config.Session.TTL); err != nil {
		e.metricInc(MetricCacheError)
		e.auditEmit(ctx, AuditLoginUnavailable, email, false, err.Error())
		return "", fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionCreated)
	e.auditEmit(ctx, AuditLoginSuccess, email, true, "")

	return token.Value, nil
}

// Logout deletes the session behind the presented credential. Deleting
// an already-expired or unknown token succeeds; logout is idempotent.
func (e *Engine) Logout(ctx context.Context, credential string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	token, ok := bearerToken(credential)
	if !ok {
		return ErrMalformedBearer
	}

	if err := e.sessions.Delete(ctx, token); err != nil {
		e.metricInc(MetricCacheError)
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.metricInc(MetricSessionInvalidated)
	e.auditEmit(ctx, AuditLogout, "", true, "")

	return nil
}
