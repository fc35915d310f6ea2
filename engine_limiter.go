package reqguard

import (
	"context"
	"fmt"
	"time"
)

// Evaluate runs the sliding-window admission check for one request from
// clientIP against path at time now.
//
// A nil error with Verdict.Allowed false means the limit fired; the
// verdict carries the RateLimit-* headers and a rejection message. A
// non-nil error always wraps ErrCacheUnavailable and is never a limit
// decision: the caller chooses fail-open or fail-closed per
// Config.Limiter.FailOpen.
func (e *Engine) Evaluate(ctx context.Context, path, clientIP string, now time.Time) (*Verdict, error) {
	if e == nil || e.limiter == nil {
		return nil, ErrEngineNotReady
	}

	v, err := e.limiter.Evaluate(ctx, path, clientIP, now)
	if err != nil {
		e.metricInc(MetricCacheError)
		e.auditEmit(ctx, AuditCacheUnavailable, "", false, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	if !v.Allowed {
		e.metricInc(MetricRequestLimited)
		e.auditEmit(ctx, AuditRateLimitDeny, "", false, v.Message)
	} else {
		e.metricInc(MetricRequestAllowed)
	}

	return &Verdict{
		Allowed: v.Allowed,
		Headers: v.Headers,
		Message: v.Message,
	}, nil
}
