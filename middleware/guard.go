package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	reqguard "github.com/sirpi-io/reqguard"
)

type authResultContextKey struct{}

// AuthResultFromContext retrieves the session resolved by Guard for the
// current request.
func AuthResultFromContext(ctx context.Context) (*reqguard.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*reqguard.AuthResult)
	return res, ok
}

// Guard protects a route behind the session store guard. The credential
// is read from the Authorization cookie first (the login flow sets one),
// then from the Authorization header; the idempotency id comes from the
// configured request-id header.
//
// Guard rejections map onto the error taxonomy: an expired or unknown
// token is 401; a malformed bearer scheme, a missing request id, or a
// duplicate request id is 403; an unreachable cache is 503.
func Guard(engine *reqguard.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "guard not configured"})
				return
			}

			cfg := engine.Config()
			ctx := reqguard.WithClientIP(r.Context(), clientIP(r, cfg.Limiter.TrustedProxyHeader))
			ctx = reqguard.WithRequestPath(ctx, r.URL.Path)

			credential := bearerCredential(r)
			requestID := r.Header.Get(cfg.Session.RequestIDHeader)

			res, err := engine.Authenticate(ctx, credential, r.Method, requestID)
			if err != nil {
				status, detail := guardRejection(err)
				writeJSON(w, status, errorBody{Detail: detail})
				return
			}

			ctx = context.WithValue(ctx, authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerCredential returns the raw "Bearer <token>" value from the
// Authorization cookie or, failing that, the Authorization header.
// Cookie values may arrive quoted; the quotes are not part of the
// credential.
func bearerCredential(r *http.Request) string {
	if c, err := r.Cookie("Authorization"); err == nil && c.Value != "" {
		return strings.Trim(c.Value, `"`)
	}
	return r.Header.Get("Authorization")
}

func guardRejection(err error) (int, string) {
	switch {
	case errors.Is(err, reqguard.ErrTokenInvalid):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, reqguard.ErrMalformedBearer):
		return http.StatusForbidden, "Authorization cookies must be a Bearer token"
	case errors.Is(err, reqguard.ErrMissingRequestID):
		return http.StatusForbidden, "Request ID must be provided for Idempotency"
	case errors.Is(err, reqguard.ErrDuplicateRequest):
		return http.StatusForbidden, "Duplicate Request has been made. Please renew the request token for Idempotency"
	case errors.Is(err, reqguard.ErrCacheUnavailable):
		return http.StatusServiceUnavailable, "Exception in redis"
	default:
		return http.StatusUnauthorized, "Unauthorized"
	}
}
