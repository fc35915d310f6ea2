package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	reqguard "github.com/sirpi-io/reqguard"
)

// RateLimit wraps next in the sliding-window admission check, keyed by
// client IP and request path. Denials become 429 responses carrying the
// computed RateLimit-* headers; accepted requests carry the same headers
// into the handler's response.
//
// When the cache is unreachable the request fails with 503 unless the
// engine is configured fail-open, in which case it passes through
// without headers.
func RateLimit(engine *reqguard.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeJSON(w, http.StatusServiceUnavailable, errorBody{Message: "rate limiter not configured"})
				return
			}

			cfg := engine.Config()
			ip := clientIP(r, cfg.Limiter.TrustedProxyHeader)
			ctx := reqguard.WithClientIP(r.Context(), ip)
			ctx = reqguard.WithRequestPath(ctx, r.URL.Path)

			verdict, err := engine.Evaluate(ctx, r.URL.Path, ip, time.Now())
			if err != nil {
				if cfg.Limiter.FailOpen {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				writeJSON(w, http.StatusServiceUnavailable, errorBody{Message: "cache unavailable"})
				return
			}

			for name, value := range verdict.Headers {
				w.Header().Set(name, value)
			}

			if !verdict.Allowed {
				writeJSON(w, http.StatusTooManyRequests, errorBody{Message: verdict.Message})
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP prefers the trusted proxy header, falling back to the socket
// peer address with the port stripped.
func clientIP(r *http.Request, trustedHeader string) string {
	if trustedHeader != "" {
		if ip := r.Header.Get(trustedHeader); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type errorBody struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
