package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/stackkit/auth-starter/internal/ratelimit"
)

// RateLimit applies the fixed-window limiter keyed by client IP. A limiter
// backend failure lets the request through but is logged so it does not fail
// silently.
func RateLimit(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.Printf("ERROR [middleware.RateLimit] limiter failure: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				respondError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
