package ratelimit

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"go.uber.org/zap"
)

// ByIP limits requests per client IP under policy p. Backend failures
// let the request through and are logged.
func ByIP(p Policy, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := p.Allow(r.Context(), ClientIP(r))
			if err != nil {
				log.Warn("rate limiter unavailable", zap.Error(err), zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", "60")
				apperr.Write(w, r, log, apperr.RateLimited("Too many attempts. Please wait before trying again."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
