package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/phrazzld/passgate/internal/api/shared"
	"github.com/phrazzld/passgate/internal/platform/logger"
	"github.com/phrazzld/passgate/internal/platform/ratelimit"
)

// RateLimit limits requests per client IP using limiter. Denied requests get
// 429 with a Retry-After header. Limiter errors let the request through.
// metrics may be nil.
func RateLimit(limiter ratelimit.Limiter, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Allow(r.Context(), "ip:"+clientIP(r))
			if err != nil {
				logger.FromContext(r.Context()).Error("rate limiter unavailable, allowing request",
					"error", err,
					"path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if decision.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			}

			if !decision.Allowed {
				seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				if metrics != nil {
					metrics.RecordRateLimitHit(r)
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					"Too many requests", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware has
// already replaced it with the forwarded address when one is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
