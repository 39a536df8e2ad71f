package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/vietthreads/backoffice-backend/api/responses"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
)

// RateLimiter counts requests inside a fixed window per scope.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit throttles a route with a per-client-IP fixed window. A nil store
// or a non-positive limit disables the guard.
func RateLimit(scope string, limit int64, window time.Duration, store RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || limit <= 0 || window <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			allowed, count, err := store.FixedWindowAllow(ctx, scope+":"+ip, limit, window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					lctx := logg.WithFields(ctx, map[string]any{
						"scope":          scope,
						"ip":             ip,
						"attempts":       count,
						"limit":          limit,
						"window_seconds": int(window.Seconds()),
					})
					logg.Warn(lctx, "rate limit exceeded")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
