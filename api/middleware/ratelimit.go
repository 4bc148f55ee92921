package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/api/responses"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
)

// RateLimiterStore is the counter surface the throttle needs.
type RateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// CheckoutRateLimit throttles order placement and payment verification
// per shopper. The window is a fixed counter in Redis keyed by the
// shopper identity, falling back to the client IP when no identity is
// attached yet.
func CheckoutRateLimit(cfg config.RateLimitConfig, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || cfg.CheckoutLimit <= 0 || cfg.CheckoutWindow <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := store.RateLimitKey(fmt.Sprintf("checkout:%s", rateLimitSubject(r)))
			count, err := store.IncrWithTTL(r.Context(), key, cfg.CheckoutWindow)
			if err != nil {
				// A throttle outage should not take checkout down.
				if logg != nil {
					logg.Warn(r.Context(), "rate limit store unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(cfg.CheckoutLimit) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many checkout attempts"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitSubject(r *http.Request) string {
	if userID := UserIDFromContext(r.Context()); userID != uuid.Nil {
		return fmt.Sprintf("user:%s", userID)
	}
	if sessionID := SessionIDFromContext(r.Context()); sessionID != "" {
		return fmt.Sprintf("session:%s", sessionID)
	}
	return fmt.Sprintf("ip:%s", clientIP(r))
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
