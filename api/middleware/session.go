package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dhruvmehta-dev/storefront-backend/api/responses"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
)

// SessionStore is the session surface the middleware needs.
type SessionStore interface {
	Issue(ctx context.Context) (string, error)
	Validate(ctx context.Context, sessionID string) (bool, error)
}

// Session guarantees every request carries a shopper identity: an
// authenticated user keeps theirs, everyone else gets an anonymous
// session cookie that is issued on first contact and validated on
// every request after. It must run after Auth.
func Session(manager SessionStore, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Signed in shoppers do not need the anonymous session.
			if UserIDFromContext(ctx) != uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}
			if manager == nil {
				next.ServeHTTP(w, r)
				return
			}

			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				ok, err := manager.Validate(ctx, cookie.Value)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validating session"))
					return
				}
				if ok {
					ctx = WithSessionID(ctx, cookie.Value)
					if logg != nil {
						ctx = logg.WithSessionID(ctx, cookie.Value)
					}
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			sessionID, err := manager.Issue(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issuing session"))
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
