package httpx

import (
	"context"
	"net/http"

	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/hearthside/homesite/pkg/slogx"
)

// SessionMiddleware reads the session cookie and, when it verifies, injects
// the identity claim into the request context. A missing, malformed, or
// expired cookie is treated identically: the request continues anonymously
// and routes that need identity reject it via RequireSession.
func SessionMiddleware(v jwtx.Verifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(cookie.Value)
			if err != nil {
				slogx.FromContext(ctx).Debug("session cookie rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, claims)))
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithSession(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyEmail, c.Email)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
