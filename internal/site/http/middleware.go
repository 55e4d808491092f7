package http

import (
	"errors"
	"net/http"

	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/hearthside/homesite/pkg/slogx"
)

// requireAdmin authorizes the user-management routes. It assumes
// RequireSession already ran, loads the caller's row, and passes when the
// admin flag or the users:manage capability is held. An identity whose row
// no longer exists is a 404, everyone else without the grant is a 403.
func requireAdmin(st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := httpx.UserIDFromContext(ctx)

			user, err := st.Users().GetUserByID(ctx, userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httpx.WriteError(w, http.StatusNotFound, "User not found")
					return
				}
				slogx.FromContext(ctx).Error("admin gate lookup failed", "user_id", userID, "err", err)
				httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			if !user.CanManageUsers() {
				httpx.WriteError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
