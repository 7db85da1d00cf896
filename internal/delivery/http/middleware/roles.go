package middleware

import (
	"log/slog"
	"net/http"

	"teamspace/internal/authz"
	"teamspace/internal/delivery/http/helpers"
	"teamspace/internal/domain"
)

// RequireRole returns a wrapper that admits only callers whose role is in the
// allowed set. It must run after RequireAuth: a missing identity in the
// context means the middleware chain is mis-ordered and is answered with 401
// and an error log rather than undefined behavior.
func RequireRole(logger *slog.Logger, allowed ...domain.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				logger.ErrorContext(r.Context(), "role gate reached without identity", "path", r.URL.Path, "method", r.Method)
				helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
				return
			}
			if !authz.RoleAllowed(id.Role, allowed...) {
				helpers.WriteJSONError(w, http.StatusForbidden, "access denied")
				return
			}
			next(w, r)
		}
	}
}
