package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"teamspace/internal/authz"
	"teamspace/internal/delivery/http/helpers"
	"teamspace/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity returns a context with the verified caller identity set.
func SetIdentity(ctx context.Context, id authz.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the verified caller identity, if present.
func IdentityFromContext(ctx context.Context) (authz.Identity, bool) {
	id, ok := ctx.Value(identityKey).(authz.Identity)
	return id, ok
}

// RequireAuth returns a wrapper that validates the Bearer token, loads the
// user record, and sets the caller identity in the request context. The user
// lookup means a token for a deleted account fails here with 401, not deeper
// in a handler.
func RequireAuth(verifier domain.TokenVerifier, users domain.UserService, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if auth == "" || !strings.HasPrefix(auth, prefix) {
				helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, "no token provided")
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				helpers.WriteJSONErrorDetail(w, http.StatusUnauthorized, "token verification failed", err.Error())
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					helpers.WriteJSONError(w, http.StatusUnauthorized, "user not found")
					return
				}
				logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
				helpers.WriteJSONErrorDetail(w, http.StatusInternalServerError, "unexpected error", err.Error())
				return
			}
			r = r.WithContext(SetIdentity(r.Context(), authz.NewIdentity(user)))
			next(w, r)
		}
	}
}
