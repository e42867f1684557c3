package httpx

import (
	"net/http"
	"slices"
)

// RequireRole lets the request through only when the token role is one of
// roles. Must run after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, RoleFromCtx(r.Context())) {
				WriteError(w, http.StatusForbidden, "access_denied", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
