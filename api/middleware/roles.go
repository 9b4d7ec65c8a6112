package middleware

import (
	"net/http"

	"github.com/campushub/portal-backend/api/responses"
	"github.com/campushub/portal-backend/pkg/enums"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/logger"
)

// RequireRole gates a route on the portal role seeded by Auth. Runs after Auth
// in the chain; a request with no role in context is treated as forbidden, not
// unauthenticated.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := RoleFromContext(r.Context())
			if actor != string(role) {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"required_role": string(role),
						"actor_role":    actor,
					})
					logg.Warn(ctx, "request.role_denied")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
