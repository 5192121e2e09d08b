package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/service/guard"
)

// RequireRoles guards a page: the user must be signed in, must have changed
// their password, and must hold at least one of roles (any role when empty).
// Failures redirect.
func RequireRoles(g *guard.Guard, roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Evaluate(SessionFromContext(r.Context()), r.URL.Path, roles...)
			if !d.Allow {
				http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRolesAPI applies the same decision to JSON endpoints. A redirect to
// the login page becomes 401, any other redirect becomes 403.
func RequireRolesAPI(g *guard.Guard, roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Evaluate(SessionFromContext(r.Context()), r.URL.Path, roles...)
			if !d.Allow {
				denyAPI(w, g, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func denyAPI(w http.ResponseWriter, g *guard.Guard, d guard.Decision) {
	switch d.RedirectTo {
	case g.Paths().Login:
		response.Unauthorized(w, "Sign in required")
	case g.Paths().ChangePassword:
		response.Forbidden(w, "Password change required")
	default:
		response.Forbidden(w, "Insufficient role")
	}
}
