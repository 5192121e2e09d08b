package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/service/guard"
)

// SystemAdminOnly guards system-administration pages. Any failure, including
// a missing session, redirects to the application root.
func SystemAdminOnly(g *guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.EvaluateSystemAdmin(SessionFromContext(r.Context()), r.URL.Path)
			if !d.Allow {
				http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SystemAdminOnlyAPI is SystemAdminOnly for JSON endpoints
func SystemAdminOnlyAPI(g *guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.EvaluateSystemAdmin(SessionFromContext(r.Context()), r.URL.Path)
			if !d.Allow {
				if d.RedirectTo == g.Paths().ChangePassword {
					response.Forbidden(w, "Password change required")
					return
				}
				response.Forbidden(w, "System administrator access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
