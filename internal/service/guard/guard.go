package guard

import (
	"errors"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/jwt"
)

// TokenValidator verifies a session's access token. An expired but
// otherwise valid token must be reported with jwt.ErrTokenExpired.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (userID string, err error)
}

// Paths are the redirect targets used by the guard
type Paths struct {
	Login          string
	ChangePassword string
	Landing        string
	Root           string
}

// DefaultPaths returns the portal's standard routes
func DefaultPaths() Paths {
	return Paths{
		Login:          "/login",
		ChangePassword: "/change-password",
		Landing:        "/",
		Root:           "/",
	}
}

// Decision is the outcome of one guard evaluation
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(to string) Decision { return Decision{RedirectTo: to} }

type Guard struct {
	tokens TokenValidator
	paths  Paths
}

func NewGuard(tokens TokenValidator, paths Paths) *Guard {
	return &Guard{tokens: tokens, paths: paths}
}

func (g *Guard) Paths() Paths {
	return g.paths
}

// hasValidToken accepts a verifiable access token, or an expired one when
// the session still holds a refresh token. The backend client exchanges
// that refresh token on the first 401.
func (g *Guard) hasValidToken(sess *session.Session) bool {
	if sess == nil || sess.Token == "" {
		return false
	}
	_, err := g.tokens.ValidateAccessToken(sess.Token)
	if err == nil {
		return true
	}
	return errors.Is(err, jwt.ErrTokenExpired) && sess.RefreshToken != ""
}

// Evaluate decides whether sess may open target. A nil sess means no
// session was found. required is an any-of role list; empty means any
// signed-in user.
func (g *Guard) Evaluate(sess *session.Session, target string, required ...session.Role) Decision {
	if !g.hasValidToken(sess) {
		return redirect(g.paths.Login)
	}
	if sess.User.MustChangePassword && target != g.paths.ChangePassword {
		return redirect(g.paths.ChangePassword)
	}
	if !sess.User.RoleSet().HasAny(required...) {
		return redirect(g.paths.Landing)
	}
	return allow()
}

// EvaluateSystemAdmin is the strict variant for system-administration pages:
// the session must hold exactly the SystemAdmin role, and every failure
// sends the user to the application root instead of the login page.
func (g *Guard) EvaluateSystemAdmin(sess *session.Session, target string) Decision {
	if !g.hasValidToken(sess) {
		return redirect(g.paths.Root)
	}
	if sess.User.MustChangePassword && target != g.paths.ChangePassword {
		return redirect(g.paths.ChangePassword)
	}
	if !sess.User.RoleSet().Has(session.RoleSystemAdmin) {
		return redirect(g.paths.Root)
	}
	return allow()
}
