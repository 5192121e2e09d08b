package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionLoader resolves a cookie value to a stored session
type SessionLoader interface {
	Current(ctx context.Context, sessionID string) (*session.Session, error)
}

// LoadSession reads the session cookie and stores the session (or nil) in
// the request context. It never rejects a request; guards decide.
func LoadSession(loader SessionLoader, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := loader.Current(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrNotAuthenticated) {
					slog.Error("failed to load session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		}
		return http.HandlerFunc(hfn)
	}
}

// WithSession returns a copy of ctx carrying sess
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the request's session, or nil when signed out
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}
