package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
	"github.com/go-chi/chi/v5"
)

// TokenBinder exposes a session's tokens to the backend client
type TokenBinder interface {
	Tokens(sess *session.Session) apiclient.TokenSource
}

// currentSession returns the guarded request's session or writes 401
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		response.Unauthorized(w, "Unauthorized")
		return nil, false
	}
	return sess, true
}

// int64URLParam parses a numeric chi URL parameter
func int64URLParam(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+key, nil)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}
