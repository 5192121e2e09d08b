package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/service/guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

type mapLoader map[string]*session.Session

func (m mapLoader) Current(_ context.Context, id string) (*session.Session, error) {
	if s, ok := m[id]; ok {
		return s, nil
	}
	return nil, auth.ErrNotAuthenticated
}

func signedSession(t *testing.T, mustChange bool, roles ...string) *session.Session {
	tok, err := jwt.NewJWTService(testSecret).Sign(map[string]interface{}{
		"user_id": "u-1",
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return &session.Session{
		ID:    "s-1",
		Token: tok,
		User: session.User{
			ID:                 "u-1",
			Roles:              roles,
			MustChangePassword: mustChange,
		},
	}
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func serve(h http.Handler, path string, sess *session.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sess.ID})
	}
	rec := httptest.NewRecorder()

	loader := mapLoader{}
	if sess != nil {
		loader[sess.ID] = sess
	}
	LoadSession(loader, "sid")(h).ServeHTTP(rec, req)
	return rec
}

func newGuard() *guard.Guard {
	return guard.NewGuard(jwt.NewJWTService(testSecret), guard.DefaultPaths())
}

func TestLoadSession(t *testing.T) {
	var got *session.Session
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	})

	serve(h, "/", nil)
	assert.Nil(t, got)

	sess := signedSession(t, false, "Employee")
	serve(h, "/", sess)
	assert.Same(t, sess, got)
}

func TestRequireRoles(t *testing.T) {
	h := RequireRoles(newGuard(), session.RoleManager, session.RoleSystemAdmin)(http.HandlerFunc(ok))

	t.Run("signed out goes to login", func(t *testing.T) {
		rec := serve(h, "/manager", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("expired token goes to login", func(t *testing.T) {
		sess := signedSession(t, false, "Manager")
		sess.Token = "not-a-jwt"
		rec := serve(h, "/manager", sess)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("password change first", func(t *testing.T) {
		rec := serve(h, "/manager", signedSession(t, true, "Manager"))
		assert.Equal(t, "/change-password", rec.Header().Get("Location"))
	})

	t.Run("role mismatch goes to landing", func(t *testing.T) {
		rec := serve(h, "/manager", signedSession(t, false, "Employee"))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("allowed", func(t *testing.T) {
		rec := serve(h, "/manager", signedSession(t, false, "Employee", "Manager"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRoles_ChangePasswordPageReachable(t *testing.T) {
	h := RequireRoles(newGuard())(http.HandlerFunc(ok))

	rec := serve(h, "/change-password", signedSession(t, true, "Employee"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesAPI(t *testing.T) {
	h := RequireRolesAPI(newGuard(), session.RoleHRAdmin)(http.HandlerFunc(ok))

	assert.Equal(t, http.StatusUnauthorized, serve(h, "/app/reports/x", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "/app/reports/x", signedSession(t, true, "HRAdmin")).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "/app/reports/x", signedSession(t, false, "Employee")).Code)
	assert.Equal(t, http.StatusOK, serve(h, "/app/reports/x", signedSession(t, false, "HRAdmin")).Code)
}

func TestSystemAdminOnly(t *testing.T) {
	h := SystemAdminOnly(newGuard())(http.HandlerFunc(ok))

	rec := serve(h, "/admin/users", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"), "signed out goes to root, not login")

	rec = serve(h, "/admin/users", signedSession(t, false, "HRAdmin"))
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = serve(h, "/admin/users", signedSession(t, true, "SystemAdmin"))
	assert.Equal(t, "/change-password", rec.Header().Get("Location"))

	rec = serve(h, "/admin/users", signedSession(t, false, "SystemAdmin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSystemAdminOnlyAPI(t *testing.T) {
	h := SystemAdminOnlyAPI(newGuard())(http.HandlerFunc(ok))

	assert.Equal(t, http.StatusForbidden, serve(h, "/app/admin/users", nil).Code)
	assert.Equal(t, http.StatusOK, serve(h, "/app/admin/users", signedSession(t, false, "SystemAdmin")).Code)
}

func TestRequireRoles_ExpiredTokenWithRefreshTokenReachesHandler(t *testing.T) {
	tok, err := jwt.NewJWTService(testSecret).Sign(map[string]interface{}{
		"user_id": "u-1",
		"type":    "access",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	sess := &session.Session{
		ID:           "s-1",
		Token:        tok,
		RefreshToken: "valid-refresh",
		User:         session.User{ID: "u-1", Roles: []string{"Employee"}},
	}

	reached := 0
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		w.WriteHeader(http.StatusOK)
	})

	rec := serve(RequireRoles(newGuard(), session.RoleEmployee)(h), "/employee", sess)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(RequireRolesAPI(newGuard(), session.RoleEmployee)(h), "/app/timesheets", sess)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, reached)

	sess.RefreshToken = ""
	rec = serve(RequireRoles(newGuard(), session.RoleEmployee)(h), "/employee", sess)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = serve(RequireRolesAPI(newGuard(), session.RoleEmployee)(h), "/app/timesheets", sess)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 2, reached)
}
