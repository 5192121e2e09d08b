package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySessions struct {
	mu    sync.Mutex
	items map[string]session.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{items: map[string]session.Session{}}
}

func (m *memorySessions) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memorySessions) Save(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID] = *s
	return nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type fakeBackend struct {
	loginErr   error
	logoutErr  error
	changeErr  error
	logouts    int
	lastChange apiclient.ChangePasswordRequest
}

func (f *fakeBackend) Login(_ context.Context, req apiclient.LoginRequest) (*apiclient.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &apiclient.LoginResponse{
		Token:        "access",
		RefreshToken: "refresh",
		User: session.User{
			ID:                 "u-1",
			Email:              req.Email,
			Roles:              []string{"Employee"},
			MustChangePassword: true,
		},
	}, nil
}

func (f *fakeBackend) Logout(_ context.Context, _ apiclient.TokenSource) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeBackend) ChangePassword(_ context.Context, _ apiclient.TokenSource, req apiclient.ChangePasswordRequest) error {
	f.lastChange = req
	return f.changeErr
}

func TestAuthService_Login(t *testing.T) {
	repo := newMemorySessions()
	svc := NewAuthService(repo, &fakeBackend{}, time.Hour)

	sess, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "access", sess.Token)
	assert.True(t, sess.User.MustChangePassword)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	stored, err := repo.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "refresh", stored.RefreshToken)
}

func TestAuthService_LoginErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := NewAuthService(newMemorySessions(), &fakeBackend{}, time.Hour)
		_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "", Password: ""})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap(), "email")
		assert.Contains(t, verrs.ToMap(), "password")
	})

	t.Run("unsafe next", func(t *testing.T) {
		svc := NewAuthService(newMemorySessions(), &fakeBackend{}, time.Hour)
		_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ana@example.com", Password: "x", Next: "https://evil.example"})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap(), "next")
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := NewAuthService(newMemorySessions(), &fakeBackend{loginErr: apiclient.ErrUnauthorized}, time.Hour)
		_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ana@example.com", Password: "x"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("backend down", func(t *testing.T) {
		svc := NewAuthService(newMemorySessions(), &fakeBackend{loginErr: apiclient.ErrUnavailable}, time.Hour)
		_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ana@example.com", Password: "x"})
		assert.ErrorIs(t, err, apiclient.ErrUnavailable)
	})
}

func TestAuthService_Logout(t *testing.T) {
	repo := newMemorySessions()
	backend := &fakeBackend{logoutErr: apiclient.ErrUnavailable}
	svc := NewAuthService(repo, backend, time.Hour)

	sess, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess.ID))
	assert.Equal(t, 1, backend.logouts)

	_, err = svc.Current(context.Background(), sess.ID)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)

	assert.NoError(t, svc.Logout(context.Background(), sess.ID), "unknown session is a no-op")
	assert.Equal(t, 1, backend.logouts)
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newMemorySessions()
	backend := &fakeBackend{}
	svc := NewAuthService(repo, backend, time.Hour)

	sess, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), sess, auth.ChangePasswordRequest{
		CurrentPassword: "secret",
		NewPassword:     "new-password-1",
		ConfirmPassword: "different",
	})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "confirmPassword")

	err = svc.ChangePassword(context.Background(), sess, auth.ChangePasswordRequest{
		CurrentPassword: "secret",
		NewPassword:     "new-password-1",
		ConfirmPassword: "new-password-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-password-1", backend.lastChange.NewPassword)

	stored, err := svc.Current(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.User.MustChangePassword)
}

func TestAuthService_ChangePasswordWrongCurrent(t *testing.T) {
	svc := NewAuthService(newMemorySessions(), &fakeBackend{changeErr: apiclient.ErrBadRequest}, time.Hour)
	sess := &session.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}

	err := svc.ChangePassword(context.Background(), sess, auth.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
		ConfirmPassword: "new-password-1",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSessionTokens_UpdatePersists(t *testing.T) {
	repo := newMemorySessions()
	svc := NewAuthService(repo, &fakeBackend{}, time.Hour)
	sess := &session.Session{ID: "s-1", Token: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)}

	ts := svc.Tokens(sess)
	require.NoError(t, ts.Update(context.Background(), apiclient.Tokens{AccessToken: "a2", RefreshToken: "r2"}))

	assert.Equal(t, apiclient.Tokens{AccessToken: "a2", RefreshToken: "r2"}, ts.Tokens())
	assert.Equal(t, "a2", sess.Token)

	stored, err := repo.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "r2", stored.RefreshToken)
}

func TestSessionTokens_ReloadSeesRotationByOtherRequest(t *testing.T) {
	repo := newMemorySessions()
	svc := NewAuthService(repo, &fakeBackend{}, time.Hour)
	stored := &session.Session{ID: "s-1", Token: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Save(context.Background(), stored))

	first, err := repo.Get(context.Background(), "s-1")
	require.NoError(t, err)
	second, err := repo.Get(context.Background(), "s-1")
	require.NoError(t, err)

	require.NoError(t, svc.Tokens(first).Update(context.Background(), apiclient.Tokens{AccessToken: "a2", RefreshToken: "r2"}))

	ts := svc.Tokens(second)
	assert.Equal(t, "s-1", ts.Key())
	assert.Equal(t, "a1", ts.Tokens().AccessToken)

	reloaded, err := ts.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, apiclient.Tokens{AccessToken: "a2", RefreshToken: "r2"}, reloaded)
	assert.Equal(t, "a2", second.Token)
}

func TestSessionTokens_ConcurrentRequestsRefreshOnce(t *testing.T) {
	var refreshCalls int32
	var staleHits sync.WaitGroup
	staleHits.Add(2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["refreshToken"] != "r1" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"refresh token reused"}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"a2","refreshToken":"r2"}`))
		case "/users":
			if r.Header.Get("Authorization") != "Bearer a2" {
				staleHits.Done()
				staleHits.Wait()
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"expired"}`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
	t.Cleanup(func() { client.Close() })

	repo := newMemorySessions()
	svc := NewAuthService(repo, &fakeBackend{}, time.Hour)
	require.NoError(t, repo.Save(context.Background(), &session.Session{ID: "s-1", Token: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)}))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		sess, err := repo.Get(context.Background(), "s-1")
		require.NoError(t, err)
		wg.Add(1)
		go func(i int, sess *session.Session) {
			defer wg.Done()
			_, errs[i] = client.ListUsers(context.Background(), svc.Tokens(sess))
		}(i, sess)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))

	stored, err := repo.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "a2", stored.Token)
	assert.Equal(t, "r2", stored.RefreshToken)
}
