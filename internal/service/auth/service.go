package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
	"github.com/google/uuid"
)

// Backend is the subset of the API client used for authentication
type Backend interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.LoginResponse, error)
	Logout(ctx context.Context, ts apiclient.TokenSource) error
	ChangePassword(ctx context.Context, ts apiclient.TokenSource, req apiclient.ChangePasswordRequest) error
}

type AuthServiceImpl struct {
	sessions session.Repository
	backend  Backend
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(sessions session.Repository, backend Backend, ttl time.Duration) auth.AuthService {
	return &AuthServiceImpl{
		sessions: sessions,
		backend:  backend,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (*session.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := a.backend.Login(ctx, apiclient.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrBadRequest) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("backend login: %w", err)
	}

	now := a.now().UTC()
	sess := &session.Session{
		ID:           uuid.NewString(),
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		User:         res.User,
		CreatedAt:    now,
		ExpiresAt:    now.Add(a.ttl),
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("user signed in", "user_id", sess.User.ID, "roles", sess.User.Roles)
	return sess, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	sess, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	// the local session is dropped even when the backend cannot revoke
	if err := a.backend.Logout(ctx, a.Tokens(sess)); err != nil {
		slog.Warn("backend logout failed", "user_id", sess.User.ID, "error", err)
	}
	return a.sessions.Delete(ctx, sessionID)
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, sess *session.Session, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := a.backend.ChangePassword(ctx, a.Tokens(sess), apiclient.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrBadRequest) {
			return auth.ErrInvalidCredentials
		}
		return fmt.Errorf("backend change password: %w", err)
	}

	sess.User.MustChangePassword = false
	if err := a.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Current implements auth.AuthService.
func (a *AuthServiceImpl) Current(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, auth.ErrNotAuthenticated
	}
	sess, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
			return nil, auth.ErrNotAuthenticated
		}
		return nil, err
	}
	return sess, nil
}

// Tokens implements auth.AuthService.
func (a *AuthServiceImpl) Tokens(sess *session.Session) apiclient.TokenSource {
	return &sessionTokens{sess: sess, sessions: a.sessions}
}

// sessionTokens writes rotated tokens back into the session record
type sessionTokens struct {
	mu       sync.Mutex
	sess     *session.Session
	sessions session.Repository
}

func (s *sessionTokens) Key() string {
	return s.sess.ID
}

// Reload picks up tokens another request on this session already rotated
func (s *sessionTokens) Reload(ctx context.Context) (apiclient.Tokens, error) {
	stored, err := s.sessions.Get(ctx, s.sess.ID)
	if err != nil {
		return apiclient.Tokens{}, fmt.Errorf("reload session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Token = stored.Token
	s.sess.RefreshToken = stored.RefreshToken
	return apiclient.Tokens{AccessToken: stored.Token, RefreshToken: stored.RefreshToken}, nil
}

func (s *sessionTokens) Tokens() apiclient.Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return apiclient.Tokens{AccessToken: s.sess.Token, RefreshToken: s.sess.RefreshToken}
}

func (s *sessionTokens) Update(ctx context.Context, t apiclient.Tokens) error {
	s.mu.Lock()
	s.sess.Token = t.AccessToken
	s.sess.RefreshToken = t.RefreshToken
	snapshot := *s.sess
	s.mu.Unlock()

	return s.sessions.Save(ctx, &snapshot)
}
