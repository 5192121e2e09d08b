package auth

import (
	"context"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/apiclient"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, sess *session.Session, req ChangePasswordRequest) error
	Current(ctx context.Context, sessionID string) (*session.Session, error)
	// Tokens binds a session to the backend client so refreshed tokens are persisted
	Tokens(sess *session.Session) apiclient.TokenSource
}
