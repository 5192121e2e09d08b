package apiclient

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         session.User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if _, err := c.send(ctx, "", call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   req,
		result: &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the refresh token on the backend
func (c *Client) Logout(ctx context.Context, ts TokenSource) error {
	_, err := c.do(ctx, ts, call{
		method: http.MethodPost,
		path:   "/auth/logout",
		body:   map[string]string{"refreshToken": ts.Tokens().RefreshToken},
	})
	return err
}

// ChangePassword updates the signed-in user's password
func (c *Client) ChangePassword(ctx context.Context, ts TokenSource, req ChangePasswordRequest) error {
	_, err := c.do(ctx, ts, call{
		method: http.MethodPost,
		path:   "/auth/change-password",
		body:   req,
	})
	return err
}
