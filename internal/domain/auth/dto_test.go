package auth

import (
	"testing"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		req   LoginRequest
		field string
	}{
		{"valid", LoginRequest{Email: "ana@example.com", Password: "secret"}, ""},
		{"valid with next", LoginRequest{Email: "ana@example.com", Password: "secret", Next: "/manager"}, ""},
		{"missing email", LoginRequest{Password: "secret"}, "email"},
		{"bad email", LoginRequest{Email: "ana", Password: "secret"}, "email"},
		{"missing password", LoginRequest{Email: "ana@example.com"}, "password"},
		{"absolute next", LoginRequest{Email: "ana@example.com", Password: "secret", Next: "https://evil.example"}, "next"},
		{"protocol relative next", LoginRequest{Email: "ana@example.com", Password: "secret", Next: "//evil.example"}, "next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestChangePasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		req   ChangePasswordRequest
		field string
	}{
		{"valid", ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret", ConfirmPassword: "new-secret"}, ""},
		{"too short", ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "short", ConfirmPassword: "short"}, "newPassword"},
		{"unchanged", ChangePasswordRequest{CurrentPassword: "same-secret", NewPassword: "same-secret", ConfirmPassword: "same-secret"}, "newPassword"},
		{"mismatch", ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret", ConfirmPassword: "new-secret2"}, "confirmPassword"},
		{"missing current", ChangePasswordRequest{NewPassword: "new-secret", ConfirmPassword: "new-secret"}, "currentPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}
