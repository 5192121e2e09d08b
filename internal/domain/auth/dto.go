package auth

import (
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/validator"
)

const (
	maxEmailLength    = 254
	maxPasswordLength = 255
	minPasswordLength = 8
)

// LoginRequest is the sign-in form. Next is the path to return to afterwards.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Next     string `json:"next,omitempty"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	switch {
	case validator.IsEmpty(r.Email):
		errs.Add("email", "email is required")
	case len(r.Email) > maxEmailLength:
		errs.Add("email", "email must not exceed 254 characters")
	case !validator.IsValidEmail(r.Email):
		errs.Add("email", "email must be a valid email address")
	}

	switch {
	case validator.IsEmpty(r.Password):
		errs.Add("password", "password is required")
	case len(r.Password) > maxPasswordLength:
		errs.Add("password", "password must not exceed 255 characters")
	}

	if r.Next != "" && !validator.IsSafeRedirect(r.Next) {
		errs.Add("next", "next must be a local path")
	}

	return errs.Err()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPassword) {
		errs.Add("currentPassword", "current password is required")
	}

	switch {
	case validator.IsEmpty(r.NewPassword):
		errs.Add("newPassword", "new password is required")
	case len(r.NewPassword) < minPasswordLength:
		errs.Add("newPassword", "new password must be at least 8 characters long")
	case len(r.NewPassword) > maxPasswordLength:
		errs.Add("newPassword", "new password must not exceed 255 characters")
	case r.NewPassword == r.CurrentPassword:
		errs.Add("newPassword", "new password must differ from the current one")
	}

	if r.ConfirmPassword != r.NewPassword {
		errs.Add("confirmPassword", ErrPasswordMismatch.Error())
	}

	return errs.Err()
}
