package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrNotAuthenticated   = errors.New("not signed in")
)
