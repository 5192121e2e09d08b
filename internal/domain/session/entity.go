package session

import "time"

// User is the signed-in user record as returned by the backend
type User struct {
	ID                 string   `json:"id"`
	Email              string   `json:"email"`
	FullName           string   `json:"fullName"`
	Roles              []string `json:"roles"`
	MustChangePassword bool     `json:"mustChangePassword"`
}

// RoleSet returns the user's roles as a set
func (u User) RoleSet() RoleSet {
	return RoleSetFromStrings(u.Roles)
}

// Session is the persisted browser session
type Session struct {
	ID           string
	Token        string
	RefreshToken string
	User         User
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks the session lifetime, not the access token
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
