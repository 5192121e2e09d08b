package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrInvalidTokenType = errors.New("token is not an access token")
	// ErrTokenExpired is returned for a correctly signed token past its exp
	ErrTokenExpired = jwtauth.ErrExpired
)

// Service verifies the access tokens the backend issues to portal users.
// The portal shares the backend's HS256 secret and never mints tokens for
// real sessions.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	ValidateAccessToken(tokenString string) (userID string, err error)
	Sign(claims map[string]interface{}) (string, error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// ValidateAccessToken checks signature and expiry and returns the subject.
// Tokens carrying a "type" claim must be access tokens.
func (j *JWTService) ValidateAccessToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", jwtauth.ErrNoTokenFound
	}

	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	if tokenType, ok := token.Get("type"); ok && tokenType != "access" {
		return "", ErrInvalidTokenType
	}

	if userID, ok := token.Get("user_id"); ok {
		if s, ok := userID.(string); ok {
			return s, nil
		}
	}
	return token.Subject(), nil
}

// Sign encodes claims with the shared secret
func (j *JWTService) Sign(claims map[string]interface{}) (string, error) {
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, err
}
