package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type record struct {
	ID           string       `json:"id"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         session.User `json:"user"`
	CreatedAt    time.Time    `json:"createdAt"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

type sessionRepositoryImpl struct {
	client goredis.UniversalClient
}

// NewSessionRepository stores sessions as JSON under session:{id} with a TTL matching ExpiresAt
func NewSessionRepository(client goredis.UniversalClient) session.Repository {
	return &sessionRepositoryImpl{client: client}
}

func (r *sessionRepositoryImpl) Get(ctx context.Context, id string) (*session.Session, error) {
	raw, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s := &session.Session{
		ID:           rec.ID,
		Token:        rec.Token,
		RefreshToken: rec.RefreshToken,
		User:         rec.User,
		CreatedAt:    rec.CreatedAt,
		ExpiresAt:    rec.ExpiresAt,
	}
	if s.IsExpired(time.Now()) {
		return nil, session.ErrSessionExpired
	}
	return s, nil
}

func (r *sessionRepositoryImpl) Save(ctx context.Context, s *session.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return session.ErrSessionExpired
	}

	raw, err := json.Marshal(record{
		ID:           s.ID,
		Token:        s.Token,
		RefreshToken: s.RefreshToken,
		User:         s.User,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+s.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
