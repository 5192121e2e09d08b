package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates a session.Repository backed by the web_sessions table
func NewSessionRepository(db *database.DB) session.Repository {
	return &sessionRepositoryImpl{db: db}
}

func (r *sessionRepositoryImpl) Get(ctx context.Context, id string) (*session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, token, refresh_token, user_data, created_at, expires_at
		FROM web_sessions
		WHERE id = $1
	`

	var s session.Session
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Token,
		&s.RefreshToken,
		&s.User,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.IsExpired(time.Now()) {
		if _, err := q.Exec(ctx, `DELETE FROM web_sessions WHERE id = $1`, id); err != nil {
			return nil, fmt.Errorf("delete expired session: %w", err)
		}
		return nil, session.ErrSessionExpired
	}
	return &s, nil
}

func (r *sessionRepositoryImpl) Save(ctx context.Context, s *session.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO web_sessions (id, token, refresh_token, user_id, user_data, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			refresh_token = EXCLUDED.refresh_token,
			user_id = EXCLUDED.user_id,
			user_data = EXCLUDED.user_data,
			expires_at = EXCLUDED.expires_at
	`
	_, err := q.Exec(ctx, query,
		s.ID,
		s.Token,
		s.RefreshToken,
		s.User.ID,
		s.User,
		s.CreatedAt,
		s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM web_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes sessions past their lifetime and returns how many were removed
func PurgeExpiredSessions(ctx context.Context, db *database.DB) (int64, error) {
	tag, err := GetQuerier(ctx, db).Exec(ctx, `DELETE FROM web_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
