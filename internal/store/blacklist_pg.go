package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BlacklistPG records revoked access tokens by jti until they expire.
type BlacklistPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBlacklistPG(db *pgxpool.Pool, timeout time.Duration) *BlacklistPG {
	return &BlacklistPG{db: db, timeout: timeout}
}

func (r *BlacklistPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// AddToken revokes jti. Revoking the same token twice is not an error.
func (r *BlacklistPG) AddToken(ctx context.Context, jti string, userID string, expiresAt time.Time) error {
	const query = `
	INSERT INTO token_blacklist (jti, user_id, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (jti) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, jti, userID, expiresAt)
	return err
}

func (r *BlacklistPG) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM token_blacklist
		WHERE jti = $1 AND expires_at > now()
	)
	`
	var exists bool
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, jti).Scan(&exists)
	return exists, err
}

// CleanupExpired drops revocations whose tokens can no longer be presented.
func (r *BlacklistPG) CleanupExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM token_blacklist WHERE expires_at < now()`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
