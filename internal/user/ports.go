package user

import (
	"context"
	"time"

	"bookconsole/internal/entity"
)

type Repository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	GetByID(ctx context.Context, id string) (entity.User, error)
}

// TokenBlacklist revokes access tokens before they expire.
type TokenBlacklist interface {
	AddToken(ctx context.Context, jti string, userID string, expiresAt time.Time) error
}
