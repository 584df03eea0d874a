package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookconsole/internal/entity"
	"bookconsole/internal/platform/crypto"
)

type Service struct {
	repo      Repository
	blacklist TokenBlacklist
	secret    string
	tokenTTL  time.Duration
}

func NewService(repo Repository, blacklist TokenBlacklist, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		blacklist: blacklist,
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

// Register creates an account after checking the password policy.
func (s *Service) Register(ctx context.Context, email, name, password, role string) (entity.User, error) {
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return entity.User{}, err
	}
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return entity.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Email:    strings.TrimSpace(email),
		Name:     strings.TrimSpace(name),
		Password: hashed,
		Role:     role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return entity.User{}, err
	}
	return *u, nil
}

// Login verifies credentials and issues an access token. It returns the
// token and its lifetime in seconds.
func (s *Service) Login(ctx context.Context, email, password string) (string, int, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", 0, ErrUnauthorized
		}
		return "", 0, err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return "", 0, ErrUnauthorized
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return "", 0, err
	}
	return token, int(s.tokenTTL.Seconds()), nil
}

// Logout revokes token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string, userID string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.blacklist.AddToken(ctx, claims.ID, userID, expiresAt)
}

func (s *Service) GetByID(ctx context.Context, id string) (entity.User, error) {
	return s.repo.GetByID(ctx, id)
}
