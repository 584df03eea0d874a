package user

import (
	"context"
	"errors"
	"time"

	"bookconsole/internal/entity"
	"bookconsole/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, u *entity.User) error {
	const query = `
	INSERT INTO users (id, email, name, password_hash, role)
	VALUES (gen_random_uuid(), $1, $2, $3, COALESCE(NULLIF($4, ''), 'EDITOR'))
	RETURNING id, role, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Email, u.Name, u.Password, u.Role).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if store.IsUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.getOne(ctx, "lower(email) = lower($1)", email)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (entity.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PostgresRepo) getOne(ctx context.Context, cond string, arg any) (entity.User, error) {
	query := `
	SELECT id, email, name, password_hash, role, created_at, updated_at
	FROM users
	WHERE ` + cond + `
	LIMIT 1
	`
	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, ErrNotFound
		}
		return entity.User{}, err
	}
	return u, nil
}
