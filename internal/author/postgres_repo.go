package author

import (
	"context"
	"errors"
	"fmt"
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

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]entity.Author, int, error) {
	where := ""
	args := []any{}
	if q.Search != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, store.ContainsPattern(q.Search))
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM authors "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, name, bio
		FROM authors
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(timeoutCtx, dataSQL, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []entity.Author{}
	for rows.Next() {
		var a entity.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Names(ctx context.Context) ([]entity.NamedRef, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT id, name FROM authors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entity.NamedRef])
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Author, error) {
	const query = `SELECT id, name, bio FROM authors WHERE id = $1`
	var a entity.Author
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&a.ID, &a.Name, &a.Bio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Author{}, ErrNotFound
		}
		return entity.Author{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in entity.AuthorInput) (entity.Author, error) {
	const query = `
	INSERT INTO authors (name, bio)
	VALUES ($1, $2)
	RETURNING id
	`
	a := entity.Author{Name: in.Name, Bio: in.Bio}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, in.Name, in.Bio).Scan(&a.ID); err != nil {
		return entity.Author{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in entity.AuthorInput) (entity.Author, error) {
	const query = `UPDATE authors SET name = $1, bio = $2, updated_at = now() WHERE id = $3`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, in.Name, in.Bio, id)
	if err != nil {
		return entity.Author{}, err
	}
	if tag.RowsAffected() == 0 {
		return entity.Author{}, ErrNotFound
	}
	return entity.Author{ID: id, Name: in.Name, Bio: in.Bio}, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
