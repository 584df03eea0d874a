package publisher

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

const publisherColumns = "id, name, address, email, phone"

func scanPublisher(row pgx.Row) (entity.Publisher, error) {
	var p entity.Publisher
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Email, &p.Phone)
	return p, err
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]entity.Publisher, int, error) {
	where := ""
	args := []any{}
	if q.Search != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, store.ContainsPattern(q.Search))
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM publishers "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM publishers
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d`, publisherColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(timeoutCtx, dataSQL, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []entity.Publisher{}
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Names(ctx context.Context) ([]entity.NamedRef, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT id, name FROM publishers ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entity.NamedRef])
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Publisher, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	p, err := scanPublisher(r.db.QueryRow(timeoutCtx, "SELECT "+publisherColumns+" FROM publishers WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Publisher{}, ErrNotFound
		}
		return entity.Publisher{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in entity.PublisherInput) (entity.Publisher, error) {
	const query = `
	INSERT INTO publishers (name, address, email, phone)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + publisherColumns
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanPublisher(r.db.QueryRow(timeoutCtx, query, in.Name, in.Address, in.Email, in.Phone))
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in entity.PublisherInput) (entity.Publisher, error) {
	const query = `
	UPDATE publishers
	SET name = $1, address = $2, email = $3, phone = $4, updated_at = now()
	WHERE id = $5
	RETURNING ` + publisherColumns
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	p, err := scanPublisher(r.db.QueryRow(timeoutCtx, query, in.Name, in.Address, in.Email, in.Phone, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Publisher{}, ErrNotFound
		}
		return entity.Publisher{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM publishers WHERE id = $1`, id)
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
