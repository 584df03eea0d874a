package book

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

const selectBooks = `
	SELECT b.id, b.title, b.description, b.year_publish, b.author_id, b.publisher_id,
	       a.name, p.name
	FROM books b
	JOIN authors a ON a.id = b.author_id
	JOIN publishers p ON p.id = b.publisher_id`

func scanBook(row pgx.Row) (entity.Book, error) {
	var b entity.Book
	var authorName, publisherName string
	if err := row.Scan(
		&b.ID, &b.Title, &b.Desc, &b.YearPublish, &b.AuthorID, &b.PublisherID,
		&authorName, &publisherName,
	); err != nil {
		return entity.Book{}, err
	}
	b.Authors = &entity.NamedRef{ID: b.AuthorID, Name: authorName}
	b.Publishers = &entity.NamedRef{ID: b.PublisherID, Name: publisherName}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]entity.Book, int, error) {
	where := ""
	args := []any{}
	if q.Search != "" {
		where = "WHERE b.title ILIKE $1"
		args = append(args, store.ContainsPattern(q.Search))
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books b "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`%s
	%s
	ORDER BY b.id
	LIMIT $%d OFFSET $%d`, selectBooks, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(timeoutCtx, dataSQL, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []entity.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, selectBooks+" WHERE b.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, ErrNotFound
		}
		return entity.Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, in entity.BookInput) (entity.Book, error) {
	const query = `
	INSERT INTO books (title, description, year_publish, author_id, publisher_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int64
	err := r.db.QueryRow(timeoutCtx, query, in.Title, in.Desc, in.YearPublish, in.AuthorID, in.PublisherID).Scan(&id)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return entity.Book{}, ErrInvalidReference
		}
		return entity.Book{}, err
	}
	return fromInput(id, in), nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in entity.BookInput) (entity.Book, error) {
	const query = `
	UPDATE books
	SET title = $1, description = $2, year_publish = $3, author_id = $4, publisher_id = $5, updated_at = now()
	WHERE id = $6
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, in.Title, in.Desc, in.YearPublish, in.AuthorID, in.PublisherID, id)
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return entity.Book{}, ErrInvalidReference
		}
		return entity.Book{}, err
	}
	if tag.RowsAffected() == 0 {
		return entity.Book{}, ErrNotFound
	}
	return fromInput(id, in), nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func fromInput(id int64, in entity.BookInput) entity.Book {
	return entity.Book{
		ID:          id,
		Title:       in.Title,
		Desc:        in.Desc,
		YearPublish: in.YearPublish,
		AuthorID:    in.AuthorID,
		PublisherID: in.PublisherID,
	}
}
