package book

import (
	"context"

	"bookconsole/internal/entity"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]entity.Book, int, error)
	GetByID(ctx context.Context, id int64) (entity.Book, error)
	Create(ctx context.Context, in entity.BookInput) (entity.Book, error)
	Update(ctx context.Context, id int64, in entity.BookInput) (entity.Book, error)
	Delete(ctx context.Context, id int64) error
}

// NameLister lists id/name pairs of a related entity.
type NameLister interface {
	Names(ctx context.Context) ([]entity.NamedRef, error)
}
