package author

import (
	"context"

	"bookconsole/internal/entity"
)

// Repository defines the contract for author data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]entity.Author, int, error)
	Names(ctx context.Context) ([]entity.NamedRef, error)
	GetByID(ctx context.Context, id int64) (entity.Author, error)
	Create(ctx context.Context, in entity.AuthorInput) (entity.Author, error)
	Update(ctx context.Context, id int64, in entity.AuthorInput) (entity.Author, error)
	Delete(ctx context.Context, id int64) error
}
