package publisher

import (
	"context"

	"bookconsole/internal/entity"
)

type Repository interface {
	List(ctx context.Context, q Query) ([]entity.Publisher, int, error)
	Names(ctx context.Context) ([]entity.NamedRef, error)
	GetByID(ctx context.Context, id int64) (entity.Publisher, error)
	Create(ctx context.Context, in entity.PublisherInput) (entity.Publisher, error)
	Update(ctx context.Context, id int64, in entity.PublisherInput) (entity.Publisher, error)
	Delete(ctx context.Context, id int64) error
}
