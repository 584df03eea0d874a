package author

import (
	"context"

	"bookconsole/internal/entity"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of authors and the total number of matches.
func (s *Service) List(ctx context.Context, q Query) ([]entity.Author, int, error) {
	return s.repo.List(ctx, q)
}

// Names returns every author as an id/name pair, ordered by name.
func (s *Service) Names(ctx context.Context) ([]entity.NamedRef, error) {
	return s.repo.Names(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (entity.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in entity.AuthorInput) (entity.Author, error) {
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in entity.AuthorInput) (entity.Author, error) {
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
