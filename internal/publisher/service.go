package publisher

import (
	"context"

	"bookconsole/internal/entity"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, q Query) ([]entity.Publisher, int, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Names(ctx context.Context) ([]entity.NamedRef, error) {
	return s.repo.Names(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (entity.Publisher, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in entity.PublisherInput) (entity.Publisher, error) {
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in entity.PublisherInput) (entity.Publisher, error) {
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
