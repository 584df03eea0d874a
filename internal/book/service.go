package book

import (
	"context"
	"fmt"

	"bookconsole/internal/entity"
)

// Service provides book-related business logic.
type Service struct {
	repo       Repository
	authors    NameLister
	publishers NameLister
}

// NewService creates a new book service. authors and publishers supply the
// option lists returned alongside every listing.
func NewService(repo Repository, authors, publishers NameLister) *Service {
	return &Service{repo: repo, authors: authors, publishers: publishers}
}

// List returns a page of books together with all authors and publishers.
func (s *Service) List(ctx context.Context, q Query) (Listing, error) {
	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Listing{}, fmt.Errorf("list books: %w", err)
	}
	authors, err := s.authors.Names(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list author names: %w", err)
	}
	publishers, err := s.publishers.Names(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list publisher names: %w", err)
	}
	return Listing{
		Books:      books,
		Total:      total,
		Authors:    nonNil(authors),
		Publishers: nonNil(publishers),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in entity.BookInput) (entity.Book, error) {
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in entity.BookInput) (entity.Book, error) {
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func nonNil(refs []entity.NamedRef) []entity.NamedRef {
	if refs == nil {
		return []entity.NamedRef{}
	}
	return refs
}
