package book

import (
	"errors"

	"bookconsole/internal/entity"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidReference is returned when author_id or publisher_id names
	// no existing record.
	ErrInvalidReference = errors.New("book references a missing author or publisher")
)

// Query selects one page of books whose title contains Search.
type Query struct {
	Search string
	Limit  int
	Offset int
}

// Listing is one page of books plus every author and publisher, which the
// console needs to fill its select inputs.
type Listing struct {
	Books      []entity.Book
	Total      int
	Authors    []entity.NamedRef
	Publishers []entity.NamedRef
}
