package author

import "errors"

var (
	// ErrNotFound is returned when an author is not found.
	ErrNotFound = errors.New("author not found")
	// ErrInUse is returned when deleting an author that books still reference.
	ErrInUse = errors.New("author is referenced by books")
)

// Query selects one page of authors whose name contains Search.
type Query struct {
	Search string
	Limit  int
	Offset int
}
