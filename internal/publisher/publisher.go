package publisher

import "errors"

var (
	// ErrNotFound is returned when a publisher is not found.
	ErrNotFound = errors.New("publisher not found")
	// ErrInUse is returned when deleting a publisher that books still reference.
	ErrInUse = errors.New("publisher is referenced by books")
)

// Query selects one page of publishers whose name contains Search.
type Query struct {
	Search string
	Limit  int
	Offset int
}
