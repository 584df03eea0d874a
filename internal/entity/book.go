package entity

// NamedRef is the denormalized {id, name} pair the API nests into book rows.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book is a catalog book. Authors and Publishers are read-only display
// fields filled by the server on list responses.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Desc        string    `json:"desc"`
	YearPublish string    `json:"year_publish"`
	AuthorID    int64     `json:"author_id"`
	PublisherID int64     `json:"publisher_id"`
	Authors     *NamedRef `json:"authors,omitempty"`
	Publishers  *NamedRef `json:"publishers,omitempty"`
}

// AuthorName returns the denormalized author name, or "" when absent.
func (b Book) AuthorName() string {
	if b.Authors == nil {
		return ""
	}
	return b.Authors.Name
}

// PublisherName returns the denormalized publisher name, or "" when absent.
func (b Book) PublisherName() string {
	if b.Publishers == nil {
		return ""
	}
	return b.Publishers.Name
}

// BookInput is the full create/update body for /book.
type BookInput struct {
	Title       string `json:"title" validate:"notblank"`
	Desc        string `json:"desc"`
	YearPublish string `json:"year_publish" validate:"notblank"`
	AuthorID    int64  `json:"author_id" validate:"required"`
	PublisherID int64  `json:"publisher_id" validate:"required"`
}
