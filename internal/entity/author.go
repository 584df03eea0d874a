package entity

// Author is a catalog author as exchanged with the catalog API.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// AuthorInput is the full create/update body for /author.
type AuthorInput struct {
	Name string `json:"name" validate:"notblank"`
	Bio  string `json:"bio"`
}
