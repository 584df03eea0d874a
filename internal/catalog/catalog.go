// Package catalog declares the author, book and publisher screens of the
// console as crud schemas.
package catalog

import (
	"strconv"

	"bookconsole/internal/crud"
	"bookconsole/internal/entity"
)

// API collection paths.
const (
	AuthorPath    = "/author"
	BookPath      = "/book"
	PublisherPath = "/publisher"
)

func Authors() crud.Schema[entity.Author] {
	return crud.Schema[entity.Author]{
		Path:   AuthorPath,
		Noun:   "noun_author",
		Title:  "title_author",
		Screen: "screen_authors",
		Fields: []crud.Field{
			{Name: "name", Label: "label_name", Kind: crud.KindText, Required: true},
			{Name: "bio", Label: "label_bio", Kind: crud.KindTextArea},
		},
		Columns: []crud.Column[entity.Author]{
			{Header: "label_name", Value: func(a entity.Author) string { return a.Name }},
			{Header: "label_bio", Value: func(a entity.Author) string { return a.Bio }},
		},
		ID: func(a entity.Author) int64 { return a.ID },
		Bind: func(a entity.Author) crud.Form {
			return crud.Form{"name": a.Name, "bio": a.Bio}
		},
		Input: func(f crud.Form) any {
			return entity.AuthorInput{Name: f.Get("name"), Bio: f.Get("bio")}
		},
		Decode: crud.DecodePaged[entity.Author],
	}
}

func Publishers() crud.Schema[entity.Publisher] {
	return crud.Schema[entity.Publisher]{
		Path:   PublisherPath,
		Noun:   "noun_publisher",
		Title:  "title_publisher",
		Screen: "screen_publishers",
		Fields: []crud.Field{
			{Name: "name", Label: "label_name", Kind: crud.KindText, Required: true},
			{Name: "address", Label: "label_address", Kind: crud.KindTextArea, Required: true},
			{Name: "email", Label: "label_email", Kind: crud.KindEmail},
			{Name: "phone", Label: "label_phone", Kind: crud.KindTel},
		},
		Columns: []crud.Column[entity.Publisher]{
			{Header: "label_name", Value: func(p entity.Publisher) string { return p.Name }},
			{Header: "label_address", Value: func(p entity.Publisher) string { return p.Address }},
			{Header: "label_email", Value: func(p entity.Publisher) string { return p.Email }},
			{Header: "label_phone", Value: func(p entity.Publisher) string { return p.Phone }},
		},
		ID: func(p entity.Publisher) int64 { return p.ID },
		Bind: func(p entity.Publisher) crud.Form {
			return crud.Form{"name": p.Name, "address": p.Address, "email": p.Email, "phone": p.Phone}
		},
		Input: func(f crud.Form) any {
			return entity.PublisherInput{
				Name:    f.Get("name"),
				Address: f.Get("address"),
				Email:   f.Get("email"),
				Phone:   f.Get("phone"),
			}
		},
		Decode: crud.DecodePaged[entity.Publisher],
	}
}

// Select option keys filled by the book listing.
const (
	AuthorOptions    = "author"
	PublisherOptions = "publisher"
)

func Books() crud.Schema[entity.Book] {
	return crud.Schema[entity.Book]{
		Path:   BookPath,
		Noun:   "noun_book",
		Title:  "title_book",
		Screen: "screen_books",
		Fields: []crud.Field{
			{Name: "title", Label: "label_title", Kind: crud.KindText, Required: true},
			{Name: "desc", Label: "label_desc", Kind: crud.KindTextArea},
			{Name: "year_publish", Label: "label_year", Kind: crud.KindText, Required: true},
			{Name: "author_id", Label: "label_author", Kind: crud.KindSelect, Required: true, Options: AuthorOptions},
			{Name: "publisher_id", Label: "label_publisher", Kind: crud.KindSelect, Required: true, Options: PublisherOptions},
		},
		Columns: []crud.Column[entity.Book]{
			{Header: "label_title", Value: func(b entity.Book) string { return b.Title }},
			{Header: "label_desc", Value: func(b entity.Book) string { return b.Desc }},
			{Header: "label_year", Value: func(b entity.Book) string { return b.YearPublish }},
			{Header: "label_author", Value: entity.Book.AuthorName},
			{Header: "label_publisher", Value: entity.Book.PublisherName},
		},
		ID: func(b entity.Book) int64 { return b.ID },
		Bind: func(b entity.Book) crud.Form {
			return crud.Form{
				"title":        b.Title,
				"desc":         b.Desc,
				"year_publish": b.YearPublish,
				"author_id":    formatID(b.AuthorID),
				"publisher_id": formatID(b.PublisherID),
			}
		},
		Input: func(f crud.Form) any {
			return entity.BookInput{
				Title:       f.Get("title"),
				Desc:        f.Get("desc"),
				YearPublish: f.Get("year_publish"),
				AuthorID:    parseID(f.Get("author_id")),
				PublisherID: parseID(f.Get("publisher_id")),
			}
		},
		Decode: decodeBooks,
	}
}

// formatID renders an unset reference as the empty select value.
func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// parseID maps anything that is not a positive id to 0 so the required
// rule reports it.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
