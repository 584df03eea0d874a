package catalog

import (
	"encoding/json"
	"strconv"

	"bookconsole/internal/apiclient"
	"bookconsole/internal/crud"
	"bookconsole/internal/entity"
)

// bookListingWire is the /book payload: one page of books plus the full
// author and publisher lists for the select inputs.
type bookListingWire struct {
	Book      json.RawMessage `json:"book"`
	Author    json.RawMessage `json:"author"`
	Publisher json.RawMessage `json:"publisher"`
}

func decodeBooks(body json.RawMessage) (crud.Listing[entity.Book], error) {
	data, err := apiclient.DecodeEnvelope(body)
	if err != nil {
		return crud.Listing[entity.Book]{}, err
	}

	var wire bookListingWire
	if err := apiclient.DecodeObject(data, &wire); err != nil {
		return crud.Listing[entity.Book]{}, err
	}

	page, err := apiclient.DecodePage[entity.Book](wire.Book)
	if err != nil {
		return crud.Listing[entity.Book]{}, err
	}
	authors, err := apiclient.DecodeList[entity.NamedRef](wire.Author)
	if err != nil {
		return crud.Listing[entity.Book]{}, err
	}
	publishers, err := apiclient.DecodeList[entity.NamedRef](wire.Publisher)
	if err != nil {
		return crud.Listing[entity.Book]{}, err
	}

	return crud.Listing[entity.Book]{
		Page: page,
		Options: map[string][]crud.Option{
			AuthorOptions:    toOptions(authors),
			PublisherOptions: toOptions(publishers),
		},
	}, nil
}

func toOptions(refs []entity.NamedRef) []crud.Option {
	out := make([]crud.Option, 0, len(refs))
	for _, r := range refs {
		out = append(out, crud.Option{Value: strconv.FormatInt(r.ID, 10), Label: r.Name})
	}
	return out
}
