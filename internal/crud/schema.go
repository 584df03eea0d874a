package crud

import (
	"context"
	"encoding/json"
	"net/url"

	"bookconsole/internal/apiclient"
)

// API is the transport every controller talks through.
type API interface {
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) error
	Put(ctx context.Context, path string, body any) error
	Delete(ctx context.Context, path string) error
}

// Translator renders UI message IDs.
type Translator interface {
	Text(id string, data map[string]any) string
}

type FieldKind int

const (
	KindText FieldKind = iota
	KindTextArea
	KindEmail
	KindTel
	KindSelect
)

// Field is one editable input of an entity form. Name is both the form key
// and the JSON member of the payload; Label is a message ID.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	// Options names the Listing.Options entry that feeds a KindSelect field.
	Options string
}

// Option is one choice of a select input.
type Option struct {
	Value string
	Label string
}

// Column is one table column of the list view. Header is a message ID.
type Column[E any] struct {
	Header string
	Value  func(E) string
}

// Listing is a decoded list response.
type Listing[E any] struct {
	Page    apiclient.Page[E]
	Options map[string][]Option
}

// Form is the field bag bound to the open modal.
type Form map[string]string

func (f Form) Get(name string) string {
	return f[name]
}

// Schema describes one entity screen. Field order is validation order.
type Schema[E any] struct {
	// Path is the API collection path, e.g. "/author".
	Path string
	// Noun, Title and Screen are message IDs ("author", "Author", "Authors").
	Noun    string
	Title   string
	Screen  string
	Fields  []Field
	Columns []Column[E]

	ID func(E) int64
	// Bind copies an entity's persisted values into a fresh form.
	Bind func(E) Form
	// Input builds the complete request payload from a form. The payload
	// carries validation tags.
	Input func(Form) any
	// Decode parses a full GET response body.
	Decode func(body json.RawMessage) (Listing[E], error)
}

// Field returns the schema field with the given name.
func (s Schema[E]) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DecodePaged decodes the plain {data: {data, current_page, last_page}}
// envelope shared by most collections.
func DecodePaged[E any](body json.RawMessage) (Listing[E], error) {
	data, err := apiclient.DecodeEnvelope(body)
	if err != nil {
		return Listing[E]{}, err
	}
	page, err := apiclient.DecodePage[E](data)
	if err != nil {
		return Listing[E]{}, err
	}
	return Listing[E]{Page: page}, nil
}
