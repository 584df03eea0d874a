package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one slice of a paginated collection.
type Page[E any] struct {
	Data        []E
	CurrentPage int
	LastPage    int
}

type pageWire[E any] struct {
	Data        *[]E `json:"data"`
	CurrentPage *int `json:"current_page"`
	LastPage    *int `json:"last_page"`
}

type envelopeWire struct {
	Data json.RawMessage `json:"data"`
}

// DecodeEnvelope returns the "data" member of a response body.
func DecodeEnvelope(body []byte) (json.RawMessage, error) {
	var env envelopeWire
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if isNull(env.Data) {
		return nil, fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	return env.Data, nil
}

// DecodePage parses a {data, current_page, last_page} object. All three
// members are mandatory.
func DecodePage[E any](raw json.RawMessage) (Page[E], error) {
	var w pageWire[E]
	if err := DecodeObject(raw, &w); err != nil {
		return Page[E]{}, err
	}
	switch {
	case w.Data == nil:
		return Page[E]{}, fmt.Errorf("%w: page has no data array", ErrMalformedResponse)
	case w.CurrentPage == nil:
		return Page[E]{}, fmt.Errorf("%w: page has no current_page", ErrMalformedResponse)
	case w.LastPage == nil:
		return Page[E]{}, fmt.Errorf("%w: page has no last_page", ErrMalformedResponse)
	case *w.CurrentPage < 1 || *w.LastPage < 0:
		return Page[E]{}, fmt.Errorf("%w: page numbers out of range (current=%d last=%d)",
			ErrMalformedResponse, *w.CurrentPage, *w.LastPage)
	}
	return Page[E]{
		Data:        *w.Data,
		CurrentPage: *w.CurrentPage,
		LastPage:    *w.LastPage,
	}, nil
}

// DecodeList parses a JSON array that must be present (possibly empty).
func DecodeList[E any](raw json.RawMessage) ([]E, error) {
	if isNull(raw) {
		return nil, fmt.Errorf("%w: missing list", ErrMalformedResponse)
	}
	var out []E
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// DecodeObject unmarshals raw into target, tagging failures as malformed.
func DecodeObject(raw json.RawMessage, target any) error {
	if isNull(raw) {
		return fmt.Errorf("%w: missing object", ErrMalformedResponse)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
