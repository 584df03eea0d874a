package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("returns data member", func(t *testing.T) {
		raw, err := DecodeEnvelope([]byte(`{"success":true,"data":{"x":1}}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"x":1}`, string(raw))
	})

	tests := map[string]string{
		"not json":     `<html>`,
		"missing data": `{"success":true}`,
		"null data":    `{"data":null}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(body))
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDecodePage(t *testing.T) {
	t.Run("valid page", func(t *testing.T) {
		p, err := DecodePage[row]([]byte(`{"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"current_page":2,"last_page":3,"total":32}`))
		require.NoError(t, err)
		assert.Equal(t, 2, p.CurrentPage)
		assert.Equal(t, 3, p.LastPage)
		assert.Equal(t, []row{{1, "a"}, {2, "b"}}, p.Data)
	})

	t.Run("empty collection", func(t *testing.T) {
		p, err := DecodePage[row]([]byte(`{"data":[],"current_page":1,"last_page":1}`))
		require.NoError(t, err)
		assert.Empty(t, p.Data)
	})

	bad := map[string]string{
		"missing data":         `{"current_page":1,"last_page":1}`,
		"missing current_page": `{"data":[],"last_page":1}`,
		"missing last_page":    `{"data":[],"current_page":1}`,
		"wrong type":           `{"data":"nope","current_page":1,"last_page":1}`,
		"zero current page":    `{"data":[],"current_page":0,"last_page":1}`,
		"null":                 `null`,
	}
	for name, body := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePage[row]([]byte(body))
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDecodeList(t *testing.T) {
	out, err := DecodeList[row]([]byte(`[{"id":5,"name":"x"}]`))
	require.NoError(t, err)
	assert.Equal(t, []row{{5, "x"}}, out)

	_, err = DecodeList[row](nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
