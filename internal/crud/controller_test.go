package crud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"bookconsole/internal/entity"
	"bookconsole/internal/locale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	args := m.Called(ctx, path, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockAPI) Post(ctx context.Context, path string, body any) error {
	args := m.Called(ctx, path, body)
	return args.Error(0)
}

func (m *mockAPI) Put(ctx context.Context, path string, body any) error {
	args := m.Called(ctx, path, body)
	return args.Error(0)
}

func (m *mockAPI) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func publisherSchema() Schema[entity.Publisher] {
	return Schema[entity.Publisher]{
		Path:   "/publisher",
		Noun:   "noun_publisher",
		Title:  "title_publisher",
		Screen: "screen_publishers",
		Fields: []Field{
			{Name: "name", Label: "label_name", Kind: KindText, Required: true},
			{Name: "address", Label: "label_address", Kind: KindTextArea, Required: true},
			{Name: "email", Label: "label_email", Kind: KindEmail},
			{Name: "phone", Label: "label_phone", Kind: KindTel},
		},
		ID: func(p entity.Publisher) int64 { return p.ID },
		Bind: func(p entity.Publisher) Form {
			return Form{"name": p.Name, "address": p.Address, "email": p.Email, "phone": p.Phone}
		},
		Input: func(f Form) any {
			return entity.PublisherInput{
				Name:    f.Get("name"),
				Address: f.Get("address"),
				Email:   f.Get("email"),
				Phone:   f.Get("phone"),
			}
		},
		Decode: DecodePaged[entity.Publisher],
	}
}

func newController(t *testing.T) (*Controller[entity.Publisher], *mockAPI) {
	t.Helper()
	cat, err := locale.NewCatalog("en")
	require.NoError(t, err)
	m := new(mockAPI)
	return New(publisherSchema(), m, cat.For()), m
}

func pageBody(t *testing.T, rows []entity.Publisher, current, last int) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"data": map[string]any{"data": rows, "current_page": current, "last_page": last},
	})
	require.NoError(t, err)
	return b
}

func publishers(from, n int) []entity.Publisher {
	out := make([]entity.Publisher, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, entity.Publisher{ID: int64(i), Name: fmt.Sprintf("Publisher %d", i), Address: "Jakarta"})
	}
	return out
}

func query(page int, search string) url.Values {
	return url.Values{"page": {fmt.Sprint(page)}, "search": {search}}
}

func TestController_New(t *testing.T) {
	c, _ := newController(t)

	assert.Equal(t, 1, c.CurrentPage)
	assert.Equal(t, 1, c.LastPage)
	assert.False(t, c.Modal.Open())
	assert.Nil(t, c.PendingDeleteID)
	assert.Equal(t, Form{"name": "", "address": "", "email": "", "phone": ""}, c.Form)
	assert.Empty(t, c.PageItems())
}

func TestController_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces records and pages", func(t *testing.T) {
		c, m := newController(t)
		m.On("Get", ctx, "/publisher", query(2, "gra")).Return(pageBody(t, publishers(16, 3), 2, 2), nil)

		require.NoError(t, c.Load(ctx, 2, "gra"))

		assert.Len(t, c.Records, 3)
		assert.Equal(t, 2, c.CurrentPage)
		assert.Equal(t, 2, c.LastPage)
		m.AssertExpectations(t)
	})

	t.Run("failure leaves state untouched", func(t *testing.T) {
		c, m := newController(t)
		m.On("Get", ctx, "/publisher", query(1, "")).Return(pageBody(t, publishers(1, 2), 1, 1), nil).Once()
		require.NoError(t, c.Load(ctx, 1, ""))

		m.On("Get", ctx, "/publisher", query(3, "")).Return(nil, errors.New("connection refused")).Once()
		err := c.Load(ctx, 3, "")

		assert.Error(t, err)
		assert.Len(t, c.Records, 2)
		assert.Equal(t, 1, c.CurrentPage)
		assert.Equal(t, 1, c.LastPage)
		assert.Empty(t, c.Alert)
	})

	t.Run("malformed body leaves state untouched", func(t *testing.T) {
		c, m := newController(t)
		m.On("Get", ctx, "/publisher", query(1, "")).Return(json.RawMessage(`{"data":{"data":[]}}`), nil)

		err := c.Load(ctx, 1, "")

		assert.Error(t, err)
		assert.Nil(t, c.Records)
		assert.Equal(t, 1, c.LastPage)
	})
}

func TestController_SearchAndPaging(t *testing.T) {
	ctx := context.Background()

	t.Run("search resets to page one", func(t *testing.T) {
		c, m := newController(t)
		c.CurrentPage = 4
		m.On("Get", ctx, "/publisher", query(1, "gramedia")).Return(pageBody(t, publishers(1, 1), 1, 1), nil)

		require.NoError(t, c.Search(ctx, "gramedia"))

		assert.Equal(t, "gramedia", c.SearchTerm)
		assert.Equal(t, 1, c.CurrentPage)
		m.AssertExpectations(t)
	})

	t.Run("empty search lists all", func(t *testing.T) {
		c, m := newController(t)
		c.SetSearchTerm("old")
		m.On("Get", ctx, "/publisher", query(1, "")).Return(pageBody(t, publishers(1, 15), 1, 2), nil)

		require.NoError(t, c.Search(ctx, ""))

		assert.Equal(t, "", c.SearchTerm)
		m.AssertExpectations(t)
	})

	t.Run("typing does not fetch", func(t *testing.T) {
		c, m := newController(t)
		c.SetSearchTerm("gra")
		assert.Equal(t, "gra", c.SearchTerm)
		m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("change page keeps search term", func(t *testing.T) {
		c, m := newController(t)
		c.SetSearchTerm("pub")
		m.On("Get", ctx, "/publisher", query(3, "pub")).Return(pageBody(t, publishers(31, 2), 3, 3), nil)

		require.NoError(t, c.ChangePage(ctx, 3))

		assert.Equal(t, 3, c.CurrentPage)
		m.AssertExpectations(t)
	})

	t.Run("twenty records over two pages", func(t *testing.T) {
		c, m := newController(t)
		m.On("Get", ctx, "/publisher", query(1, "")).Return(pageBody(t, publishers(1, 15), 1, 2), nil)
		m.On("Get", ctx, "/publisher", query(2, "")).Return(pageBody(t, publishers(16, 5), 2, 2), nil)

		require.NoError(t, c.Load(ctx, 1, ""))
		assert.Len(t, c.Records, 15)
		assert.Equal(t, 1, c.RowNumber(0))
		assert.Equal(t, 15, c.RowNumber(14))
		assert.Equal(t, []PageItem{{Number: 1, Active: true}, {Number: 2}}, c.PageItems())

		require.NoError(t, c.ChangePage(ctx, 2))
		assert.Len(t, c.Records, 5)
		assert.Equal(t, 16, c.RowNumber(0))
		assert.Equal(t, 20, c.RowNumber(4))
		assert.Equal(t, []PageItem{{Number: 1}, {Number: 2, Active: true}}, c.PageItems())
	})
}

func TestController_RowNumberAndPageItems(t *testing.T) {
	c, _ := newController(t)

	tests := []struct {
		page, index, want int
	}{
		{1, 0, 1},
		{1, 14, 15},
		{2, 0, 16},
		{3, 4, 35},
	}
	for _, tt := range tests {
		c.CurrentPage = tt.page
		assert.Equal(t, tt.want, c.RowNumber(tt.index), "page %d index %d", tt.page, tt.index)
	}

	for _, last := range []int{0, 1} {
		c.LastPage = last
		assert.Empty(t, c.PageItems())
	}

	c.CurrentPage, c.LastPage = 2, 4
	items := c.PageItems()
	require.Len(t, items, 4)
	for i, it := range items {
		assert.Equal(t, i+1, it.Number)
		assert.Equal(t, it.Number == 2, it.Active)
	}
}

func TestController_Modal(t *testing.T) {
	c, _ := newController(t)
	c.Alert = "stale"

	c.OpenCreate()
	assert.Equal(t, ModalCreate, c.Modal.Mode)
	assert.Equal(t, "Add Publisher", c.ModalTitle())
	assert.Equal(t, "", c.Form.Get("name"))
	assert.Empty(t, c.Alert)

	p := entity.Publisher{ID: 7, Name: "Gramedia", Address: "Jakarta", Email: "info@gramedia.com", Phone: "0215"}
	c.OpenEdit(p)
	assert.Equal(t, Modal{Mode: ModalEdit, ID: 7}, c.Modal)
	assert.Equal(t, "Edit Publisher", c.ModalTitle())
	assert.Equal(t, "Gramedia", c.Form.Get("name"))
	assert.Equal(t, "0215", c.Form.Get("phone"))

	c.SetField("name", "Changed")
	assert.Equal(t, "Changed", c.Form.Get("name"))

	c.CloseModal()
	assert.False(t, c.Modal.Open())

	c.OpenCreate()
	assert.Equal(t, "", c.Form.Get("name"), "create after edit starts blank")
}

func TestController_OpenEditByID(t *testing.T) {
	c, _ := newController(t)
	c.Records = publishers(1, 3)

	assert.True(t, c.OpenEditByID(2))
	assert.Equal(t, "Publisher 2", c.Form.Get("name"))

	c.CloseModal()
	assert.False(t, c.OpenEditByID(99))
	assert.False(t, c.Modal.Open())
}

func TestController_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("create posts full payload and reloads", func(t *testing.T) {
		c, m := newController(t)
		c.OpenCreate()
		c.SetField("name", "Gramedia")
		c.SetField("address", "Jakarta")
		c.SetField("email", "info@gramedia.com")

		m.On("Post", ctx, "/publisher", entity.PublisherInput{Name: "Gramedia", Address: "Jakarta", Email: "info@gramedia.com"}).Return(nil)
		m.On("Get", ctx, "/publisher", query(1, "")).Return(pageBody(t, publishers(1, 1), 1, 1), nil)

		require.NoError(t, c.Save(ctx))

		assert.False(t, c.Modal.Open())
		assert.Empty(t, c.Alert)
		assert.Len(t, c.Records, 1)
		m.AssertExpectations(t)
	})

	t.Run("edit puts to item path with current page and search", func(t *testing.T) {
		c, m := newController(t)
		c.CurrentPage = 2
		c.SetSearchTerm("gra")
		c.OpenEdit(entity.Publisher{ID: 7, Name: "Gramedia", Address: "Jakarta"})
		c.SetField("phone", "0215551234")

		m.On("Put", ctx, "/publisher/7", entity.PublisherInput{Name: "Gramedia", Address: "Jakarta", Phone: "0215551234"}).Return(nil)
		m.On("Get", ctx, "/publisher", query(2, "gra")).Return(pageBody(t, publishers(16, 1), 2, 2), nil)

		require.NoError(t, c.Save(ctx))

		assert.False(t, c.Modal.Open())
		m.AssertExpectations(t)
	})

	t.Run("validation blocks the request", func(t *testing.T) {
		tests := []struct {
			name  string
			form  Form
			alert string
		}{
			{"blank name", Form{"name": "  ", "address": "Jakarta"}, "Name is required"},
			{"first missing field wins", Form{}, "Name is required"},
			{"missing address", Form{"name": "Gramedia"}, "Address is required"},
			{"bad email", Form{"name": "G", "address": "J", "email": "a@b"}, "Invalid email format"},
			{"bad phone", Form{"name": "G", "address": "J", "phone": "12a45"}, "Phone must be numeric and max 15 digits"},
			{"long phone", Form{"name": "G", "address": "J", "phone": strings.Repeat("1", 16)}, "Phone must be numeric and max 15 digits"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c, m := newController(t)
				c.OpenCreate()
				for k, v := range tt.form {
					c.SetField(k, v)
				}

				err := c.Save(ctx)

				assert.ErrorIs(t, err, ErrValidation)
				assert.Equal(t, tt.alert, c.Alert)
				assert.True(t, c.Modal.Open())
				m.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
				m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("api failure keeps modal and input", func(t *testing.T) {
		c, m := newController(t)
		c.OpenCreate()
		c.SetField("name", "Gramedia")
		c.SetField("address", "Jakarta")
		m.On("Post", ctx, "/publisher", mock.Anything).Return(errors.New("500 Internal Server Error"))

		err := c.Save(ctx)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidation)
		assert.True(t, c.Modal.Open())
		assert.Equal(t, "Gramedia", c.Form.Get("name"))
		assert.Equal(t, "Failed to save publisher", c.Alert)
		m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reload failure is silent", func(t *testing.T) {
		c, m := newController(t)
		c.OpenCreate()
		c.SetField("name", "Gramedia")
		c.SetField("address", "Jakarta")
		m.On("Post", ctx, "/publisher", mock.Anything).Return(nil)
		m.On("Get", ctx, "/publisher", query(1, "")).Return(nil, errors.New("timeout"))

		assert.NoError(t, c.Save(ctx))
		assert.False(t, c.Modal.Open())
		assert.Empty(t, c.Alert)
	})

	t.Run("reload hook replaces load", func(t *testing.T) {
		c, m := newController(t)
		c.CurrentPage = 3
		c.SetSearchTerm("x")
		var gotPage int
		var gotSearch string
		c.OnReload = func(_ context.Context, page int, search string) error {
			gotPage, gotSearch = page, search
			return nil
		}
		c.OpenCreate()
		c.SetField("name", "Gramedia")
		c.SetField("address", "Jakarta")
		m.On("Post", ctx, "/publisher", mock.Anything).Return(nil)

		require.NoError(t, c.Save(ctx))

		assert.Equal(t, 3, gotPage)
		assert.Equal(t, "x", gotSearch)
		m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no open modal", func(t *testing.T) {
		c, _ := newController(t)
		assert.Error(t, c.Save(ctx))
	})
}

func TestController_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm then cancel", func(t *testing.T) {
		c, m := newController(t)
		c.ConfirmDelete(7)
		require.True(t, c.DeletePromptOpen())
		assert.Equal(t, int64(7), *c.PendingDeleteID)

		c.CancelDelete()
		assert.False(t, c.DeletePromptOpen())
		m.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("confirmed delete reloads current page", func(t *testing.T) {
		c, m := newController(t)
		c.CurrentPage = 2
		c.SetSearchTerm("pub")
		c.ConfirmDelete(7)
		m.On("Delete", ctx, "/publisher/7").Return(nil)
		m.On("Get", ctx, "/publisher", query(2, "pub")).Return(pageBody(t, publishers(16, 4), 2, 2), nil)

		require.NoError(t, c.DeleteConfirmed(ctx))

		assert.False(t, c.DeletePromptOpen())
		assert.Len(t, c.Records, 4)
		m.AssertExpectations(t)
	})

	t.Run("failure keeps prompt for retry", func(t *testing.T) {
		c, m := newController(t)
		c.ConfirmDelete(7)
		m.On("Delete", ctx, "/publisher/7").Return(errors.New("409 Conflict"))

		err := c.DeleteConfirmed(ctx)

		assert.Error(t, err)
		require.True(t, c.DeletePromptOpen())
		assert.Equal(t, int64(7), *c.PendingDeleteID)
		assert.Equal(t, "Failed to delete publisher", c.Alert)
		m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nothing pending is a no-op", func(t *testing.T) {
		c, m := newController(t)
		assert.NoError(t, c.DeleteConfirmed(ctx))
		m.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestController_Restore(t *testing.T) {
	c, m := newController(t)
	id := int64(9)

	c.Restore(State{
		Page:            3,
		Search:          "gra",
		Modal:           Modal{Mode: ModalEdit, ID: 4},
		Form:            Form{"name": "Gramedia"},
		PendingDeleteID: &id,
	})
	id = 10

	assert.Equal(t, 3, c.CurrentPage)
	assert.Equal(t, "gra", c.SearchTerm)
	assert.Equal(t, Modal{Mode: ModalEdit, ID: 4}, c.Modal)
	assert.Equal(t, "Gramedia", c.Form.Get("name"))
	assert.Equal(t, "", c.Form.Get("address"))
	assert.Equal(t, int64(9), *c.PendingDeleteID)
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}
