package author

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookconsole/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context, q Query) ([]entity.Author, int, error) {
	args := m.Called(ctx, q)
	authors, _ := args.Get(0).([]entity.Author)
	return authors, args.Int(1), args.Error(2)
}

func (m *mockRepository) Names(ctx context.Context) ([]entity.NamedRef, error) {
	args := m.Called(ctx)
	refs, _ := args.Get(0).([]entity.NamedRef)
	return refs, args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (entity.Author, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Author), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, in entity.AuthorInput) (entity.Author, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Author), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, id int64, in entity.AuthorInput) (entity.Author, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(entity.Author), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newHandler() (*HTTPHandler, *mockRepository) {
	repo := &mockRepository{}
	return NewHTTPHandler(NewService(repo)), repo
}

type pageBody struct {
	Data struct {
		Data        []entity.Author `json:"data"`
		CurrentPage int             `json:"current_page"`
		LastPage    int             `json:"last_page"`
	} `json:"data"`
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("second page of twenty", func(t *testing.T) {
		h, repo := newHandler()
		page := make([]entity.Author, 5)
		repo.On("List", mock.Anything, Query{Search: "ann", Limit: 15, Offset: 15}).Return(page, 20, nil)

		w := httptest.NewRecorder()
		h.List(w, httptest.NewRequest(http.MethodGet, "/author?page=2&search=ann", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body pageBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Data.Data, 5)
		assert.Equal(t, 2, body.Data.CurrentPage)
		assert.Equal(t, 2, body.Data.LastPage)
		repo.AssertExpectations(t)
	})

	t.Run("empty", func(t *testing.T) {
		h, repo := newHandler()
		repo.On("List", mock.Anything, mock.Anything).Return(nil, 0, nil)

		w := httptest.NewRecorder()
		h.List(w, httptest.NewRequest(http.MethodGet, "/author", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
		assert.Contains(t, w.Body.String(), `"last_page":1`)
	})

	t.Run("error", func(t *testing.T) {
		h, repo := newHandler()
		repo.On("List", mock.Anything, mock.Anything).Return(nil, 0, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		h.List(w, httptest.NewRequest(http.MethodGet, "/author", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		setup      func(*mockRepository)
		wantStatus int
	}{
		{
			name: "found",
			id:   "3",
			setup: func(m *mockRepository) {
				m.On("GetByID", mock.Anything, int64(3)).Return(entity.Author{ID: 3, Name: "Ann"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing",
			id:   "4",
			setup: func(m *mockRepository) {
				m.On("GetByID", mock.Anything, int64(4)).Return(entity.Author{}, ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad id",
			id:         "abc",
			setup:      func(*mockRepository) {},
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newHandler()
			tt.setup(repo)

			r := httptest.NewRequest(http.MethodGet, "/author/"+tt.id, nil)
			r.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			h.Get(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			repo.AssertExpectations(t)
		})
	}
}

func TestHTTPHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mockRepository)
		wantStatus int
		wantField  string
	}{
		{
			name: "created",
			body: `{"name":"Ann","bio":"Writes."}`,
			setup: func(m *mockRepository) {
				m.On("Create", mock.Anything, entity.AuthorInput{Name: "Ann", Bio: "Writes."}).
					Return(entity.Author{ID: 9, Name: "Ann", Bio: "Writes."}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "bio optional",
			body: `{"name":"Ann"}`,
			setup: func(m *mockRepository) {
				m.On("Create", mock.Anything, entity.AuthorInput{Name: "Ann"}).Return(entity.Author{ID: 9, Name: "Ann"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "blank name",
			body:       `{"name":"   "}`,
			setup:      func(*mockRepository) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "name",
		},
		{
			name:       "malformed",
			body:       `{"name":`,
			setup:      func(*mockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			body: `{"name":"Ann"}`,
			setup: func(m *mockRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(entity.Author{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newHandler()
			tt.setup(repo)

			w := httptest.NewRecorder()
			h.Create(w, httptest.NewRequest(http.MethodPost, "/author", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				assert.Contains(t, w.Body.String(), `"field":"`+tt.wantField+`"`)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestHTTPHandler_Update(t *testing.T) {
	t.Run("replaced", func(t *testing.T) {
		h, repo := newHandler()
		in := entity.AuthorInput{Name: "Ann B", Bio: ""}
		repo.On("Update", mock.Anything, int64(2), in).Return(entity.Author{ID: 2, Name: "Ann B"}, nil)

		r := httptest.NewRequest(http.MethodPut, "/author/2", strings.NewReader(`{"name":"Ann B","bio":""}`))
		r.SetPathValue("id", "2")
		w := httptest.NewRecorder()
		h.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		h, repo := newHandler()
		repo.On("Update", mock.Anything, int64(2), mock.Anything).Return(entity.Author{}, ErrNotFound)

		r := httptest.NewRequest(http.MethodPut, "/author/2", strings.NewReader(`{"name":"Ann"}`))
		r.SetPathValue("id", "2")
		w := httptest.NewRecorder()
		h.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "missing", err: ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "referenced", err: ErrInUse, wantStatus: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newHandler()
			repo.On("Delete", mock.Anything, int64(5)).Return(tt.err)

			r := httptest.NewRequest(http.MethodDelete, "/author/5", nil)
			r.SetPathValue("id", "5")
			w := httptest.NewRecorder()
			h.Delete(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			repo.AssertExpectations(t)
		})
	}
}
