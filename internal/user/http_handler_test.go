package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookconsole/internal/entity"
	"bookconsole/internal/httpx"
	"bookconsole/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-length-000"

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (entity.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.User), args.Error(1)
}

type mockBlacklist struct {
	mock.Mock
}

func (m *mockBlacklist) AddToken(ctx context.Context, jti string, userID string, expiresAt time.Time) error {
	return m.Called(ctx, jti, userID, expiresAt).Error(0)
}

func newTestHandler(t *testing.T) (*HTTPHandler, *mockRepository, *mockBlacklist) {
	t.Helper()
	repo := &mockRepository{}
	bl := &mockBlacklist{}
	return NewHTTPHandler(NewService(repo, bl, testSecret, time.Hour)), repo, bl
}

func adminUser(t *testing.T) entity.User {
	t.Helper()
	hash, err := crypto.HashPassword("Secret123!")
	require.NoError(t, err)
	return entity.User{ID: "u-1", Email: "admin@example.com", Name: "Admin", Role: crypto.RoleAdmin, Password: hash}
}

func TestHTTPHandler_Login(t *testing.T) {
	t.Run("issues a token the API accepts", func(t *testing.T) {
		h, repo, _ := newTestHandler(t)
		repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(adminUser(t), nil)

		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"email":" admin@example.com ","password":"Secret123!"}`)))

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data struct {
				Token     string `json:"token"`
				ExpiresIn int    `json:"expires_in"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 3600, body.Data.ExpiresIn)

		claims, err := crypto.ParseToken(testSecret, body.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.Sub)
		assert.Equal(t, crypto.RoleAdmin, claims.Role)
	})

	tests := []struct {
		name       string
		body       string
		setup      func(*testing.T, *mockRepository)
		wantStatus int
	}{
		{
			name: "wrong password",
			body: `{"email":"admin@example.com","password":"nope"}`,
			setup: func(t *testing.T, m *mockRepository) {
				m.On("GetByEmail", mock.Anything, "admin@example.com").Return(adminUser(t), nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			body: `{"email":"ghost@example.com","password":"Secret123!"}`,
			setup: func(t *testing.T, m *mockRepository) {
				m.On("GetByEmail", mock.Anything, "ghost@example.com").Return(entity.User{}, ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "blank password",
			body:       `{"email":"admin@example.com","password":""}`,
			setup:      func(*testing.T, *mockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			body: `{"email":"admin@example.com","password":"Secret123!"}`,
			setup: func(t *testing.T, m *mockRepository) {
				m.On("GetByEmail", mock.Anything, mock.Anything).Return(entity.User{}, errors.New("conn reset"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo, _ := newTestHandler(t)
			tt.setup(t, repo)

			w := httptest.NewRecorder()
			h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code)
			repo.AssertExpectations(t)
		})
	}
}

func TestHTTPHandler_Logout(t *testing.T) {
	token, jti, err := crypto.GenerateToken(testSecret, "u-1", crypto.RoleAdmin, time.Hour)
	require.NoError(t, err)

	newRequest := func(token string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/logout", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		return r.WithContext(httpx.ContextWithUser(r.Context(), "u-1", crypto.RoleAdmin, jti))
	}

	t.Run("revokes the presented token", func(t *testing.T) {
		h, _, bl := newTestHandler(t)
		bl.On("AddToken", mock.Anything, jti, "u-1", mock.AnythingOfType("time.Time")).Return(nil)

		w := httptest.NewRecorder()
		h.Logout(w, newRequest(token))

		assert.Equal(t, http.StatusNoContent, w.Code)
		bl.AssertExpectations(t)
	})

	t.Run("blacklist failure", func(t *testing.T) {
		h, _, bl := newTestHandler(t)
		bl.On("AddToken", mock.Anything, jti, "u-1", mock.Anything).Return(errors.New("db down"))

		w := httptest.NewRecorder()
		h.Logout(w, newRequest(token))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("foreign token", func(t *testing.T) {
		h, _, bl := newTestHandler(t)
		other, _, err := crypto.GenerateToken("another-secret-of-sufficient-size", "u-1", crypto.RoleAdmin, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.Logout(w, newRequest(other))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		bl.AssertNotCalled(t, "AddToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		w := httptest.NewRecorder()
		h.Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPHandler_Me(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	repo.On("GetByID", mock.Anything, "u-1").Return(entity.User{ID: "u-1", Email: "admin@example.com", Password: "hash"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r = r.WithContext(httpx.ContextWithUser(r.Context(), "u-1", crypto.RoleAdmin, "jti"))
	w := httptest.NewRecorder()
	h.Me(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"admin@example.com"`)
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestService_Register(t *testing.T) {
	t.Run("weak password", func(t *testing.T) {
		repo := &mockRepository{}
		svc := NewService(repo, &mockBlacklist{}, testSecret, time.Hour)

		_, err := svc.Register(context.Background(), "a@b.com", "A", "weak", crypto.RoleEditor)
		assert.ErrorIs(t, err, crypto.ErrPasswordTooShort)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("stores a bcrypt hash", func(t *testing.T) {
		repo := &mockRepository{}
		svc := NewService(repo, &mockBlacklist{}, testSecret, time.Hour)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "a@b.com" && crypto.VerifyPassword(u.Password, "Secret123!")
		})).Return(nil)

		u, err := svc.Register(context.Background(), " a@b.com ", "Ann", "Secret123!", crypto.RoleEditor)
		require.NoError(t, err)
		assert.Equal(t, "Ann", u.Name)
		repo.AssertExpectations(t)
	})
}
