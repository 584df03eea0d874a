// Package session keeps the catalog API token for a console visitor and
// gates screens that need one.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

// TokenKey is the session value the token is stored under.
const TokenKey = "token"

const csrfKey = "csrf"

const cookieName = "bookconsole_session"

// TokenStore persists the opaque API token between requests, along with
// the visitor's CSRF token.
type TokenStore interface {
	Token(r *http.Request) (string, bool)
	Save(w http.ResponseWriter, r *http.Request, token string) error
	Clear(w http.ResponseWriter, r *http.Request) error
	CSRFToken(w http.ResponseWriter, r *http.Request) (string, error)
	ValidCSRF(r *http.Request, provided string) bool
}

// CookieStore keeps the token in a signed, HTTP-only cookie.
type CookieStore struct {
	store sessions.Store
	name  string
}

func NewCookieStore(secret []byte, secure bool) *CookieStore {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: cs, name: cookieName}
}

// Token reports the stored token. A cookie that fails verification counts
// as no token.
func (s *CookieStore) Token(r *http.Request) (string, bool) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		log.Printf("session: discarding unreadable cookie err=%v", err)
		return "", false
	}
	token, ok := sess.Values[TokenKey].(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Values[TokenKey] = token
	return sess.Save(r, w)
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	delete(sess.Values, TokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// CSRFToken returns the session's CSRF token, minting and saving one when
// the session has none yet.
func (s *CookieStore) CSRFToken(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, _ := s.store.Get(r, s.name)
	if token, ok := sess.Values[csrfKey].(string); ok && token != "" {
		return token, nil
	}
	token, err := newCSRFToken()
	if err != nil {
		return "", err
	}
	sess.Values[csrfKey] = token
	return token, sess.Save(r, w)
}

// ValidCSRF reports whether provided matches the session's CSRF token.
func (s *CookieStore) ValidCSRF(r *http.Request, provided string) bool {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return false
	}
	expected, _ := sess.Values[csrfKey].(string)
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

func newCSRFToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

type contextKey struct{}

// ContextWithToken returns ctx carrying token for outbound API calls.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKey{}, token)
}

// TokenFrom returns the token placed by Gate, or "".
func TokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}
