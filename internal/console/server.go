// Package console serves the server-rendered admin screens: login,
// dashboard and one list/edit screen per catalog entity.
package console

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strings"

	"bookconsole/internal/apiclient"
	"bookconsole/internal/catalog"
	"bookconsole/internal/crud"
	"bookconsole/internal/httpx"
	"bookconsole/internal/locale"
	"bookconsole/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const loginPath = "/login"

// Backend is the catalog API as the console uses it.
type Backend interface {
	crud.API
	Login(ctx context.Context, email, password string) (string, error)
}

type Server struct {
	backend Backend
	store   session.TokenStore
	locales *locale.Catalog
	pages   map[string]*template.Template
}

func New(backend Backend, store session.TokenStore, locales *locale.Catalog) (*Server, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"login.html", "dashboard.html", "list.html"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Server{
		backend: backend,
		store:   store,
		locales: locales,
		pages:   pages,
	}, nil
}

// Routes returns the console's router. Every screen except login sits
// behind the session gate, and every form post must carry the session's
// CSRF token.
func (s *Server) Routes() http.Handler {
	pages := http.NewServeMux()
	gate := session.Gate(s.store, loginPath)

	pages.HandleFunc("GET "+loginPath, s.loginPage)
	pages.HandleFunc("POST "+loginPath, s.login)
	pages.HandleFunc("POST /logout", s.logout)
	pages.Handle("GET /{$}", gate(http.HandlerFunc(s.dashboard)))

	register(s, pages, gate, "authors", catalog.Authors())
	register(s, pages, gate, "books", catalog.Books())
	register(s, pages, gate, "publishers", catalog.Publishers())

	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/", session.CSRF(s.store)(pages))

	return forwardClientIP(mux)
}

// forwardClientIP makes the API calls served for r go out on behalf of the
// visitor's address instead of the console's own.
func forwardClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := apiclient.ContextWithClientIP(r.Context(), httpx.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) messages(r *http.Request) *locale.Messages {
	return s.locales.For(langParam(r), r.Header.Get("Accept-Language"))
}

// expired handles an API rejection of the session token by dropping it and
// sending the visitor back to login. It reports whether it responded.
func (s *Server) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	if clearErr := s.store.Clear(w, r); clearErr != nil {
		log.Printf("console: clear session failed err=%v", clearErr)
	}
	http.Redirect(w, r, withLang(loginPath, langParam(r)), http.StatusSeeOther)
	return true
}

// langParam is the explicit ?lang= choice of r, or "".
func langParam(r *http.Request) string {
	return r.URL.Query().Get("lang")
}

// withLang appends lang to path as a query parameter when set.
func withLang(path, lang string) string {
	if lang == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "lang=" + url.QueryEscape(lang)
}

func (s *Server) render(w http.ResponseWriter, page string, status int, view any) {
	t, ok := s.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", view); err != nil {
		log.Printf("console: render %s failed err=%v", page, err)
	}
}
