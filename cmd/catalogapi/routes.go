package main

import (
	"context"
	"net/http"
	"time"

	"bookconsole/internal/author"
	"bookconsole/internal/book"
	"bookconsole/internal/publisher"
	"bookconsole/internal/user"
)

type handlers struct {
	authors    *author.HTTPHandler
	books      *book.HTTPHandler
	publishers *publisher.HTTPHandler
	users      *user.HTTPHandler
}

type middleware = func(http.Handler) http.Handler

// crudHandler is the handler set every catalog entity exposes.
type crudHandler interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// newRouter registers the catalog API. Everything but the health checks and login
// requires a bearer token.
func newRouter(h handlers, auth, loginLimit middleware, ready func(context.Context) error) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("POST /login", loginLimit(http.HandlerFunc(h.users.Login)))
	router.Handle("POST /logout", auth(http.HandlerFunc(h.users.Logout)))
	router.Handle("GET /me", auth(http.HandlerFunc(h.users.Me)))

	registerCRUD(router, "/author", h.authors, auth)
	registerCRUD(router, "/book", h.books, auth)
	registerCRUD(router, "/publisher", h.publishers, auth)

	return router
}

func registerCRUD(router *http.ServeMux, base string, h crudHandler, auth middleware) {
	router.Handle("GET "+base, auth(http.HandlerFunc(h.List)))
	router.Handle("POST "+base, auth(http.HandlerFunc(h.Create)))
	router.Handle("GET "+base+"/{id}", auth(http.HandlerFunc(h.Get)))
	router.Handle("PUT "+base+"/{id}", auth(http.HandlerFunc(h.Update)))
	router.Handle("DELETE "+base+"/{id}", auth(http.HandlerFunc(h.Delete)))
}
