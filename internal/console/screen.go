package console

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"bookconsole/internal/crud"
	"bookconsole/internal/locale"
)

// screen serves one entity's list, modal form and delete prompt. Every
// request builds a fresh controller; page, search and modal state travel
// in the URL or the posted form.
type screen[E any] struct {
	srv    *Server
	slug   string
	schema crud.Schema[E]
}

func register[E any](s *Server, mux *http.ServeMux, gate func(http.Handler) http.Handler, slug string, schema crud.Schema[E]) {
	sc := &screen[E]{srv: s, slug: slug, schema: schema}
	mux.Handle("GET /"+slug, gate(http.HandlerFunc(sc.list)))
	mux.Handle("POST /"+slug+"/save", gate(http.HandlerFunc(sc.save)))
	mux.Handle("POST /"+slug+"/delete", gate(http.HandlerFunc(sc.remove)))
}

func (sc *screen[E]) controller(r *http.Request) (*crud.Controller[E], *locale.Messages) {
	msgs := sc.srv.messages(r)
	return crud.New(sc.schema, sc.srv.backend, msgs), msgs
}

func (sc *screen[E]) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, msgs := sc.controller(r)

	var err error
	if q.Has("page") {
		c.SetSearchTerm(q.Get("search"))
		err = c.ChangePage(r.Context(), positiveInt(q.Get("page"), 1))
	} else {
		err = c.Search(r.Context(), q.Get("search"))
	}
	if sc.srv.expired(w, r, err) {
		return
	}

	switch q.Get("modal") {
	case "create":
		c.OpenCreate()
	case "edit":
		if id, ok := parseID(q.Get("id")); ok {
			c.OpenEditByID(id)
		}
	}
	if id, ok := parseID(q.Get("delete")); ok {
		c.ConfirmDelete(id)
	}

	sc.render(w, r, c, msgs, http.StatusOK)
}

func (sc *screen[E]) save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	st := sc.postedState(r)
	st.Modal = crud.Modal{Mode: crud.ModalCreate}
	if r.PostForm.Get("mode") == "edit" {
		id, ok := parseID(r.PostForm.Get("id"))
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		st.Modal = crud.Modal{Mode: crud.ModalEdit, ID: id}
	}

	c, msgs := sc.controller(r)
	c.Restore(st)
	for _, f := range sc.schema.Fields {
		c.SetField(f.Name, r.PostForm.Get(f.Name))
	}
	target := sc.redirectOnReload(r, c)

	err := c.Save(r.Context())
	if err == nil {
		http.Redirect(w, r, *target, http.StatusSeeOther)
		return
	}
	if sc.srv.expired(w, r, err) {
		return
	}

	_ = c.Load(r.Context(), st.Page, st.Search)
	status := http.StatusOK
	if errors.Is(err, crud.ErrValidation) {
		status = http.StatusUnprocessableEntity
	}
	sc.render(w, r, c, msgs, status)
}

func (sc *screen[E]) remove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id, ok := parseID(r.PostForm.Get("id"))
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	st := sc.postedState(r)
	st.PendingDeleteID = &id

	c, msgs := sc.controller(r)
	c.Restore(st)
	target := sc.redirectOnReload(r, c)

	err := c.DeleteConfirmed(r.Context())
	if err == nil {
		http.Redirect(w, r, *target, http.StatusSeeOther)
		return
	}
	if sc.srv.expired(w, r, err) {
		return
	}

	_ = c.Load(r.Context(), st.Page, st.Search)
	sc.render(w, r, c, msgs, http.StatusOK)
}

func (sc *screen[E]) postedState(r *http.Request) crud.State {
	return crud.State{
		Page:   positiveInt(r.PostForm.Get("page"), 1),
		Search: r.PostForm.Get("search"),
	}
}

// redirectOnReload turns the controller's post-mutation reload into a
// redirect target so the browser re-fetches the list with GET.
func (sc *screen[E]) redirectOnReload(r *http.Request, c *crud.Controller[E]) *string {
	lang := langParam(r)
	target := sc.listURL(lang, 1, "", nil)
	c.OnReload = func(_ context.Context, page int, search string) error {
		target = sc.listURL(lang, page, search, nil)
		return nil
	}
	return &target
}

func (sc *screen[E]) listURL(lang string, page int, search string, extra url.Values) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}
	if lang != "" {
		q.Set("lang", lang)
	}
	for k, vs := range extra {
		q[k] = vs
	}
	return "/" + sc.slug + "?" + q.Encode()
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
