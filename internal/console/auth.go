package console

import (
	"log"
	"net/http"
	"strings"

	"bookconsole/internal/session"
)

type loginView struct {
	chrome
	Email string
	Alert string
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.store.Token(r); ok {
		http.Redirect(w, r, withLang("/", langParam(r)), http.StatusSeeOther)
		return
	}
	msgs := s.messages(r)
	s.render(w, "login.html", http.StatusOK, &loginView{chrome: newChrome(r, msgs, "login_title", false)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	msgs := s.messages(r)
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	view := &loginView{chrome: newChrome(r, msgs, "login_title", false), Email: email}
	if email == "" || password == "" {
		view.Alert = msgs.Get("login_required")
		s.render(w, "login.html", http.StatusUnprocessableEntity, view)
		return
	}

	token, err := s.backend.Login(r.Context(), email, password)
	if err != nil {
		log.Printf("console: login failed email=%s err=%v", email, err)
		view.Alert = msgs.Get("login_failed")
		s.render(w, "login.html", http.StatusUnauthorized, view)
		return
	}

	if err := s.store.Save(w, r, token); err != nil {
		log.Printf("console: save session failed err=%v", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, withLang("/", langParam(r)), http.StatusSeeOther)
}

// logout revokes the token at the API when possible, then always forgets
// it locally.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := s.store.Token(r); ok {
		ctx := session.ContextWithToken(r.Context(), token)
		if err := s.backend.Post(ctx, "/logout", nil); err != nil {
			log.Printf("console: api logout failed err=%v", err)
		}
	}
	if err := s.store.Clear(w, r); err != nil {
		log.Printf("console: clear session failed err=%v", err)
	}
	http.Redirect(w, r, withLang(loginPath, langParam(r)), http.StatusSeeOther)
}

type dashboardView struct {
	chrome
	Cards []dashboardCard
}

type dashboardCard struct {
	Title       string
	Description string
	URL         string
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	msgs := s.messages(r)
	ch := newChrome(r, msgs, "dashboard_title", true)
	view := &dashboardView{
		chrome: ch,
		Cards: []dashboardCard{
			{Title: msgs.Get("screen_authors"), Description: msgs.Get("manage_authors"), URL: ch.Link("/authors")},
			{Title: msgs.Get("screen_books"), Description: msgs.Get("manage_books"), URL: ch.Link("/books")},
			{Title: msgs.Get("screen_publishers"), Description: msgs.Get("manage_publishers"), URL: ch.Link("/publishers")},
		},
	}
	s.render(w, "dashboard.html", http.StatusOK, view)
}
