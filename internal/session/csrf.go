package session

import (
	"context"
	"log"
	"net/http"
)

// CSRFField is the form field every state-changing request must carry.
const CSRFField = "csrf_token"

type csrfContextKey struct{}

// CSRF makes sure each visitor has a CSRF token in their session and
// rejects unsafe requests whose csrf_token form field does not match it.
// The token is placed in the request context for templates.
func CSRF(store TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
			default:
				if !store.ValidCSRF(r, r.PostFormValue(CSRFField)) {
					http.Error(w, "CSRF token validation failed", http.StatusForbidden)
					return
				}
			}

			token, err := store.CSRFToken(w, r)
			if err != nil {
				log.Printf("session: csrf token unavailable err=%v", err)
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)))
		})
	}
}

// CSRFTokenFrom returns the token placed by CSRF, or "".
func CSRFTokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(csrfContextKey{}).(string); ok {
		return v
	}
	return ""
}
