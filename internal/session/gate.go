package session

import "net/http"

// Gate blocks rendering for visitors without a token: they get exactly one
// 303 redirect to loginPath and next is never called. With a token the
// request proceeds with the token in its context. The token itself is not
// validated.
func Gate(store TokenStore, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := store.Token(r)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithToken(r.Context(), token)))
		})
	}
}
