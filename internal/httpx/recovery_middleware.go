package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
	"strings"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: request_id=%s error=%v stack=%s", RequestIDFrom(r), err, string(debug.Stack()))

				if rw, ok := w.(*responseWriter); ok && rw.wroteHeader() {
					return
				}
				if strings.Contains(r.Header.Get("Accept"), "text/html") {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
