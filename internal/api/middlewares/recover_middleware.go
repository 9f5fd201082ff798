package middlewares

import (
	"log"
	"net/http"
	"runtime/debug"
)

// RecoverMiddleware converts a panic in any handler into a generic 500 so a
// single bad request cannot crash the process. Detail stays in the server
// log only.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("ERROR: panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
