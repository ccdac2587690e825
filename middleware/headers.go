package middleware

import (
	"net/http"
)

// NoStore keeps session-rendered pages out of shared caches. Every page
// here is personalized, so nothing is safely cacheable.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
