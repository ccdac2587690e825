package middleware

import (
	"net/http"

	"todo-web/internal/session"
)

type Middleware struct {
	Sessions *session.Store
}

func NewMiddleware(sessions *session.Store) *Middleware {
	return &Middleware{Sessions: sessions}
}

// WithSession hydrates the cookie session into the request context.
// Every gate below runs strictly after this, so role checks never fire
// against a not-yet-hydrated session.
func (m *Middleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.Sessions.Load(r)
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// RequireUser sends anonymous visitors to the login form.
func (m *Middleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		if !sess.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin additionally bounces signed-in non-admins to their todo
// list without rendering any admin content.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		if !sess.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !sess.User.IsAdmin() {
			m.Sessions.AddFlash(w, r, "error", "Access denied. Admins only.")
			http.Redirect(w, r, "/todo", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
