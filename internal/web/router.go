package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"todo-web/middleware"
)

func (h *WebHandler) SetupRoutes(m *middleware.Middleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(m.WithSession)

	r.HandleFunc("/", h.Index).Methods("GET")

	r.HandleFunc("/login", h.Login).Methods("GET", "POST")
	r.HandleFunc("/register", h.Register).Methods("GET", "POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")

	r.HandleFunc("/todo", m.RequireUser(h.TodoPage)).Methods("GET")
	r.HandleFunc("/todo/create", m.RequireUser(h.TodoCreate)).Methods("POST")
	r.HandleFunc("/todo/{id}/mark", m.RequireUser(h.TodoMark)).Methods("POST")
	r.HandleFunc("/todo/delete", m.RequireUser(h.TodoDelete)).Methods("POST")

	r.HandleFunc("/admin", m.RequireAdmin(h.Admin)).Methods("GET")

	// NotFoundHandler bypasses router middleware; wrap it so the 404
	// page still sees the session.
	r.NotFoundHandler = m.WithSession(http.HandlerFunc(h.NotFound))

	return r
}
