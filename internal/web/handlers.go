package web

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"todo-web/internal/api"
	"todo-web/internal/auth"
	"todo-web/internal/config"
	"todo-web/internal/session"
	"todo-web/internal/todo"
	"todo-web/models"
)

type WebHandler struct {
	authService *auth.AuthService
	todoService *todo.TodoService
	sessions    *session.Store
	templates   *template.Template
	config      *config.Config
}

// PageData is the payload handed to every page template.
type PageData struct {
	Page    string
	User    *models.User
	Flashes []session.Flash
	Error   string
	Form    map[string]string
	Todos   []models.Todo
	Status  models.TodoStatus
	Item    string
	Admin   *AdminData
}

// AdminData drives the read-only admin table and its controls.
type AdminData struct {
	Todos      []models.Todo
	Total      int
	Page       int
	TotalPages int
	Status     models.TodoStatus
	Search     string
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

func NewWebHandler(
	authService *auth.AuthService,
	todoService *todo.TodoService,
	sessions *session.Store,
	cfg *config.Config,
) *WebHandler {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	tmpl := template.New("").Funcs(funcMap)

	var files []string
	for _, pattern := range []string{"layouts/*.html", "components/*.html", "pages/*.html"} {
		matches, err := filepath.Glob(filepath.Join(cfg.TemplatesDir, pattern))
		if err != nil {
			panic(fmt.Sprintf("Failed to glob templates: %v", err))
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		panic(fmt.Sprintf("No template files found under %s", cfg.TemplatesDir))
	}

	tmpl, err := tmpl.ParseFiles(files...)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse templates: %v", err))
	}

	return &WebHandler{
		authService: authService,
		todoService: todoService,
		sessions:    sessions,
		templates:   tmpl,
		config:      cfg,
	}
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data PageData) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template %s execution error: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// pageData seeds the template payload with the session user and any
// pending flash notices.
func (h *WebHandler) pageData(w http.ResponseWriter, r *http.Request, page string) PageData {
	sess, _ := session.FromContext(r.Context())
	return PageData{
		Page:    page,
		User:    sess.User,
		Flashes: h.sessions.Flashes(w, r),
	}
}

// expiredSession handles the one API error the views do not surface in
// place: a 401 on a protected call means the stored token is no longer
// honored, so the dead session is cleared and the user sent back to the
// login form.
func (h *WebHandler) expiredSession(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	if clearErr := h.sessions.ClearWithNotice(w, r, "error", "Your session has expired. Please sign in again."); clearErr != nil {
		log.Printf("Failed to clear expired session: %v", clearErr)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// Index routes by session: anonymous to login, admins to the admin
// table, everyone else to their todo list.
func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	switch {
	case !sess.Authenticated():
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case sess.User.IsAdmin():
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/todo", http.StatusSeeOther)
	}
}

func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "login.html", h.pageData(w, r, "login"))
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	data := h.pageData(w, r, "login")
	data.Form = map[string]string{"email": email}

	if email == "" || password == "" {
		data.Error = "Email and password are required."
		h.render(w, "login.html", data)
		return
	}

	token, user, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		data.Error = api.UserMessage(err, "Something unexpected went wrong. Please try again.")
		h.render(w, "login.html", data)
		return
	}

	if err := h.sessions.Save(w, r, token, user); err != nil {
		log.Printf("Failed to save session: %v", err)
		data.Error = "Could not start a session. Please try again."
		h.render(w, "login.html", data)
		return
	}

	if user.IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/todo", http.StatusSeeOther)
}

func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "register.html", h.pageData(w, r, "register"))
		return
	}

	firstName := strings.TrimSpace(r.FormValue("firstName"))
	lastName := strings.TrimSpace(r.FormValue("lastName"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirmPassword")

	data := h.pageData(w, r, "register")
	data.Form = map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"phone":     r.FormValue("phone"),
		"country":   r.FormValue("country"),
		"about":     r.FormValue("about"),
	}

	fullName := strings.TrimSpace(firstName + " " + lastName)

	// All validation runs before any network call.
	switch {
	case fullName == "" || email == "":
		data.Error = "Name and email are required."
	case password == "":
		data.Error = "Password is required."
	case password != confirm:
		data.Error = "Password and confirmation do not match."
	}
	if data.Error != "" {
		h.render(w, "register.html", data)
		return
	}

	// The API accepts fullName, email and password; the remaining form
	// fields are collected but not transmitted.
	reg := auth.Registration{FullName: fullName, Email: email, Password: password}
	if err := h.authService.Register(r.Context(), reg); err != nil {
		data.Error = api.UserMessage(err, "Something unexpected went wrong during registration.")
		h.render(w, "register.html", data)
		return
	}

	// No auto-login after registration.
	h.sessions.AddFlash(w, r, "success", "Registration successful. Please sign in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// TodoPage fetches the signed-in user's todos, narrowed by the status
// filter only. Every render replaces the whole list.
func (h *WebHandler) TodoPage(w http.ResponseWriter, r *http.Request) {
	status := models.ParseTodoStatus(r.URL.Query().Get("status"))

	data := h.pageData(w, r, "todo")
	data.Status = status

	page, err := h.todoService.List(r.Context(), todo.ListQuery{Status: status})
	if err != nil {
		if h.expiredSession(w, r, err) {
			return
		}
		data.Error = api.UserMessage(err, "Failed to load todos.")
		h.render(w, "todos.html", data)
		return
	}

	data.Todos = page.Entries
	h.render(w, "todos.html", data)
}

func (h *WebHandler) TodoCreate(w http.ResponseWriter, r *http.Request) {
	status := models.ParseTodoStatus(r.FormValue("status"))
	item := strings.TrimSpace(r.FormValue("item"))

	if item == "" {
		// Whitespace-only input never reaches the network.
		h.sessions.AddFlash(w, r, "error", "Todo text cannot be empty.")
		http.Redirect(w, r, todoURL(status), http.StatusSeeOther)
		return
	}

	if err := h.todoService.Create(r.Context(), item); err != nil {
		if h.expiredSession(w, r, err) {
			return
		}
		// Keep the entered text so a failed submit loses nothing.
		data := h.pageData(w, r, "todo")
		data.Status = status
		data.Item = r.FormValue("item")
		data.Error = api.UserMessage(err, "Failed to create todo.")
		if page, listErr := h.todoService.List(r.Context(), todo.ListQuery{Status: status}); listErr == nil {
			data.Todos = page.Entries
		}
		h.render(w, "todos.html", data)
		return
	}

	h.sessions.AddFlash(w, r, "success", "Todo created.")
	http.Redirect(w, r, todoURL(status), http.StatusSeeOther)
}

// TodoMark toggles one item by sending the opposite of the state the
// form last rendered.
func (h *WebHandler) TodoMark(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := models.ParseTodoStatus(r.FormValue("status"))
	done := r.FormValue("done") == "true"

	if err := h.todoService.Mark(r.Context(), id, done); err != nil {
		if h.expiredSession(w, r, err) {
			return
		}
		h.sessions.AddFlash(w, r, "error", api.UserMessage(err, "Failed to update todo status."))
	} else {
		h.sessions.AddFlash(w, r, "success", "Todo status updated.")
	}
	http.Redirect(w, r, todoURL(status), http.StatusSeeOther)
}

// TodoDelete removes the selected items in one bulk call; a single
// delete is just a one-element selection.
func (h *WebHandler) TodoDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := models.ParseTodoStatus(r.FormValue("status"))
	ids := r.Form["selected"]

	if len(ids) == 0 {
		// The submit control is disabled client-side; this guards
		// direct posts.
		h.sessions.AddFlash(w, r, "error", "Nothing selected.")
		http.Redirect(w, r, todoURL(status), http.StatusSeeOther)
		return
	}

	if err := h.todoService.BulkDelete(r.Context(), ids); err != nil {
		if h.expiredSession(w, r, err) {
			return
		}
		h.sessions.AddFlash(w, r, "error", api.UserMessage(err, "Failed to delete todos."))
	} else {
		h.sessions.AddFlash(w, r, "success", fmt.Sprintf("Deleted %d todo(s).", len(ids)))
	}
	http.Redirect(w, r, todoURL(status), http.StatusSeeOther)
}

// Admin renders the read-only, paginated table of everyone's todos.
// Role gating happens in middleware before this runs.
func (h *WebHandler) Admin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := models.ParseTodoStatus(q.Get("status"))
	search := strings.TrimSpace(q.Get("q"))

	pageNum, err := strconv.Atoi(q.Get("page"))
	if err != nil || pageNum < 1 {
		pageNum = 1
	}

	data := h.pageData(w, r, "admin")

	result, err := h.todoService.List(r.Context(), todo.ListQuery{
		Page:   pageNum,
		Rows:   h.config.AdminPageSize,
		Status: status,
		Search: search,
	})
	if err != nil {
		if h.expiredSession(w, r, err) {
			return
		}
		data.Error = api.UserMessage(err, "Failed to load todos.")
		data.Admin = &AdminData{Page: 1, TotalPages: 1, Status: status, Search: search, PrevPage: 1, NextPage: 1}
		h.render(w, "admin.html", data)
		return
	}

	totalPages := result.TotalPages(h.config.AdminPageSize)
	if pageNum > totalPages {
		http.Redirect(w, r, adminURL(totalPages, status, search), http.StatusSeeOther)
		return
	}

	data.Admin = &AdminData{
		Todos:      result.Entries,
		Total:      result.Total,
		Page:       pageNum,
		TotalPages: totalPages,
		Status:     status,
		Search:     search,
		HasPrev:    pageNum > 1,
		HasNext:    pageNum < totalPages,
		PrevPage:   pageNum - 1,
		NextPage:   pageNum + 1,
	}
	h.render(w, "admin.html", data)
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.render(w, "404.html", h.pageData(w, r, "404"))
}

func todoURL(status models.TodoStatus) string {
	if status == models.StatusAll {
		return "/todo"
	}
	return "/todo?status=" + string(status)
}

func adminURL(page int, status models.TodoStatus, search string) string {
	u := fmt.Sprintf("/admin?page=%d", page)
	if status != models.StatusAll {
		u += "&status=" + string(status)
	}
	if search != "" {
		u += "&q=" + url.QueryEscape(search)
	}
	return u
}
