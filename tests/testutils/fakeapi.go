package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"

	"todo-web/models"
)

// FakeAPI is an in-memory stand-in for the remote todo service. It
// speaks the same envelope protocol ({content, message}), enforces
// bearer auth on /todos, scopes non-admins to their own items, and
// records every request so tests can assert what did (or did not) go
// over the wire.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	accounts map[string]*Account // by email
	byToken  map[string]*Account
	todos    []models.Todo
	requests []RecordedRequest
	forced   *forcedError
}

type Account struct {
	Password string
	Token    string
	User     models.User
}

type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
}

type forcedError struct {
	status  int
	message string
}

func NewFakeAPI(t interface{ Cleanup(func()) }) *FakeAPI {
	f := &FakeAPI{
		accounts: make(map[string]*Account),
		byToken:  make(map[string]*Account),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) URL() string { return f.Server.URL }

// AddAccount registers a ready-made account and returns its bearer token.
func (f *FakeAPI) AddAccount(email, password, fullName string, role models.Role) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	token := "token-" + uuid.New().String()
	acct := &Account{
		Password: password,
		Token:    token,
		User: models.User{
			ID:       uuid.New().String(),
			FullName: fullName,
			Email:    email,
			Role:     role,
		},
	}
	f.accounts[email] = acct
	f.byToken[token] = acct
	return token
}

// AddTodo seeds a todo owned by the given account.
func (f *FakeAPI) AddTodo(ownerEmail, item string, done bool) models.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()

	owner := f.accounts[ownerEmail]
	td := models.Todo{
		ID:     uuid.New().String(),
		Item:   item,
		IsDone: done,
		UserID: owner.User.ID,
		Owner:  models.TodoOwner{FullName: owner.User.FullName},
	}
	f.todos = append(f.todos, td)
	return td
}

func (f *FakeAPI) Todos() []models.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Todo(nil), f.todos...)
}

func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestCount counts recorded calls matching method and path.
func (f *FakeAPI) RequestCount(method, path string) int {
	n := 0
	for _, req := range f.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

// FailNextWith makes every following request fail with the given
// structured error until cleared with FailNextWith(0, "").
func (f *FakeAPI) FailNextWith(status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		f.forced = nil
		return
	}
	f.forced = &forcedError{status: status, message: message}
}

func (f *FakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
	})
	forced := f.forced
	f.mu.Unlock()

	if forced != nil {
		writeError(w, forced.status, forced.message)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/login":
		f.handleLogin(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/register":
		f.handleRegister(w, r)
	case r.URL.Path == "/todos" || strings.HasPrefix(r.URL.Path, "/todos/"):
		f.handleTodos(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	acct, ok := f.accounts[creds.Email]
	f.mu.Unlock()
	if !ok || acct.Password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Email or password is incorrect")
		return
	}

	writeContent(w, map[string]interface{}{"token": acct.Token, "user": acct.User})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	_, exists := f.accounts[reg.Email]
	f.mu.Unlock()
	if exists {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	f.AddAccount(reg.Email, reg.Password, reg.FullName, models.RoleUser)
	writeContent(w, map[string]interface{}{})
}

func (f *FakeAPI) authenticate(r *http.Request) *Account {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byToken[strings.TrimPrefix(header, "Bearer ")]
}

func (f *FakeAPI) handleTodos(w http.ResponseWriter, r *http.Request) {
	acct := f.authenticate(r)
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/todos":
		f.listTodos(w, r, acct)
	case r.Method == http.MethodPost && r.URL.Path == "/todos":
		f.createTodo(w, r, acct)
	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/mark"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/todos/"), "/mark")
		f.markTodo(w, r, id)
	case r.Method == http.MethodDelete && r.URL.Path == "/todos/bulk-delete":
		f.bulkDelete(w, r)
	case r.Method == http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Path, "/todos/")
		f.deleteTodos(w, []string{id})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (f *FakeAPI) listTodos(w http.ResponseWriter, r *http.Request, acct *Account) {
	q := r.URL.Query()

	var isDone *bool
	if raw := q.Get("filters"); raw != "" {
		var filters struct {
			IsDone bool `json:"isDone"`
		}
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid filters")
			return
		}
		isDone = &filters.IsDone
	}

	var term string
	if raw := q.Get("search"); raw != "" {
		var search struct {
			Item string `json:"item"`
		}
		if err := json.Unmarshal([]byte(raw), &search); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid search")
			return
		}
		term = strings.ToLower(search.Item)
	}

	f.mu.Lock()
	var matched []models.Todo
	for _, td := range f.todos {
		if acct.User.Role != models.RoleAdmin && td.UserID != acct.User.ID {
			continue
		}
		if isDone != nil && td.IsDone != *isDone {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(td.Item), term) {
			continue
		}
		matched = append(matched, td)
	}
	f.mu.Unlock()

	total := len(matched)
	page, rows := 1, 0
	if v := q.Get("page"); v != "" {
		json.Unmarshal([]byte(v), &page)
	}
	if v := q.Get("rows"); v != "" {
		json.Unmarshal([]byte(v), &rows)
	}
	if rows > 0 {
		start := (page - 1) * rows
		if start > total {
			start = total
		}
		end := start + rows
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	if matched == nil {
		matched = []models.Todo{}
	}

	writeContent(w, map[string]interface{}{"entries": matched, "total": total})
}

func (f *FakeAPI) createTodo(w http.ResponseWriter, r *http.Request, acct *Account) {
	var body struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Item == "" {
		writeError(w, http.StatusBadRequest, "Item is required")
		return
	}

	td := f.AddTodo(acct.User.Email, body.Item, false)
	writeContent(w, td)
}

func (f *FakeAPI) markTodo(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Action != "DONE" && body.Action != "UNDONE" {
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].IsDone = body.Action == "DONE"
			writeContent(w, f.todos[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Todo not found")
}

func (f *FakeAPI) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "Ids are required")
		return
	}
	f.deleteTodos(w, body.IDs)
}

func (f *FakeAPI) deleteTodos(w http.ResponseWriter, ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	f.mu.Lock()
	kept := f.todos[:0]
	for _, td := range f.todos {
		if !drop[td.ID] {
			kept = append(kept, td)
		}
	}
	f.todos = kept
	f.mu.Unlock()

	writeContent(w, map[string]interface{}{})
}

func writeContent(w http.ResponseWriter, content interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"content": content})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"message": message})
}
