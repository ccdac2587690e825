package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"todo-web/internal/api"
	"todo-web/models"
)

// TodoService wraps the /todos resource. Every call goes through the
// authenticated client; the server scopes regular users to their own
// todos and lets admins see everyone's.
type TodoService struct {
	client *api.Client
}

func NewTodoService(client *api.Client) *TodoService {
	return &TodoService{client: client}
}

// ListQuery narrows a list fetch. Zero values mean "omit": page and
// rows are sent only when positive, the status filter only when it
// narrows, the search term only when non-empty. None of it mutates
// server state.
type ListQuery struct {
	Page   int
	Rows   int
	Status models.TodoStatus
	Search string
}

// Encode serializes the query the way the API expects: filters and
// search are JSON objects inside single query parameters.
func (q ListQuery) Encode() (url.Values, error) {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Rows > 0 {
		values.Set("rows", strconv.Itoa(q.Rows))
	}
	if isDone, ok := q.Status.IsDone(); ok {
		filters, err := json.Marshal(map[string]bool{"isDone": isDone})
		if err != nil {
			return nil, err
		}
		values.Set("filters", string(filters))
	}
	if q.Search != "" {
		search, err := json.Marshal(map[string]string{"item": q.Search})
		if err != nil {
			return nil, err
		}
		values.Set("search", string(search))
	}
	return values, nil
}

// List fetches one page of todos plus the total count.
func (s *TodoService) List(ctx context.Context, query ListQuery) (*models.TodoPage, error) {
	values, err := query.Encode()
	if err != nil {
		return nil, err
	}

	var page models.TodoPage
	if err := s.client.Get(ctx, "/todos", values, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Create adds a new todo. Input trimming and the non-empty check happen
// at the form boundary, before this is reached.
func (s *TodoService) Create(ctx context.Context, item string) error {
	return s.client.Post(ctx, "/todos", map[string]string{"item": item}, nil)
}

// Mark sets a todo's done state with an explicit action, the opposite
// of whatever the caller last saw.
func (s *TodoService) Mark(ctx context.Context, id string, done bool) error {
	action := "UNDONE"
	if done {
		action = "DONE"
	}
	path := fmt.Sprintf("/todos/%s/mark", url.PathEscape(id))
	return s.client.Put(ctx, path, map[string]string{"action": action}, nil)
}

// Delete removes a single todo via the legacy per-item endpoint. The
// views route all deletion through BulkDelete; this stays for
// compatibility with the deployed API surface.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/todos/"+url.PathEscape(id), nil)
}

// BulkDelete removes a set of todos in one call. An empty set is
// rejected locally; it must never reach the network.
func (s *TodoService) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("bulk delete: no ids given")
	}
	return s.client.Delete(ctx, "/todos/bulk-delete", map[string][]string{"ids": ids})
}
