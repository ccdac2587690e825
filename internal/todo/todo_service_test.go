package todo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-web/internal/api"
	"todo-web/models"
)

func TestListQuery_Encode(t *testing.T) {
	t.Run("empty query omits everything", func(t *testing.T) {
		values, err := ListQuery{}.Encode()
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("status all omits filters", func(t *testing.T) {
		values, err := ListQuery{Status: models.StatusAll}.Encode()
		require.NoError(t, err)
		assert.Empty(t, values.Get("filters"))
	})

	t.Run("done and undone serialize as JSON filters", func(t *testing.T) {
		values, err := ListQuery{Status: models.StatusDone}.Encode()
		require.NoError(t, err)
		assert.JSONEq(t, `{"isDone":true}`, values.Get("filters"))

		values, err = ListQuery{Status: models.StatusUndone}.Encode()
		require.NoError(t, err)
		assert.JSONEq(t, `{"isDone":false}`, values.Get("filters"))
	})

	t.Run("search serializes as JSON and is omitted when empty", func(t *testing.T) {
		values, err := ListQuery{Search: "groceries"}.Encode()
		require.NoError(t, err)
		assert.JSONEq(t, `{"item":"groceries"}`, values.Get("search"))

		values, err = ListQuery{}.Encode()
		require.NoError(t, err)
		assert.Empty(t, values.Get("search"))
	})

	t.Run("page and rows sent only when positive", func(t *testing.T) {
		values, err := ListQuery{Page: 3, Rows: 10}.Encode()
		require.NoError(t, err)
		assert.Equal(t, "3", values.Get("page"))
		assert.Equal(t, "10", values.Get("rows"))

		values, err = ListQuery{}.Encode()
		require.NoError(t, err)
		assert.Empty(t, values.Get("page"))
		assert.Empty(t, values.Get("rows"))
	})
}

type captured struct {
	method string
	path   string
	query  string
	body   string
}

func newCapturingService(t *testing.T, status int, response string) (*TodoService, *captured) {
	cap := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		cap.method = r.Method
		cap.path = r.URL.Path
		cap.query = r.URL.RawQuery
		cap.body = string(body)
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return NewTodoService(api.NewClient(server.URL)), cap
}

func TestTodoService_List(t *testing.T) {
	service, cap := newCapturingService(t, http.StatusOK,
		`{"content":{"entries":[{"id":"1","item":"milk","isDone":false}],"total":7}}`)

	page, err := service.List(context.Background(), ListQuery{Status: models.StatusUndone})
	require.NoError(t, err)

	assert.Equal(t, "GET", cap.method)
	assert.Equal(t, "/todos", cap.path)
	assert.Contains(t, cap.query, "filters=")

	assert.Equal(t, 7, page.Total)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "milk", page.Entries[0].Item)
}

func TestTodoService_Create(t *testing.T) {
	service, cap := newCapturingService(t, http.StatusOK, `{"content":{}}`)

	require.NoError(t, service.Create(context.Background(), "buy milk"))
	assert.Equal(t, "POST", cap.method)
	assert.Equal(t, "/todos", cap.path)
	assert.JSONEq(t, `{"item":"buy milk"}`, cap.body)
}

func TestTodoService_MarkSendsExplicitAction(t *testing.T) {
	service, cap := newCapturingService(t, http.StatusOK, `{"content":{}}`)

	require.NoError(t, service.Mark(context.Background(), "abc", true))
	assert.Equal(t, "PUT", cap.method)
	assert.Equal(t, "/todos/abc/mark", cap.path)
	assert.JSONEq(t, `{"action":"DONE"}`, cap.body)

	require.NoError(t, service.Mark(context.Background(), "abc", false))
	assert.JSONEq(t, `{"action":"UNDONE"}`, cap.body)
}

func TestTodoService_Delete(t *testing.T) {
	service, cap := newCapturingService(t, http.StatusOK, `{"content":{}}`)

	require.NoError(t, service.Delete(context.Background(), "abc"))
	assert.Equal(t, "DELETE", cap.method)
	assert.Equal(t, "/todos/abc", cap.path)
}

func TestTodoService_BulkDelete(t *testing.T) {
	service, cap := newCapturingService(t, http.StatusOK, `{"content":{}}`)

	require.NoError(t, service.BulkDelete(context.Background(), []string{"a", "b"}))
	assert.Equal(t, "DELETE", cap.method)
	assert.Equal(t, "/todos/bulk-delete", cap.path)

	var body struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal([]byte(cap.body), &body))
	assert.Equal(t, []string{"a", "b"}, body.IDs)
}

func TestTodoService_BulkDeleteEmptySetNeverCallsAPI(t *testing.T) {
	service, cap := newCapturingService(t, http.StatusOK, `{"content":{}}`)

	err := service.BulkDelete(context.Background(), nil)
	require.Error(t, err)
	assert.Empty(t, cap.method, "no request should have been issued")
}

func TestTodoService_ListErrorSurfacesServerMessage(t *testing.T) {
	service, _ := newCapturingService(t, http.StatusUnauthorized, `{"message":"Unauthorized"}`)

	_, err := service.List(context.Background(), ListQuery{})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Unauthorized", apiErr.Message)
}
