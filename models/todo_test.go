package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTodoStatus(t *testing.T) {
	assert.Equal(t, StatusAll, ParseTodoStatus("all"))
	assert.Equal(t, StatusDone, ParseTodoStatus("done"))
	assert.Equal(t, StatusUndone, ParseTodoStatus("undone"))

	// Anything unrecognized falls back to all.
	assert.Equal(t, StatusAll, ParseTodoStatus(""))
	assert.Equal(t, StatusAll, ParseTodoStatus("banana"))
}

func TestTodoStatus_IsDone(t *testing.T) {
	done, narrowed := StatusDone.IsDone()
	assert.True(t, done)
	assert.True(t, narrowed)

	done, narrowed = StatusUndone.IsDone()
	assert.False(t, done)
	assert.True(t, narrowed)

	_, narrowed = StatusAll.IsDone()
	assert.False(t, narrowed)
}

func TestTodoPage_TotalPages(t *testing.T) {
	assert.Equal(t, 1, TodoPage{Total: 0}.TotalPages(10))
	assert.Equal(t, 1, TodoPage{Total: 10}.TotalPages(10))
	assert.Equal(t, 2, TodoPage{Total: 11}.TotalPages(10))
	assert.Equal(t, 3, TodoPage{Total: 25}.TotalPages(10))

	// Degenerate page size still yields at least one page.
	assert.Equal(t, 1, TodoPage{Total: 25}.TotalPages(0))
}

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	user := &User{Role: RoleUser}

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())

	var missing *User
	assert.False(t, missing.IsAdmin())
}
