package models

// Todo is a single task owned by exactly one user. The owner's name is
// denormalized into Owner for the admin table.
type Todo struct {
	ID     string    `json:"id"`
	Item   string    `json:"item"`
	IsDone bool      `json:"isDone"`
	UserID string    `json:"userId"`
	Owner  TodoOwner `json:"user"`
}

type TodoOwner struct {
	FullName string `json:"fullName"`
}

// TodoStatus is the client-side list filter: all, done or undone.
type TodoStatus string

const (
	StatusAll    TodoStatus = "all"
	StatusDone   TodoStatus = "done"
	StatusUndone TodoStatus = "undone"
)

// ParseTodoStatus maps a query parameter to a filter, defaulting to all
// for anything unrecognized.
func ParseTodoStatus(s string) TodoStatus {
	switch TodoStatus(s) {
	case StatusDone:
		return StatusDone
	case StatusUndone:
		return StatusUndone
	default:
		return StatusAll
	}
}

// IsDone reports whether the filter narrows to done items; the second
// return is false for StatusAll (no narrowing).
func (s TodoStatus) IsDone() (bool, bool) {
	switch s {
	case StatusDone:
		return true, true
	case StatusUndone:
		return false, true
	}
	return false, false
}

// TodoPage is one page of todos plus the server-reported total across
// all pages.
type TodoPage struct {
	Entries []Todo `json:"entries"`
	Total   int    `json:"total"`
}

// TotalPages is ceil(total/size), never less than one page.
func (p TodoPage) TotalPages(size int) int {
	if size <= 0 {
		return 1
	}
	pages := (p.Total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}
