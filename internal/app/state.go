// Package app holds the demo domain driven through the presenter middleware:
// a counter and a todo list sharing one store.
package app

// Filter selects which todos are visible.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterDone   Filter = "done"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterDone}

// Todo is one todo list item.
type Todo struct {
	ID    int
	Title string
	Done  bool
}

// State is the whole application state.
type State struct {
	Count  int
	Todos  []Todo
	NextID int
	Filter Filter
	Status string
}

// Initial returns the starting state.
func Initial() State {
	return State{NextID: 1, Filter: FilterAll}
}

// VisibleTodos returns the todos that pass the current filter.
func VisibleTodos(s State) []Todo {
	visible := make([]Todo, 0, len(s.Todos))
	for _, todo := range s.Todos {
		switch s.Filter {
		case FilterActive:
			if todo.Done {
				continue
			}
		case FilterDone:
			if !todo.Done {
				continue
			}
		}
		visible = append(visible, todo)
	}
	return visible
}

// Remaining returns the number of todos not done.
func Remaining(s State) int {
	n := 0
	for _, todo := range s.Todos {
		if !todo.Done {
			n++
		}
	}
	return n
}

// NextFilter returns the filter after f, wrapping around.
func NextFilter(f Filter) Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}
