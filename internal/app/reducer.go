package app

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/tea-presenter/internal/store"
)

// Reduce applies action to s. Slices are copied before modification so states
// handed out earlier never change.
func Reduce(s State, action store.Action) State {
	switch a := action.(type) {
	case Increment:
		s.Count += a.By
	case Decrement:
		s.Count -= a.By
	case ResetCount:
		s.Count = 0
	case AddTodo:
		title := strings.TrimSpace(a.Title)
		if title == "" {
			s.Status = "empty todo ignored"
			return s
		}
		if s.NextID == 0 {
			s.NextID = 1
		}
		todos := make([]Todo, len(s.Todos), len(s.Todos)+1)
		copy(todos, s.Todos)
		s.Todos = append(todos, Todo{ID: s.NextID, Title: title})
		s.NextID++
		s.Status = fmt.Sprintf("added %q", title)
	case ToggleTodo:
		idx := indexOf(s.Todos, a.ID)
		if idx < 0 {
			s.Status = fmt.Sprintf("no todo #%d", a.ID)
			return s
		}
		todos := append([]Todo(nil), s.Todos...)
		todos[idx].Done = !todos[idx].Done
		s.Todos = todos
	case RemoveTodo:
		idx := indexOf(s.Todos, a.ID)
		if idx < 0 {
			s.Status = fmt.Sprintf("no todo #%d", a.ID)
			return s
		}
		todos := make([]Todo, 0, len(s.Todos)-1)
		todos = append(todos, s.Todos[:idx]...)
		s.Todos = append(todos, s.Todos[idx+1:]...)
		s.Status = fmt.Sprintf("removed todo #%d", a.ID)
	case SetFilter:
		switch a.Filter {
		case FilterAll, FilterActive, FilterDone:
			s.Filter = a.Filter
		default:
			s.Status = fmt.Sprintf("unknown filter %q", a.Filter)
		}
	case SetStatus:
		s.Status = a.Text
	}
	return s
}

func indexOf(todos []Todo, id int) int {
	for i, todo := range todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}
