package app

import "github.com/cristianoliveira/tea-presenter/internal/journal"

// Increment adds By to the counter.
type Increment struct{ By int }

// Decrement subtracts By from the counter.
type Decrement struct{ By int }

// ResetCount sets the counter back to zero.
type ResetCount struct{}

// AddTodo appends a todo. Blank titles are ignored.
type AddTodo struct{ Title string }

// ToggleTodo flips the done flag of a todo.
type ToggleTodo struct{ ID int }

// RemoveTodo deletes a todo.
type RemoveTodo struct{ ID int }

// SetFilter changes which todos are visible.
type SetFilter struct{ Filter Filter }

// SetStatus replaces the status line.
type SetStatus struct{ Text string }

// RegisterActions registers every app action with codec under a stable name.
func RegisterActions(codec *journal.Codec) {
	codec.Register("increment", Increment{})
	codec.Register("decrement", Decrement{})
	codec.Register("reset_count", ResetCount{})
	codec.Register("add_todo", AddTodo{})
	codec.Register("toggle_todo", ToggleTodo{})
	codec.Register("remove_todo", RemoveTodo{})
	codec.Register("set_filter", SetFilter{})
	codec.Register("set_status", SetStatus{})
}

// NewCodec returns a journal codec with every app action registered.
func NewCodec() *journal.Codec {
	codec := journal.NewCodec()
	RegisterActions(codec)
	return codec
}
