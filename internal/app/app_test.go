package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceCounter(t *testing.T) {
	s := Initial()
	s = Reduce(s, Increment{By: 3})
	s = Reduce(s, Decrement{By: 1})
	assert.Equal(t, 2, s.Count)

	s = Reduce(s, ResetCount{})
	assert.Equal(t, 0, s.Count)
}

func TestReduceTodos(t *testing.T) {
	s := Initial()
	s = Reduce(s, AddTodo{Title: " milk "})
	s = Reduce(s, AddTodo{Title: "eggs"})
	require.Len(t, s.Todos, 2)
	assert.Equal(t, Todo{ID: 1, Title: "milk"}, s.Todos[0])

	before := s
	s = Reduce(s, ToggleTodo{ID: 1})
	assert.True(t, s.Todos[0].Done)
	assert.False(t, before.Todos[0].Done, "earlier state must not change")
	assert.Equal(t, 1, Remaining(s))

	s = Reduce(s, RemoveTodo{ID: 1})
	require.Len(t, s.Todos, 1)
	assert.Equal(t, "eggs", s.Todos[0].Title)
	assert.Len(t, before.Todos, 2)
}

func TestReduceIgnoresInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		action any
		status string
	}{
		{name: "blank title", action: AddTodo{Title: "  "}, status: "empty todo ignored"},
		{name: "toggle missing", action: ToggleTodo{ID: 42}, status: "no todo #42"},
		{name: "remove missing", action: RemoveTodo{ID: 7}, status: "no todo #7"},
		{name: "bad filter", action: SetFilter{Filter: "later"}, status: `unknown filter "later"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(Initial(), tt.action)
			assert.Empty(t, s.Todos)
			assert.Equal(t, FilterAll, s.Filter)
			assert.Equal(t, tt.status, s.Status)
		})
	}
}

func TestVisibleTodosFollowsFilter(t *testing.T) {
	s := Initial()
	s = Reduce(s, AddTodo{Title: "a"})
	s = Reduce(s, AddTodo{Title: "b"})
	s = Reduce(s, ToggleTodo{ID: 2})

	assert.Len(t, VisibleTodos(s), 2)
	s = Reduce(s, SetFilter{Filter: FilterActive})
	assert.Equal(t, []Todo{{ID: 1, Title: "a"}}, VisibleTodos(s))
	s = Reduce(s, SetFilter{Filter: FilterDone})
	assert.Equal(t, []Todo{{ID: 2, Title: "b", Done: true}}, VisibleTodos(s))
}

func TestNextFilterWraps(t *testing.T) {
	assert.Equal(t, FilterActive, NextFilter(FilterAll))
	assert.Equal(t, FilterDone, NextFilter(FilterActive))
	assert.Equal(t, FilterAll, NextFilter(FilterDone))
	assert.Equal(t, FilterAll, NextFilter("bogus"))
}

func TestNewCodecKnowsEveryAction(t *testing.T) {
	codec := NewCodec()
	for _, action := range []any{Increment{}, Decrement{}, ResetCount{}, AddTodo{}, ToggleTodo{}, RemoveTodo{}, SetFilter{}, SetStatus{}} {
		assert.True(t, codec.Known(action), "%T", action)
	}
}

func TestUnknownActionLeavesStateUnchanged(t *testing.T) {
	s := Reduce(Initial(), AddTodo{Title: "x"})
	assert.Equal(t, s, Reduce(s, "noise"))
}
