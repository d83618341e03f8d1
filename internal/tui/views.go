package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cristianoliveira/tea-presenter/internal/app"
	"github.com/cristianoliveira/tea-presenter/internal/presenter"
)

// Tab is a view shown in its own tab of the host model.
type Tab interface {
	presenter.Provider[app.State]
	Title() string
	Render() string
}

// CounterView shows the counter.
type CounterView struct {
	presenter.Base[app.State]

	mu    sync.Mutex
	count int
	syncs int
}

var counterPresenter = presenter.Define(func(v *CounterView, sel *presenter.Selectors[app.State]) {
	presenter.Select(sel, func(s app.State) int { return s.Count }, func(s app.State) {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.count = s.Count
	})
	sel.WithAnyChange(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.syncs++
	})
})

// NewCounterView creates a CounterView.
func NewCounterView() *CounterView {
	return &CounterView{}
}

// Presenter implements presenter.Provider.
func (v *CounterView) Presenter() presenter.Presenter[app.State] { return counterPresenter }

// Title implements Tab.
func (v *CounterView) Title() string { return "Counter" }

// Count returns the last synchronized count.
func (v *CounterView) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.count
}

// Render implements Tab.
func (v *CounterView) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fmt.Sprintf("Count: %s\n\n%s",
		counterStyle.Render(fmt.Sprintf("%d", v.count)),
		mutedStyle.Render(fmt.Sprintf("synchronized %d times", v.syncs)))
}

// TodosView shows the filtered todo list with a cursor.
type TodosView struct {
	presenter.Base[app.State]

	mu        sync.Mutex
	todos     []app.Todo
	filter    app.Filter
	remaining int
	cursor    int
}

var todosPresenter = presenter.Define(func(v *TodosView, sel *presenter.Selectors[app.State]) {
	presenter.SelectStructural(sel, app.VisibleTodos, func(s app.State) {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.todos = app.VisibleTodos(s)
		v.clampCursor()
	})
	presenter.Select(sel, func(s app.State) app.Filter { return s.Filter }, func(s app.State) {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.filter = s.Filter
	})
	presenter.Select(sel, app.Remaining, func(s app.State) {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.remaining = app.Remaining(s)
	})
})

// NewTodosView creates a TodosView.
func NewTodosView() *TodosView {
	return &TodosView{filter: app.FilterAll}
}

// Presenter implements presenter.Provider.
func (v *TodosView) Presenter() presenter.Presenter[app.State] { return todosPresenter }

// Title implements Tab.
func (v *TodosView) Title() string { return "Todos" }

// MoveCursor moves the cursor by delta within the visible todos.
func (v *TodosView) MoveCursor(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor += delta
	v.clampCursor()
}

// Selected returns the todo under the cursor.
func (v *TodosView) Selected() (app.Todo, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.todos) == 0 {
		return app.Todo{}, false
	}
	return v.todos[v.cursor], true
}

// Filter returns the last synchronized filter.
func (v *TodosView) Filter() app.Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *TodosView) clampCursor() {
	if v.cursor >= len(v.todos) {
		v.cursor = len(v.todos) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Render implements Tab.
func (v *TodosView) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n",
		titleStyle.Render(fmt.Sprintf("%d left", v.remaining)),
		mutedStyle.Render("filter: "+string(v.filter)))
	if len(v.todos) == 0 {
		b.WriteString(mutedStyle.Render("No todos"))
		return b.String()
	}
	for i, todo := range v.todos {
		mark := "[ ]"
		title := todo.Title
		if todo.Done {
			mark = "[x]"
			title = doneStyle.Render(title)
		}
		line := fmt.Sprintf("%s #%d %s", mark, todo.ID, title)
		if i == v.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(v.todos)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// StatusView is the status bar. It stays attached for the whole session.
type StatusView struct {
	presenter.Base[app.State]

	mu     sync.Mutex
	status string
}

var statusPresenter = presenter.Define(func(v *StatusView, sel *presenter.Selectors[app.State]) {
	presenter.Select(sel, func(s app.State) string { return s.Status }, func(s app.State) {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.status = s.Status
	})
})

// NewStatusView creates a StatusView.
func NewStatusView() *StatusView {
	return &StatusView{}
}

// Presenter implements presenter.Provider.
func (v *StatusView) Presenter() presenter.Presenter[app.State] { return statusPresenter }

// Status returns the last synchronized status line.
func (v *StatusView) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}
