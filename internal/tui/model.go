// Package tui hosts demo views in a bubbletea program. Views attach to the
// store when their tab is shown and detach when it is hidden.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/tea-presenter/internal/app"
	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/presenter"
	"github.com/cristianoliveira/tea-presenter/internal/scheduler"
	"github.com/cristianoliveira/tea-presenter/internal/store"
)

type refreshMsg struct{}

// Model is the bubbletea host model.
type Model struct {
	store  store.API[app.State]
	mw     *presenter.Middleware[app.State]
	logger logging.Logger

	counter *CounterView
	todos   *TodosView
	status  *StatusView
	tabs    []Tab
	active  int

	keys    keyMap
	help    help.Model
	input   textinput.Model
	adding  bool
	refresh time.Duration
	closed  bool
	err     error
	width   int
}

// NewModel creates the host model and attaches the status bar and the first tab.
// A refresh interval greater than zero redraws periodically, which is needed when
// broadcasts run outside the bubbletea loop.
func NewModel(st store.API[app.State], mw *presenter.Middleware[app.State], logger logging.Logger, refresh time.Duration) (*Model, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	input := textinput.New()
	input.Placeholder = "what needs doing?"
	input.Prompt = "New todo: "
	input.CharLimit = 120

	m := &Model{
		store:   st,
		mw:      mw,
		logger:  logger,
		counter: NewCounterView(),
		todos:   NewTodosView(),
		status:  NewStatusView(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   input,
		refresh: refresh,
	}
	m.tabs = []Tab{m.counter, m.todos}

	if err := st.Dispatch(presenter.Attach[app.State](m.status)); err != nil {
		return nil, fmt.Errorf("attach status view: %w", err)
	}
	if err := st.Dispatch(presenter.Attach[app.State](m.tabs[m.active])); err != nil {
		return nil, fmt.Errorf("attach %s view: %w", m.tabs[m.active].Title(), err)
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scheduler.TaskMsg:
		msg.Run()
		return m, nil
	case refreshMsg:
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.dispatch(app.AddTodo{Title: m.input.Value()})
		m.stopInput()
		return m, nil
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, m.quit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopInput() {
	m.adding = false
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return m, nil
	}

	switch m.tabs[m.active] {
	case m.counter:
		m.handleCounterKey(msg)
	case m.todos:
		return m, m.handleTodosKey(msg)
	}
	return m, nil
}

func (m *Model) handleCounterKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Increment):
		m.dispatch(app.Increment{By: 1})
	case key.Matches(msg, m.keys.Decrement):
		m.dispatch(app.Decrement{By: 1})
	case key.Matches(msg, m.keys.Reset):
		m.dispatch(app.ResetCount{})
	}
}

func (m *Model) handleTodosKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.todos.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.todos.MoveCursor(1)
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		return m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if todo, ok := m.todos.Selected(); ok {
			m.dispatch(app.ToggleTodo{ID: todo.ID})
		}
	case key.Matches(msg, m.keys.Remove):
		if todo, ok := m.todos.Selected(); ok {
			m.dispatch(app.RemoveTodo{ID: todo.ID})
		}
	case key.Matches(msg, m.keys.Filter):
		m.dispatch(app.SetFilter{Filter: app.NextFilter(m.todos.Filter())})
	}
	return nil
}

// switchTab detaches the visible tab and attaches its neighbour.
func (m *Model) switchTab(delta int) {
	next := (m.active + delta + len(m.tabs)) % len(m.tabs)
	if next == m.active {
		return
	}
	if !m.dispatch(presenter.Detach[app.State](m.tabs[m.active])) {
		return
	}
	m.active = next
	m.dispatch(presenter.Attach[app.State](m.tabs[m.active]))
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// Close clears every view from the middleware. It is safe to call more than once.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for _, tab := range m.tabs {
		m.dispatch(presenter.Clear[app.State](tab))
	}
	m.dispatch(presenter.Clear[app.State](m.status))
}

// dispatch sends action to the store and records a failure for the status bar.
func (m *Model) dispatch(action store.Action) bool {
	if err := m.store.Dispatch(action); err != nil {
		m.err = err
		m.logger.Warn("dispatch failed", "action", fmt.Sprintf("%T", action), "error", err)
		return false
	}
	m.err = nil
	return true
}

// ActiveTab returns the visible tab.
func (m *Model) ActiveTab() Tab {
	return m.tabs[m.active]
}

// Err returns the last dispatch error, if any.
func (m *Model) Err() error {
	return m.err
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	titles := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.active {
			titles = append(titles, activeTabStyle.Render(tab.Title()))
			continue
		}
		titles = append(titles, tabStyle.Render(tab.Title()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, titles...))
	b.WriteString("\n")
	b.WriteString(bodyStyle.Render(m.tabs[m.active].Render()))
	b.WriteString("\n")

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) statusLine() string {
	stats := m.mw.Stats()
	line := mutedStyle.Render(fmt.Sprintf("views: %d attached, %d detached", stats.Attached, stats.Detached))
	if status := m.status.Status(); status != "" {
		line += "  " + status
	}
	if m.err != nil {
		line += "  " + errorStyle.Render("error: "+m.err.Error())
	}
	return line
}
