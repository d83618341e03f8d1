package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	Increment key.Binding
	Decrement key.Binding
	Reset     key.Binding
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Toggle    key.Binding
	Remove    key.Binding
	Filter    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab", "next view")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("shift+tab", "previous view")),
		Increment: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "increment")),
		Decrement: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "decrement")),
		Reset:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add todo")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Help, k.Quit},
		{k.Increment, k.Decrement, k.Reset},
		{k.Up, k.Down, k.Add, k.Toggle, k.Remove, k.Filter},
	}
}
