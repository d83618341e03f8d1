package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(lipgloss.Color("4")).
			Foreground(lipgloss.Color("0"))

	tabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241"))

	bodyStyle = lipgloss.NewStyle().Padding(1, 2)

	counterStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))

	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("0"))

	doneStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
