package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgramRunner defines the interface for running a bubbletea program.
// This abstraction allows for easier testing and swapping of implementations.
type ProgramRunner interface {
	// Run starts the program with model and binds sender to it before the
	// program starts reading messages.
	Run(model tea.Model, sender *ProgramSender) error
}

// DefaultProgramRunner runs models with tea.NewProgram in the alternate screen.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts a bubbletea program with the given model.
func (r *DefaultProgramRunner) Run(model tea.Model, sender *ProgramSender) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	if sender != nil {
		sender.Bind(p)
	}
	_, err := p.Run()
	return err
}

// ProgramSender lets a scheduler be created before the program it sends to.
// Send blocks until Bind is called or the sender is abandoned.
type ProgramSender struct {
	once      sync.Once
	ready     chan struct{}
	abandon   sync.Once
	abandoned chan struct{}
	target    interface{ Send(tea.Msg) }
}

// NewProgramSender creates an unbound sender.
func NewProgramSender() *ProgramSender {
	return &ProgramSender{
		ready:     make(chan struct{}),
		abandoned: make(chan struct{}),
	}
}

// Bind sets the program messages are sent to. Only the first call has an effect.
func (s *ProgramSender) Bind(target interface{ Send(tea.Msg) }) {
	s.once.Do(func() {
		s.target = target
		close(s.ready)
	})
}

// Abandon makes pending and future sends to an unbound sender return immediately.
func (s *ProgramSender) Abandon() {
	s.abandon.Do(func() { close(s.abandoned) })
}

// Send implements scheduler.Sender.
func (s *ProgramSender) Send(msg tea.Msg) {
	select {
	case <-s.ready:
		s.target.Send(msg)
	case <-s.abandoned:
	}
}
