package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smartgrow/internal/environment"
)

// SampleMsg carries one sampler step into the program.
type SampleMsg struct {
	Prev environment.Reading
	Cur  environment.Reading
}

// Samples hands sampler steps to the program in order. Hook blocks until
// the model has taken the previous step, so no threshold crossing is lost.
type Samples struct {
	ch   chan SampleMsg
	done chan struct{}
	once sync.Once
}

func NewSamples() *Samples {
	return &Samples{
		ch:   make(chan SampleMsg),
		done: make(chan struct{}),
	}
}

// Hook is the sampler's OnSample callback.
func (s *Samples) Hook(prev, cur environment.Reading) {
	select {
	case s.ch <- SampleMsg{Prev: prev, Cur: cur}:
	case <-s.done:
	}
}

// Close releases a blocked Hook. Safe to call more than once.
func (s *Samples) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Samples) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.ch:
			return msg
		case <-s.done:
			return nil
		}
	}
}
