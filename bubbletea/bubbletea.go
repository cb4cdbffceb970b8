// Package bubbletea provides the interactive Bubble Tea TUI for refiner.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/refiner"
)

// Controller is the subset of *refiner.Controller the TUI drives.
type Controller interface {
	View() refiner.View
	Examples() refiner.Examples
	SetDescription(text string)
	Generate(ctx context.Context, description string) error
	Cancel()
	LoadExample(key string) bool
	Download() (string, error)
	ExportHTML() (string, error)
}

var _ Controller = (*refiner.Controller)(nil)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown — when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ViewMsg delivers a controller snapshot to the model.
type ViewMsg struct {
	View refiner.View
}

// GenerateDoneMsg signals that a Generate call returned. The outcome is
// already reflected in the views.
type GenerateDoneMsg struct {
	Err error
}

// SavedMsg signals that a download or HTML export finished.
type SavedMsg struct {
	Path string
	Err  error
}

// listenForView waits for the next snapshot from the controller.
func listenForView(ch <-chan refiner.View) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return ViewMsg{View: v}
	}
}
