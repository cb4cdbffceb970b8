package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/refiner"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Title    lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Progress lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t refiner.Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(ansiColor(t.Heading)).Bold(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Progress: lipgloss.NewStyle().Foreground(ansiColor(t.Progress)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
