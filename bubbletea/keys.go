package bubbletea

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// maxExampleKeys is the number of function keys bound to examples.
const maxExampleKeys = 9

// KeyMap holds the TUI key bindings.
type KeyMap struct {
	Generate   key.Binding
	Download   key.Binding
	Export     key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Examples   []key.Binding // Examples[i] loads the i-th catalog entry
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Generate:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
		Download:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "download")),
		Export:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "export html")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	}
	for i := 1; i <= maxExampleKeys; i++ {
		k := fmt.Sprintf("f%d", i)
		km.Examples = append(km.Examples, key.NewBinding(key.WithKeys(k), key.WithHelp(k, "example")))
	}
	return km
}

// ShortHelp returns the bindings shown in the status line. Download
// bindings are only listed once a roadmap is displayed.
func (k KeyMap) ShortHelp(canDownload bool) []key.Binding {
	if canDownload {
		return []key.Binding{k.Generate, k.Download, k.Export, k.Quit}
	}
	return []key.Binding{k.Generate, k.Quit}
}
