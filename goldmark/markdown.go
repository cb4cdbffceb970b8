// Package goldmark renders roadmap markdown to ANSI-styled terminal text
// using goldmark for parsing and lipgloss for styling. It backs the result
// pane of the TUI and the "terminal" output format of the CLI.
package goldmark

import "github.com/fwojciec/refiner"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width; code blocks and
// tables are not reflowed.
func Render(source string, width int, theme refiner.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
