package bubbletea

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/refiner"
	"github.com/fwojciec/refiner/goldmark"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var _ tea.Model = Model{}

// Layout heights, in lines.
const (
	titleHeight    = 1
	inputHeight    = 5
	progressHeight = 2
	statusHeight   = 1
)

const appTitle = "Project Refiner"

// Model is the Bubble Tea model for the refiner TUI.
type Model struct {
	// Input is the project description editor. Exported for test access.
	Input textarea.Model
	// Viewport is the scrollable roadmap area. Exported for test access.
	Viewport viewport.Model
	// Progress renders the simulated progress bar. Exported for test access.
	Progress progress.Model

	ctrl   Controller
	views  <-chan refiner.View
	theme  refiner.Theme
	styles Styles
	keys   KeyMap
	help   help.Model

	view   refiner.View // last applied snapshot
	width  int
	ready  bool
	result *refiner.Result // result currently rendered into the viewport
}

// New creates a TUI Model driving ctrl. Views are the snapshots ctrl
// publishes through refiner.WithObserver, typically via refiner.Forward.
func New(ctrl Controller, views <-chan refiner.View, theme refiner.Theme) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe your project: goals, audience, constraints..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.Focus()

	pr := progress.New(
		progress.WithSolidFill(strconv.Itoa(theme.Progress)),
	)

	styles := NewStyles(theme)
	hm := help.New()
	hm.Styles.ShortKey = styles.Accent

	return Model{
		Input:    ta,
		Progress: pr,
		ctrl:     ctrl,
		views:    views,
		theme:    theme,
		styles:   styles,
		keys:     DefaultKeyMap(),
		help:     hm,
		view:     ctrl.View(),
	}
}

// State returns the last applied view snapshot.
func (m Model) State() refiner.View { return m.view }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, listenForView(m.views))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ViewMsg:
		if msg.View.Seq > m.view.Seq {
			m = m.apply(msg.View)
		}
		return m, listenForView(m.views)

	case GenerateDoneMsg:
		return m, m.Input.Focus()

	case SavedMsg:
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.ctrl.View().Busy() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	b.WriteString("\n")
	b.WriteString(m.progressSection())
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	vpHeight := msg.Height - titleHeight - inputHeight - progressHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	m.width = msg.Width
	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.SetWidth(msg.Width)
	m.Progress.Width = max(msg.Width-2, 10)
	m.Viewport.SetContent(m.content())
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	busy := m.ctrl.View().Busy()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if busy {
			m.ctrl.Cancel()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Generate):
		if busy {
			return m, nil
		}
		text := m.Input.Value()
		m.Input.Blur()
		return m, generate(m.ctrl, text)

	case key.Matches(msg, m.keys.Download):
		return m, save(m.ctrl.Download)

	case key.Matches(msg, m.keys.Export):
		return m, save(m.ctrl.ExportHTML)

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}

	for i, b := range m.keys.Examples {
		if key.Matches(msg, b) {
			return m.loadExample(i), nil
		}
	}

	if busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.ctrl.SetDescription(m.Input.Value())
	return m, cmd
}

func (m Model) loadExample(i int) Model {
	examples := m.ctrl.Examples()
	if i >= len(examples) {
		return m
	}
	ex := examples[i]
	if m.ctrl.LoadExample(ex.Key) {
		m.Input.SetValue(ex.Text)
	}
	return m
}

// apply makes v the current snapshot.
func (m Model) apply(v refiner.View) Model {
	m.view = v
	if v.Result != m.result {
		m.result = v.Result
		m.Viewport.SetContent(m.content())
		m.Viewport.GotoTop()
	}
	return m
}

func (m Model) content() string {
	if m.result == nil {
		return m.styles.Muted.Render("Describe your project above and press ctrl+g to generate a roadmap.")
	}
	md := m.view.Metadata().Display()
	meta := fmt.Sprintf("Processing: %s · Tokens: %s · Time: %s", md.ProcessingType, md.TotalTokens, md.ProcessingTime)
	return m.styles.Muted.Render(truncate(meta, m.width)) + "\n\n" +
		goldmark.Render(m.result.Roadmap, m.Viewport.Width, m.theme)
}

func (m Model) titleLine() string {
	return m.styles.Title.Render(appTitle) + m.styles.Muted.Render(" · AI-powered project roadmaps")
}

// progressSection is always progressHeight lines so the layout does not
// shift while a request is in flight.
func (m Model) progressSection() string {
	if p := m.view.Progress; p != nil {
		bar := m.Progress.ViewAs(float64(p.Percentage) / 100)
		label := truncate(p.Title+" · "+p.Status, m.width)
		return bar + "\n" + m.styles.Progress.Render(label)
	}
	examples := m.ctrl.Examples()
	if len(examples) == 0 {
		return "\n"
	}
	parts := make([]string, 0, len(examples))
	for i, ex := range examples {
		if i >= maxExampleKeys {
			break
		}
		parts = append(parts, fmt.Sprintf("F%d %s", i+1, ex.Title))
	}
	return m.styles.Muted.Render(truncate("Examples: "+strings.Join(parts, " · "), m.width)) + "\n"
}

func (m Model) statusLine() string {
	switch {
	case m.view.Error != "":
		return m.styles.Error.Render(truncate("Error: "+m.view.Error, m.width))
	case m.view.Notice != "":
		return m.styles.Success.Render(truncate(m.view.Notice, m.width))
	case m.view.Busy():
		return m.styles.Muted.Render(truncate("Generating roadmap... ctrl+c to cancel", m.width))
	}
	count := fmt.Sprintf(" · %d chars", uniseg.GraphemeClusterCount(m.Input.Value()))
	h := m.help
	h.Width = max(m.width-runewidth.StringWidth(count), 0)
	return h.ShortHelpView(m.keys.ShortHelp(m.view.CanDownload())) + m.styles.Muted.Render(count)
}

// truncate shortens s to width terminal cells. A non-positive width leaves
// s unchanged.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// generate runs Generate off the UI goroutine. Progress and the result
// arrive as ViewMsgs.
func generate(ctrl Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return GenerateDoneMsg{Err: ctrl.Generate(context.Background(), text)}
	}
}

func save(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		path, err := fn()
		return SavedMsg{Path: path, Err: err}
	}
}
