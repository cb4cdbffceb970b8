package bubbletea_test

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/refiner"
	bt "github.com/fwojciec/refiner/bubbletea"
	"github.com/fwojciec/refiner/mock"
	"github.com/stretchr/testify/require"
)

var testExamples = refiner.Examples{
	{Key: "mobile", Title: "Mobile App", Text: "A fitness tracking mobile app."},
	{Key: "web", Title: "Web Platform", Text: "A marketplace for local artists."},
}

var testResult = refiner.Result{
	Roadmap:  "# X\n\nPlan.",
	Metadata: &refiner.Metadata{ProcessingType: "direct", TotalTokens: 42, ProcessingTime: 1.5},
}

// harness wires a real Controller to manual test doubles.
type harness struct {
	ctrl  *refiner.Controller
	sched *mock.Scheduler
	views chan refiner.View

	mu    sync.Mutex
	saved []string
}

func newHarness(t *testing.T, refine func(context.Context, refiner.Request) (refiner.Result, error), opts ...refiner.ControllerOption) *harness {
	t.Helper()
	h := &harness{
		sched: &mock.Scheduler{},
		views: make(chan refiner.View, 64),
	}
	saver := &mock.Saver{SaveFn: func(name string, _ []byte) (string, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.saved = append(h.saved, name)
		return "/out/" + name, nil
	}}
	base := []refiner.ControllerOption{
		refiner.WithScheduler(h.sched),
		refiner.WithExamples(testExamples),
		refiner.WithObserver(refiner.Forward(h.views)),
	}
	h.ctrl = refiner.NewController(&mock.Refiner{RefineFn: refine}, saver, append(base, opts...)...)
	return h
}

// model creates a model sized to 80x24.
func (h *harness) model(t *testing.T) bt.Model {
	t.Helper()
	m := bt.New(h.ctrl, h.views, refiner.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// drain applies every pending view to m.
func (h *harness) drain(t *testing.T, m bt.Model) bt.Model {
	t.Helper()
	for {
		select {
		case v := <-h.views:
			m = updateModel(t, m, bt.ViewMsg{View: v})
		default:
			return m
		}
	}
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// press sends a key and returns the updated model and command.
func press(t *testing.T, m bt.Model, k tea.KeyType) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

func succeed(context.Context, refiner.Request) (refiner.Result, error) {
	return testResult, nil
}
