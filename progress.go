package refiner

import (
	"sync"
	"time"
)

// ProgressState is one frame of the progress indicator.
type ProgressState struct {
	Percentage int // 0-100
	Title      string
	Status     string
}

// DefaultProgressInterval is the time between simulated progress steps.
const DefaultProgressInterval = 2 * time.Second

// ProgressStart is shown as soon as a request is submitted.
var ProgressStart = ProgressState{
	Percentage: 0,
	Title:      "Starting",
	Status:     "Sending your project description to the AI agents...",
}

// ProgressComplete is the terminal state forced when a response arrives.
var ProgressComplete = ProgressState{
	Percentage: 100,
	Title:      "Complete",
	Status:     "Your roadmap is ready.",
}

// ProgressSteps is the fixed sequence emitted by the Simulator. It never
// reaches 100; only ProgressComplete does.
var ProgressSteps = []ProgressState{
	{Percentage: 10, Title: "Analyzing Project", Status: "Reading your project description..."},
	{Percentage: 25, Title: "Strategist Agent", Status: "Drafting the initial strategic roadmap..."},
	{Percentage: 45, Title: "Refiner Agent", Status: "Reviewing the strategy for gaps and risks..."},
	{Percentage: 65, Title: "Refining Details", Status: "Adding milestones, resources and timelines..."},
	{Percentage: 80, Title: "Finalizing", Status: "Assembling the final roadmap..."},
	{Percentage: 95, Title: "Almost Done", Status: "Formatting the results..."},
}

// Simulator drives a cosmetic progress sequence. It has no knowledge of the
// real request and must be stopped by the caller when the response arrives.
type Simulator struct {
	scheduler Scheduler
	interval  time.Duration
	steps     []ProgressState
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithInterval sets the time between steps.
func WithInterval(d time.Duration) SimulatorOption {
	return func(s *Simulator) { s.interval = d }
}

// WithSteps replaces the step sequence.
func WithSteps(steps []ProgressState) SimulatorOption {
	return func(s *Simulator) { s.steps = steps }
}

// NewSimulator creates a Simulator that schedules steps on scheduler.
func NewSimulator(scheduler Scheduler, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		scheduler: scheduler,
		interval:  DefaultProgressInterval,
		steps:     ProgressSteps,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins emitting steps to onUpdate, one per interval. Once the steps
// are exhausted the simulator idles until stopped.
func (s *Simulator) Start(onUpdate func(ProgressState)) *Progress {
	p := &Progress{steps: s.steps, onUpdate: onUpdate}
	p.handle = s.scheduler.Every(s.interval, p.tick)
	return p
}

// Progress is a running simulation.
type Progress struct {
	mu       sync.Mutex
	steps    []ProgressState
	next     int
	stopped  bool
	onUpdate func(ProgressState)
	handle   Handle
}

// tick emits the next step while holding the lock, so that a Stop that
// returns guarantees no further updates.
func (p *Progress) tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.next >= len(p.steps) {
		return
	}
	step := p.steps[p.next]
	p.next++
	if p.onUpdate != nil {
		p.onUpdate(step)
	}
}

// Emitted returns how many steps have been emitted so far.
func (p *Progress) Emitted() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// Stop cancels the simulation. It is safe to call on a nil Progress, more
// than once, and after the sequence has finished.
func (p *Progress) Stop() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	p.handle.Stop()
}
