package mock

import (
	"sync"
	"time"

	"github.com/fwojciec/refiner"
)

var _ refiner.Scheduler = (*Scheduler)(nil)

// Scheduler is a manually driven refiner.Scheduler. Nothing runs until the
// test calls Tick or Fire, so tests control exactly which callbacks run.
type Scheduler struct {
	mu       sync.Mutex
	tickers  []*Task
	timers   []*Task
	Interval time.Duration // interval passed to the last Every call
	Delays   []time.Duration
}

// Task is a scheduled callback.
type Task struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
	fired   bool
}

// Stop cancels the task.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *Task) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Task) run(once bool) bool {
	t.mu.Lock()
	if t.stopped || (once && t.fired) {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
	return true
}

// Every records a repeating task.
func (s *Scheduler) Every(interval time.Duration, fn func()) refiner.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Task{fn: fn}
	s.Interval = interval
	s.tickers = append(s.tickers, t)
	return t
}

// After records a one-shot task.
func (s *Scheduler) After(delay time.Duration, fn func()) refiner.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Task{fn: fn}
	s.Delays = append(s.Delays, delay)
	s.timers = append(s.timers, t)
	return t
}

// Tick runs every live repeating task once.
func (s *Scheduler) Tick() {
	for _, t := range s.snapshot(&s.tickers) {
		t.run(false)
	}
}

// Fire runs every pending one-shot task and reports how many ran.
func (s *Scheduler) Fire() int {
	n := 0
	for _, t := range s.snapshot(&s.timers) {
		if t.run(true) {
			n++
		}
	}
	return n
}

// Tickers returns the repeating tasks registered so far.
func (s *Scheduler) Tickers() []*Task {
	return s.snapshot(&s.tickers)
}

func (s *Scheduler) snapshot(tasks *[]*Task) []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Task(nil), (*tasks)...)
}
