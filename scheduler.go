package refiner

import (
	"sync"
	"time"
)

// Handle cancels a scheduled task. Stop is idempotent.
type Handle interface {
	Stop()
}

// Scheduler runs callbacks after a delay or on a fixed interval.
// Callbacks run on a goroutine owned by the scheduler.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
	After(delay time.Duration, fn func()) Handle
}

// Interface compliance check.
var _ Scheduler = TimeScheduler{}

// TimeScheduler implements Scheduler on top of the time package.
type TimeScheduler struct{}

// After runs fn once after delay.
func (TimeScheduler) After(delay time.Duration, fn func()) Handle {
	return timerHandle{time.AfterFunc(delay, fn)}
}

// Every runs fn every interval until the handle is stopped.
func (TimeScheduler) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-h.ticker.C:
				fn()
			case <-h.done:
				return
			}
		}
	}()
	return h
}

type timerHandle struct{ t *time.Timer }

func (h timerHandle) Stop() { h.t.Stop() }

type tickerHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}
