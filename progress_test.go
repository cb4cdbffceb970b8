package refiner_test

import (
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/refiner"
	"github.com/fwojciec/refiner/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressSteps(t *testing.T) {
	t.Parallel()

	prev := refiner.ProgressStart.Percentage
	for _, s := range refiner.ProgressSteps {
		assert.Greater(t, s.Percentage, prev)
		assert.Less(t, s.Percentage, 100)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Status)
		prev = s.Percentage
	}
	assert.Equal(t, 95, prev)
	assert.Equal(t, 100, refiner.ProgressComplete.Percentage)
}

func TestSimulator(t *testing.T) {
	t.Parallel()

	t.Run("emits steps in order and idles at the last", func(t *testing.T) {
		t.Parallel()
		sched := &mock.Scheduler{}
		var got []int
		p := refiner.NewSimulator(sched).Start(func(s refiner.ProgressState) {
			got = append(got, s.Percentage)
		})

		assert.Equal(t, refiner.DefaultProgressInterval, sched.Interval)
		for i := 0; i < 8; i++ {
			sched.Tick()
		}

		assert.Equal(t, []int{10, 25, 45, 65, 80, 95}, got)
		assert.Equal(t, 6, p.Emitted())
		assert.False(t, sched.Tickers()[0].Stopped(), "idles until stopped")
	})

	t.Run("stop prevents further updates", func(t *testing.T) {
		t.Parallel()
		sched := &mock.Scheduler{}
		var n int
		p := refiner.NewSimulator(sched).Start(func(refiner.ProgressState) { n++ })

		sched.Tick()
		p.Stop()
		p.Stop()
		sched.Tick()

		assert.Equal(t, 1, n)
		assert.True(t, sched.Tickers()[0].Stopped())
	})

	t.Run("custom interval and steps", func(t *testing.T) {
		t.Parallel()
		sched := &mock.Scheduler{}
		steps := []refiner.ProgressState{{Percentage: 50, Title: "Half"}}
		var got []refiner.ProgressState
		refiner.NewSimulator(sched, refiner.WithInterval(time.Second), refiner.WithSteps(steps)).
			Start(func(s refiner.ProgressState) { got = append(got, s) })

		sched.Tick()
		sched.Tick()

		assert.Equal(t, time.Second, sched.Interval)
		assert.Equal(t, steps, got)
	})

	t.Run("nil progress stop is a no-op", func(t *testing.T) {
		t.Parallel()
		var p *refiner.Progress
		assert.NotPanics(t, p.Stop)
		assert.Equal(t, 0, p.Emitted())
	})
}

func TestSimulator_TimeScheduler(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var got []int
	p := refiner.NewSimulator(refiner.TimeScheduler{}, refiner.WithInterval(time.Millisecond)).
		Start(func(s refiner.ProgressState) {
			mu.Lock()
			got = append(got, s.Percentage)
			mu.Unlock()
		})
	defer p.Stop()

	require.Eventually(t, func() bool { return p.Emitted() == len(refiner.ProgressSteps) }, time.Second, time.Millisecond)
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{10, 25, 45, 65, 80, 95}, got)
}

func TestTimeScheduler_After(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{})
	refiner.TimeScheduler{}.After(time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback did not run")
	}

	var ran bool
	h := refiner.TimeScheduler{}.After(time.Hour, func() { ran = true })
	h.Stop()
	assert.False(t, ran)
}
