package tracker

import (
	"sync"
	"time"
)

// Ticker drives the elapsed-time counter while a session is in progress.
// Start and Stop may be called repeatedly; Stop must not return while a
// tick callback is still running.
type Ticker interface {
	Start(onTick func())
	Stop()
}

// IntervalTicker calls onTick every interval on a background goroutine
type IntervalTicker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewIntervalTicker creates a stopped ticker
func NewIntervalTicker(interval time.Duration) *IntervalTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return &IntervalTicker{interval: interval}
}

// Start begins ticking. It is a no-op if already running.
func (t *IntervalTicker) Start(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done

	go func() {
		defer close(done)

		tk := time.NewTicker(t.interval)
		defer tk.Stop()

		for {
			select {
			case <-tk.C:
				onTick()
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts ticking and waits for the goroutine to exit
func (t *IntervalTicker) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the ticker is active
func (t *IntervalTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
