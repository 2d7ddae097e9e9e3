package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/store"
	"github.com/balkashynov/wrkout/internal/testutil"
)

// manualTicker ticks only when the test advances it
type manualTicker struct {
	mu      sync.Mutex
	onTick  func()
	running bool
	starts  int
	stops   int
}

func (t *manualTicker) Start(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = onTick
	t.running = true
	t.starts++
}

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.stops++
}

func (t *manualTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// advance fires n ticks if the ticker is running
func (t *manualTicker) advance(n int) {
	t.mu.Lock()
	onTick, running := t.onTick, t.running
	t.mu.Unlock()

	if !running {
		return
	}
	for i := 0; i < n; i++ {
		onTick()
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 16, 7, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeGoals records completions and can be told to fail or block
type fakeGoals struct {
	mu        sync.Mutex
	loadErr   error
	err       error
	loads     int
	completed []models.Session
	release   chan struct{}
}

func (g *fakeGoals) LoadGoals(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loads++
	return g.loadErr
}

func (g *fakeGoals) ProcessWorkoutCompletion(_ context.Context, session models.Session) error {
	if g.release != nil {
		<-g.release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, session)
	return g.err
}

func (g *fakeGoals) Completed() []models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Session(nil), g.completed...)
}

var errGoals = errors.New("goal service unavailable")

type harness struct {
	manager *Manager
	storage *testutil.MemoryStorage
	store   *store.SessionStore
	ticker  *manualTicker
	clock   *fakeClock
	goals   *fakeGoals
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		storage: testutil.NewMemoryStorage(),
		ticker:  &manualTicker{},
		clock:   newFakeClock(),
		goals:   &fakeGoals{},
	}
	h.store = store.NewSessionStore(h.storage, nil)
	h.manager = NewManager(h.store,
		WithTicker(h.ticker),
		WithClock(h.clock.Now),
		WithGoals(h.goals),
	)
	t.Cleanup(h.manager.Close)
	return h
}

// elapse moves the clock and fires one tick per second
func (h *harness) elapse(seconds int) {
	h.clock.Add(time.Duration(seconds) * time.Second)
	h.ticker.advance(seconds)
}
