// Package tracker owns the current workout session and enforces its
// lifecycle:
//
//	empty --start--> in_progress --pause--> paused --resume--> in_progress
//	in_progress|paused --stop--> empty (session stored as completed)
//
// Every transition is persisted through a SessionStore. Completing a session
// notifies the goal collaborator in the background.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/wrkout/internal/logging"
	"github.com/balkashynov/wrkout/internal/metrics"
	"github.com/balkashynov/wrkout/internal/models"
)

// SessionStore persists sessions
type SessionStore interface {
	Save(ctx context.Context, session models.Session) error
	Update(ctx context.Context, session models.Session) error
	GetAll(ctx context.Context) ([]models.Session, error)
}

// GoalNotifier receives completed sessions
type GoalNotifier interface {
	LoadGoals(ctx context.Context) error
	ProcessWorkoutCompletion(ctx context.Context, session models.Session) error
}

// Manager owns the single current session. Lifecycle operations are
// serialized; observers never block on persistence.
type Manager struct {
	store  SessionStore
	goals  GoalNotifier
	ticker Ticker
	logger *logging.Logger
	now    func() time.Time
	newID  func() string

	opMu sync.Mutex // held for the whole of each lifecycle operation

	mu       sync.RWMutex // guards the fields below
	current  *models.Session
	tracking bool
	elapsed  int // active seconds

	notifications sync.WaitGroup
}

// Option configures a Manager
type Option func(*Manager)

// WithGoals sets the collaborator notified when a session completes
func WithGoals(goals GoalNotifier) Option {
	return func(m *Manager) { m.goals = goals }
}

// WithTicker replaces the default one-second ticker
func WithTicker(t Ticker) Option {
	return func(m *Manager) { m.ticker = t }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l == nil {
			l = logging.NopLogger()
		}
		m.logger = l
	}
}

// WithClock replaces time.Now for timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces the UUID generator for session IDs
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates a Manager with an empty current-session slot
func NewManager(store SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		ticker: NewIntervalTicker(time.Second),
		logger: logging.NopLogger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("tracker")
	return m
}

// Current returns a copy of the current session
func (m *Manager) Current() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return models.Session{}, false
	}
	return *m.current, true
}

// IsTracking reports whether elapsed time is currently advancing
func (m *Manager) IsTracking() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracking
}

// Elapsed returns the active time of the current session
func (m *Manager) Elapsed() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Duration(m.elapsed) * time.Second
}

// FormattedElapsed renders Elapsed as MM:SS, or HH:MM:SS past an hour
func (m *Manager) FormattedElapsed() string {
	return FormatClock(m.Elapsed())
}

// FormatClock renders d as MM:SS, or HH:MM:SS past an hour
func FormatClock(d time.Duration) string {
	total := int(d / time.Second)
	hours := total / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func (m *Manager) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tracking {
		m.elapsed++
	}
}

// Start creates a new in-progress session of type t, makes it current,
// starts ticking and persists it. If persistence fails the slot is emptied
// again and the storage error is returned.
func (m *Manager) Start(ctx context.Context, t models.WorkoutType) (models.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !t.Valid() {
		return models.Session{}, fmt.Errorf("%w: %q", ErrInvalidWorkoutType, t)
	}

	m.mu.Lock()
	if m.current != nil {
		m.mu.Unlock()
		return models.Session{}, ErrSessionAlreadyActive
	}
	session := models.Session{
		ID:        m.newID(),
		Type:      t,
		StartTime: m.now(),
		Status:    models.StatusInProgress,
	}
	m.current = &session
	m.tracking = true
	m.elapsed = 0
	m.mu.Unlock()

	m.ticker.Start(m.tick)

	log := m.logger.WithSession(session.ID)
	log.Info("starting workout", "type", t)

	if err := m.store.Save(ctx, session); err != nil {
		m.ticker.Stop()

		m.mu.Lock()
		m.current = nil
		m.tracking = false
		m.elapsed = 0
		m.mu.Unlock()

		log.Error("failed to persist new workout, start reverted", "error", err)
		return models.Session{}, err
	}

	return session, nil
}

// Pause suspends the in-progress current session. The active time so far is
// recorded on the session.
func (m *Manager) Pause(ctx context.Context) (models.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.current == nil || m.current.Status != models.StatusInProgress {
		m.mu.Unlock()
		return models.Session{}, ErrNoActiveSession
	}
	now := m.now()
	session := *m.current
	session.Status = models.StatusPaused
	session.PausedAt = &now
	session.DurationSeconds = m.elapsed
	m.current = &session
	m.tracking = false
	m.mu.Unlock()

	m.ticker.Stop()

	m.logger.WithSession(session.ID).Info("pausing workout", "elapsed_seconds", session.DurationSeconds)

	if err := m.store.Update(ctx, session); err != nil {
		return session, err
	}
	return session, nil
}

// Resume continues the paused current session
func (m *Manager) Resume(ctx context.Context) (models.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.current == nil || m.current.Status != models.StatusPaused {
		m.mu.Unlock()
		return models.Session{}, ErrCannotResumeSession
	}
	now := m.now()
	session := *m.current
	session.Status = models.StatusInProgress
	session.ResumedAt = &now
	m.current = &session
	m.tracking = true
	m.mu.Unlock()

	m.ticker.Start(m.tick)

	m.logger.WithSession(session.ID).Info("resuming workout")

	if err := m.store.Update(ctx, session); err != nil {
		return session, err
	}
	return session, nil
}

// RecordMeasurements sets measured values on the current session and
// persists it. Values recorded here are kept at completion.
func (m *Manager) RecordMeasurements(ctx context.Context, measured models.Measurements) (models.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if (measured.Calories != nil && *measured.Calories < 0) ||
		(measured.Distance != nil && *measured.Distance < 0) ||
		(measured.Steps != nil && *measured.Steps < 0) {
		return models.Session{}, ErrInvalidMeasurement
	}

	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return models.Session{}, ErrNoActiveSession
	}
	session := *m.current
	if measured.Calories != nil {
		session.Calories = measured.Calories
	}
	if measured.Distance != nil {
		session.Distance = measured.Distance
	}
	if measured.Steps != nil {
		session.Steps = measured.Steps
	}
	m.current = &session
	m.mu.Unlock()

	m.logger.WithSession(session.ID).Info("recorded measurements")

	if err := m.store.Update(ctx, session); err != nil {
		return session, err
	}
	return session, nil
}

// StopOption configures Stop
type StopOption func(*stopOptions)

type stopOptions struct {
	duration *int
}

// WithDuration overrides the counted active time with an externally
// supplied duration
func WithDuration(d time.Duration) StopOption {
	return func(o *stopOptions) {
		seconds := max(int(d/time.Second), 0)
		o.duration = &seconds
	}
}

// Stop completes the current session: it fixes the end time and duration,
// estimates any unmeasured metrics, persists the final record and empties
// the slot. Goals are notified in the background; their failures are only
// logged. If the final save fails the session stays current in its previous
// status and the storage error is returned.
func (m *Manager) Stop(ctx context.Context, opts ...StopOption) (models.Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	var o stopOptions
	for _, opt := range opts {
		opt(&o)
	}

	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return models.Session{}, ErrNoActiveSession
	}
	previous := *m.current
	wasTracking := m.tracking
	m.tracking = false
	m.mu.Unlock()

	// no tick can land after this returns
	m.ticker.Stop()

	m.mu.Lock()
	now := m.now()
	final := previous
	final.Status = models.StatusCompleted
	final.EndTime = &now
	final.DurationSeconds = m.elapsed
	if o.duration != nil {
		final.DurationSeconds = *o.duration
	}
	metrics.Fill(&final)
	m.current = &final
	m.mu.Unlock()

	log := m.logger.WithSession(final.ID)
	log.Info("stopping workout", "duration_seconds", final.DurationSeconds, "calories", *final.Calories)

	if err := m.store.Update(ctx, final); err != nil {
		m.mu.Lock()
		m.current = &previous
		m.tracking = wasTracking
		m.mu.Unlock()
		if wasTracking {
			m.ticker.Start(m.tick)
		}

		log.Error("failed to persist completed workout", "error", err)
		return models.Session{}, err
	}

	m.mu.Lock()
	m.current = nil
	m.elapsed = 0
	m.mu.Unlock()

	m.notifyGoals(final)
	return final, nil
}

// notifyGoals hands the completed session to the goal collaborator on a
// separate goroutine. The caller's context is not used so cancelling the
// stop caller does not cut the notification short.
func (m *Manager) notifyGoals(session models.Session) {
	if m.goals == nil {
		return
	}

	log := m.logger.WithSession(session.ID)

	m.notifications.Add(1)
	go func() {
		defer m.notifications.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("goal notification panicked", "panic", r)
			}
		}()

		ctx := context.Background()
		if err := m.goals.LoadGoals(ctx); err != nil {
			log.Error("failed to load goals", "error", err)
			return
		}
		if err := m.goals.ProcessWorkoutCompletion(ctx, session); err != nil {
			log.Error("failed to update goals", "error", err)
			return
		}
		log.Debug("goals updated")
	}()
}

// Restore adopts the most recent unfinished session from the store when
// the slot is empty. Elapsed time is rebuilt from the recorded duration plus
// wall-clock time since the last start or resume for an in-progress session.
// It reports whether a session is current afterwards.
func (m *Manager) Restore(ctx context.Context) (models.Session, bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if session, ok := m.Current(); ok {
		return session, true, nil
	}

	sessions, err := m.store.GetAll(ctx)
	if err != nil {
		return models.Session{}, false, err
	}

	var found *models.Session
	for i := len(sessions) - 1; i >= 0; i-- {
		if !sessions[i].Status.Terminal() {
			found = &sessions[i]
			break
		}
	}
	if found == nil {
		return models.Session{}, false, nil
	}

	session := *found
	elapsed := session.DurationSeconds
	tracking := session.Status == models.StatusInProgress
	if tracking {
		lastActive := session.StartTime
		if session.ResumedAt != nil {
			lastActive = *session.ResumedAt
		}
		if since := m.now().Sub(lastActive); since > 0 {
			elapsed += int(since / time.Second)
		}
	}

	m.mu.Lock()
	m.current = &session
	m.tracking = tracking
	m.elapsed = elapsed
	m.mu.Unlock()

	if tracking {
		m.ticker.Start(m.tick)
	}

	m.logger.WithSession(session.ID).Info("restored workout", "status", session.Status, "elapsed_seconds", elapsed)
	return session, true, nil
}

// Close stops ticking and waits for outstanding goal notifications. The
// current session, if any, stays persisted and can be restored later.
func (m *Manager) Close() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	m.tracking = false
	m.mu.Unlock()

	m.ticker.Stop()
	m.notifications.Wait()
}

// Wait blocks until background goal notifications have finished
func (m *Manager) Wait() {
	m.notifications.Wait()
}
