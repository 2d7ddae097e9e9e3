package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/store"
	"github.com/balkashynov/wrkout/internal/testutil"
)

func TestStart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	session, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.StatusInProgress, session.Status)
	assert.Equal(t, h.clock.Now(), session.StartTime)
	assert.Nil(t, session.EndTime)
	assert.Zero(t, session.DurationSeconds)

	current, ok := h.manager.Current()
	require.True(t, ok)
	assert.Equal(t, session, current)
	assert.True(t, h.manager.IsTracking())
	assert.True(t, h.ticker.Running())

	stored, found, err := h.store.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.StatusInProgress, stored.Status)
}

func TestStart_AlreadyActive(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	saves := h.storage.TotalSaves()

	_, err = h.manager.Start(ctx, models.WorkoutYoga)
	assert.ErrorIs(t, err, ErrSessionAlreadyActive)

	current, ok := h.manager.Current()
	require.True(t, ok)
	assert.Equal(t, first, current)
	assert.Equal(t, saves, h.storage.TotalSaves(), "nothing new persisted")
}

func TestStart_InvalidType(t *testing.T) {
	h := newHarness(t)

	_, err := h.manager.Start(context.Background(), models.WorkoutType("parkour"))
	assert.ErrorIs(t, err, ErrInvalidWorkoutType)

	_, ok := h.manager.Current()
	assert.False(t, ok)
}

func TestStart_PersistenceFailureReverts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.storage.FailAllSaves(true)

	_, err := h.manager.Start(ctx, models.WorkoutCycling)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	_, ok := h.manager.Current()
	assert.False(t, ok)
	assert.False(t, h.manager.IsTracking())
	assert.False(t, h.ticker.Running())
	assert.Zero(t, h.manager.Elapsed())

	h.storage.FailAllSaves(false)
	_, err = h.manager.Start(ctx, models.WorkoutCycling)
	assert.NoError(t, err, "slot is free again after a failed start")
}

func TestPause(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Start(ctx, models.WorkoutWalking)
	require.NoError(t, err)
	h.elapse(5)

	session, err := h.manager.Pause(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaused, session.Status)
	require.NotNil(t, session.PausedAt)
	assert.Equal(t, h.clock.Now(), *session.PausedAt)
	assert.Equal(t, 5, session.DurationSeconds)
	assert.False(t, h.manager.IsTracking())
	assert.False(t, h.ticker.Running())

	stored, _, err := h.store.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, stored.Status)
	assert.Equal(t, 5, stored.DurationSeconds)
}

func TestPause_Preconditions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Pause(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSession, "no current session")

	_, err = h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	paused, err := h.manager.Pause(ctx)
	require.NoError(t, err)
	saves := h.storage.TotalSaves()

	_, err = h.manager.Pause(ctx)
	assert.ErrorIs(t, err, ErrNoActiveSession, "already paused")

	current, _ := h.manager.Current()
	assert.Equal(t, paused, current)
	assert.Equal(t, saves, h.storage.TotalSaves())
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Start(ctx, models.WorkoutSwimming)
	require.NoError(t, err)
	_, err = h.manager.Pause(ctx)
	require.NoError(t, err)
	h.clock.Add(3 * time.Second)

	session, err := h.manager.Resume(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, session.Status)
	require.NotNil(t, session.ResumedAt)
	assert.Equal(t, h.clock.Now(), *session.ResumedAt)
	assert.True(t, h.manager.IsTracking())
	assert.True(t, h.ticker.Running())
}

func TestResume_Preconditions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Resume(ctx)
	assert.ErrorIs(t, err, ErrCannotResumeSession, "no current session")

	started, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	saves := h.storage.TotalSaves()

	_, err = h.manager.Resume(ctx)
	assert.ErrorIs(t, err, ErrCannotResumeSession, "not paused")

	current, _ := h.manager.Current()
	assert.Equal(t, started, current)
	assert.Equal(t, saves, h.storage.TotalSaves())
}

func TestStop_NoActiveSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.manager.Stop(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStop_LegalSequences(t *testing.T) {
	tests := []struct {
		name     string
		run      func(t *testing.T, h *harness)
		duration int
	}{
		{
			name: "start stop",
			run: func(t *testing.T, h *harness) {
				h.elapse(30)
			},
			duration: 30,
		},
		{
			name: "start pause stop",
			run: func(t *testing.T, h *harness) {
				h.elapse(12)
				_, err := h.manager.Pause(context.Background())
				require.NoError(t, err)
				h.elapse(40)
			},
			duration: 12,
		},
		{
			name: "start pause resume stop",
			run: func(t *testing.T, h *harness) {
				h.elapse(20)
				_, err := h.manager.Pause(context.Background())
				require.NoError(t, err)
				h.elapse(60)
				_, err = h.manager.Resume(context.Background())
				require.NoError(t, err)
				h.elapse(15)
			},
			duration: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t)

			started, err := h.manager.Start(ctx, models.WorkoutCycling)
			require.NoError(t, err)
			tt.run(t, h)

			final, err := h.manager.Stop(ctx)
			require.NoError(t, err)

			assert.Equal(t, models.StatusCompleted, final.Status)
			require.NotNil(t, final.EndTime)
			assert.Equal(t, tt.duration, final.DurationSeconds)

			stored, found, err := h.store.GetByID(ctx, started.ID)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, final.Status, stored.Status)
			assert.Equal(t, tt.duration, stored.DurationSeconds)
			require.NotNil(t, stored.EndTime)

			_, ok := h.manager.Current()
			assert.False(t, ok)
			assert.Zero(t, h.manager.Elapsed())
			assert.False(t, h.manager.IsTracking())
			assert.False(t, h.ticker.Running())

			all, err := h.store.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, started.ID, all[0].ID)
		})
	}
}

func TestStop_RunningScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)

	_, err = h.manager.Resume(ctx)
	assert.ErrorIs(t, err, ErrCannotResumeSession)

	h.elapse(5)
	paused, err := h.manager.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, paused.Status)
	assert.Equal(t, 5, paused.DurationSeconds)

	h.elapse(3)
	resumed, err := h.manager.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, resumed.Status)

	h.elapse(5)
	final, err := h.manager.Stop(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, final.Status)
	assert.Equal(t, 10, final.DurationSeconds, "paused gap excluded")
	require.NotNil(t, final.Calories)
	assert.Equal(t, 1, *final.Calories)
	assert.Equal(t, h.clock.Now(), *final.EndTime)
}

func TestStop_YogaImmediately(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Start(ctx, models.WorkoutYoga)
	require.NoError(t, err)

	final, err := h.manager.Stop(ctx)
	require.NoError(t, err)

	require.NotNil(t, final.Calories)
	require.NotNil(t, final.Distance)
	require.NotNil(t, final.Steps)
	assert.Equal(t, 0, *final.Calories)
	assert.GreaterOrEqual(t, *final.Distance, 0.0)
	assert.GreaterOrEqual(t, *final.Steps, 0)
}

func TestStop_KeepsMeasuredValues(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	h.elapse(600)

	distance := 2.5
	_, err = h.manager.RecordMeasurements(ctx, models.Measurements{Distance: &distance})
	require.NoError(t, err)

	final, err := h.manager.Stop(ctx)
	require.NoError(t, err)

	require.NotNil(t, final.Distance)
	assert.Equal(t, 2.5, *final.Distance)
	require.NotNil(t, final.Calories)
	assert.Equal(t, 114, *final.Calories)
	require.NotNil(t, final.Steps)
	assert.Equal(t, 1600, *final.Steps)
}

func TestStop_WithDuration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Start(ctx, models.WorkoutStrength)
	require.NoError(t, err)
	h.elapse(10)

	final, err := h.manager.Stop(ctx, WithDuration(45*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2700, final.DurationSeconds)
	assert.Equal(t, 270, *final.Calories)
}

func TestStop_PersistenceFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	started, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	h.elapse(7)

	h.storage.FailAllSaves(true)
	_, err = h.manager.Stop(ctx)
	require.ErrorIs(t, err, store.ErrStorageFailure)

	current, ok := h.manager.Current()
	require.True(t, ok)
	assert.Equal(t, started, current)
	assert.True(t, h.manager.IsTracking())
	assert.True(t, h.ticker.Running())
	assert.Equal(t, 7*time.Second, h.manager.Elapsed())

	h.manager.Wait()
	assert.Empty(t, h.goals.Completed(), "goals are not notified for a failed stop")

	h.storage.FailAllSaves(false)
	h.elapse(3)
	final, err := h.manager.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, final.DurationSeconds)
}

func TestStop_NotifiesGoals(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.Start(ctx, models.WorkoutWalking)
	require.NoError(t, err)
	final, err := h.manager.Stop(ctx)
	require.NoError(t, err)

	h.manager.Wait()
	completed := h.goals.Completed()
	require.Len(t, completed, 1)
	assert.Equal(t, final, completed[0])
	assert.Equal(t, 1, h.goals.loads)
}

func TestStop_GoalFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.goals.err = errGoals

	_, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	final, err := h.manager.Stop(ctx)
	require.NoError(t, err)
	h.manager.Wait()

	stored, _, err := h.store.GetByID(ctx, final.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	_, ok := h.manager.Current()
	assert.False(t, ok)
}

func TestStop_GoalLoadFailureSkipsProcessing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.goals.loadErr = errGoals

	_, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	_, err = h.manager.Stop(ctx)
	require.NoError(t, err)
	h.manager.Wait()

	assert.Empty(t, h.goals.Completed())
}

func TestStop_DoesNotWaitForGoals(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.goals.release = make(chan struct{})

	_, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)

	_, err = h.manager.Stop(ctx)
	require.NoError(t, err, "stop returns while goals are still processing")

	_, err = h.manager.Start(ctx, models.WorkoutYoga)
	require.NoError(t, err, "a new session can start right away")

	close(h.goals.release)
	h.manager.Wait()
	assert.Len(t, h.goals.Completed(), 1)
}

func TestRecordMeasurements(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.manager.RecordMeasurements(ctx, models.Measurements{})
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = h.manager.Start(ctx, models.WorkoutWalking)
	require.NoError(t, err)

	negative := -1
	_, err = h.manager.RecordMeasurements(ctx, models.Measurements{Steps: &negative})
	assert.ErrorIs(t, err, ErrInvalidMeasurement)

	steps := 4200
	session, err := h.manager.RecordMeasurements(ctx, models.Measurements{Steps: &steps})
	require.NoError(t, err)
	require.NotNil(t, session.Steps)
	assert.Equal(t, 4200, *session.Steps)

	stored, _, err := h.store.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Steps)
	assert.Equal(t, 4200, *stored.Steps)
}

func TestPause_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	started, err := h.manager.Start(ctx, models.WorkoutRunning)
	require.NoError(t, err)
	h.elapse(4)
	h.storage.FailAllSaves(true)

	_, err = h.manager.Pause(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	current, ok := h.manager.Current()
	require.True(t, ok)
	assert.Equal(t, models.StatusPaused, current.Status)
	assert.Equal(t, 4, current.DurationSeconds)
	assert.False(t, h.manager.IsTracking())
	assert.False(t, h.ticker.Running())

	stored, found, err := h.store.GetByID(ctx, started.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.StatusInProgress, stored.Status, "durable record keeps the last saved state")
}

func TestResume_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	started, err := h.manager.Start(ctx, models.WorkoutCycling)
	require.NoError(t, err)
	h.elapse(3)
	_, err = h.manager.Pause(ctx)
	require.NoError(t, err)
	h.storage.FailAllSaves(true)

	_, err = h.manager.Resume(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	current, ok := h.manager.Current()
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, current.Status)
	assert.True(t, h.manager.IsTracking())
	assert.True(t, h.ticker.Running())

	stored, _, err := h.store.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, stored.Status)
}

func TestRecordMeasurements_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	started, err := h.manager.Start(ctx, models.WorkoutWalking)
	require.NoError(t, err)
	h.storage.FailAllSaves(true)

	steps := 1500
	_, err = h.manager.RecordMeasurements(ctx, models.Measurements{Steps: &steps})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	current, ok := h.manager.Current()
	require.True(t, ok)
	require.NotNil(t, current.Steps)
	assert.Equal(t, 1500, *current.Steps)

	stored, _, err := h.store.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Steps)
}

// updateRecorder notes every Update the manager issues
type updateRecorder struct {
	*store.SessionStore

	mu      sync.Mutex
	updates []models.Status
}

func (r *updateRecorder) Update(ctx context.Context, session models.Session) error {
	r.mu.Lock()
	r.updates = append(r.updates, session.Status)
	r.mu.Unlock()
	return r.SessionStore.Update(ctx, session)
}

func TestTransitionsAfterStartUseUpdate(t *testing.T) {
	ctx := context.Background()
	storage := testutil.NewMemoryStorage()
	recorder := &updateRecorder{SessionStore: store.NewSessionStore(storage, nil)}
	m := NewManager(recorder, WithTicker(&manualTicker{}), WithLogger(nil))
	t.Cleanup(m.Close)

	_, err := m.Start(ctx, models.WorkoutSwimming)
	require.NoError(t, err)
	assert.Empty(t, recorder.updates, "start saves a new record")

	_, err = m.Pause(ctx)
	require.NoError(t, err)
	_, err = m.Resume(ctx)
	require.NoError(t, err)
	calories := 120
	_, err = m.RecordMeasurements(ctx, models.Measurements{Calories: &calories})
	require.NoError(t, err)
	_, err = m.Stop(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.Status{
		models.StatusPaused,
		models.StatusInProgress,
		models.StatusInProgress,
		models.StatusCompleted,
	}, recorder.updates)
}

func TestConcurrentStart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.manager.Start(ctx, models.WorkoutRunning)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, ErrSessionAlreadyActive) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, rejected)

	all, err := h.store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	t.Run("empty store", func(t *testing.T) {
		_, ok, err := h.manager.Restore(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("in progress session", func(t *testing.T) {
		started, err := h.manager.Start(ctx, models.WorkoutRunning)
		require.NoError(t, err)
		h.elapse(20)
		_, err = h.manager.Pause(ctx)
		require.NoError(t, err)
		h.clock.Add(time.Minute)
		_, err = h.manager.Resume(ctx)
		require.NoError(t, err)
		h.clock.Add(10 * time.Second)

		// a new process sees only what was persisted
		ticker := &manualTicker{}
		restored := NewManager(h.store, WithTicker(ticker), WithClock(h.clock.Now))
		defer restored.Close()

		session, ok, err := restored.Restore(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, started.ID, session.ID)
		assert.Equal(t, 30*time.Second, restored.Elapsed())
		assert.True(t, restored.IsTracking())
		assert.True(t, ticker.Running())
	})

	t.Run("paused session", func(t *testing.T) {
		_, err := h.manager.Pause(ctx)
		require.NoError(t, err)
		h.clock.Add(time.Hour)

		ticker := &manualTicker{}
		restored := NewManager(h.store, WithTicker(ticker), WithClock(h.clock.Now))
		defer restored.Close()

		session, ok, err := restored.Restore(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.StatusPaused, session.Status)
		assert.Equal(t, 20*time.Second, restored.Elapsed())
		assert.False(t, restored.IsTracking())
		assert.False(t, ticker.Running())

		final, err := restored.Stop(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, final.DurationSeconds)
	})

	t.Run("completed sessions are not restored", func(t *testing.T) {
		restored := NewManager(h.store, WithTicker(&manualTicker{}), WithClock(h.clock.Now))
		defer restored.Close()

		_, ok, err := restored.Restore(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "01:05", FormatClock(65*time.Second))
	assert.Equal(t, "01:01:01", FormatClock(time.Hour+time.Minute+time.Second))
}
