package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/wrkout/internal/models"
)

func session(id string, typ models.WorkoutType, start time.Time, status models.Status, seconds, calories int) models.Session {
	return models.Session{
		ID:              id,
		Type:            typ,
		StartTime:       start,
		Status:          status,
		DurationSeconds: seconds,
		Calories:        &calories,
	}
}

func TestWeekStart(t *testing.T) {
	// Wednesday 18 June 2025
	wed := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), WeekStart(wed))

	sun := time.Date(2025, 6, 22, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), WeekStart(sun))

	mon := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, WeekStart(mon))
}

func TestWeekly(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	distance := 5.0

	run := session("1", models.WorkoutRunning, now.Add(-24*time.Hour), models.StatusCompleted, 1800, 342)
	run.Distance = &distance

	sessions := []models.Session{
		session("0", models.WorkoutYoga, now.AddDate(0, 0, -7), models.StatusCompleted, 3600, 180), // last week
		run,
		session("2", models.WorkoutYoga, now.Add(-time.Hour), models.StatusCompleted, 1200, 60),
		session("3", models.WorkoutRunning, now, models.StatusInProgress, 300, 0), // unfinished
		session("4", models.WorkoutRunning, now.Add(-2*time.Hour), models.StatusCompleted, 600, 114),
	}

	summary := Weekly(sessions, now)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 60*time.Minute, summary.Duration)
	assert.Equal(t, 516, summary.Calories)
	assert.Equal(t, 5.0, summary.Distance)

	require.Len(t, summary.ByType, 2)
	assert.Equal(t, models.WorkoutRunning, summary.ByType[0].Type)
	assert.Equal(t, 2, summary.ByType[0].Count)
	assert.Equal(t, models.WorkoutYoga, summary.ByType[1].Type)
	assert.Equal(t, 1, summary.ByType[1].Count)
}

func TestWeekly_Empty(t *testing.T) {
	summary := Weekly(nil, time.Now())
	assert.Zero(t, summary.Count)
	assert.Empty(t, summary.ByType)
}

func TestRecent(t *testing.T) {
	sessions := []models.Session{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	got := Recent(sessions, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	assert.Len(t, Recent(sessions, 0), 3)
}
