package models

import (
	"time"

	"gorm.io/gorm"
)

// GoalMetric selects what a goal counts
type GoalMetric string

const (
	MetricWorkouts GoalMetric = "workouts"
	MetricDuration GoalMetric = "duration" // seconds
	MetricCalories GoalMetric = "calories"
	MetricDistance GoalMetric = "distance" // kilometres
)

// Valid reports whether m is a known metric
func (m GoalMetric) Valid() bool {
	switch m {
	case MetricWorkouts, MetricDuration, MetricCalories, MetricDistance:
		return true
	}
	return false
}

// Goal represents a user-defined activity target
type Goal struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string      `gorm:"not null" json:"title"`
	WorkoutType WorkoutType `json:"workout_type"` // empty matches any type
	Metric      GoalMetric  `gorm:"not null" json:"metric"`
	Target      float64     `gorm:"not null" json:"target"`
	Progress    float64     `gorm:"default:0" json:"progress"`
	Deadline    *time.Time  `json:"deadline"`
	CompletedAt *time.Time  `json:"completed_at"`

	// Relationships
	Contributions []GoalContribution `gorm:"foreignKey:GoalID" json:"contributions"`
}

// Open reports whether the goal still accepts progress at the given time
func (g Goal) Open(now time.Time) bool {
	if g.CompletedAt != nil {
		return false
	}
	return g.Deadline == nil || !now.After(*g.Deadline)
}

// Matches reports whether a session of type t counts toward the goal
func (g Goal) Matches(t WorkoutType) bool {
	return g.WorkoutType == "" || g.WorkoutType == t
}

// GoalContribution records the progress a single session added to a goal
type GoalContribution struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	GoalID    uint    `gorm:"not null;uniqueIndex:idx_goal_session" json:"goal_id"`
	SessionID string  `gorm:"not null;uniqueIndex:idx_goal_session" json:"session_id"`
	Amount    float64 `json:"amount"`
}
