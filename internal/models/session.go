package models

import (
	"time"
)

// WorkoutType is the kind of activity a session tracks
type WorkoutType string

const (
	WorkoutRunning  WorkoutType = "running"
	WorkoutCycling  WorkoutType = "cycling"
	WorkoutSwimming WorkoutType = "swimming"
	WorkoutStrength WorkoutType = "strength"
	WorkoutYoga     WorkoutType = "yoga"
	WorkoutWalking  WorkoutType = "walking"
)

// AllWorkoutTypes lists every supported workout type in display order
var AllWorkoutTypes = []WorkoutType{
	WorkoutRunning,
	WorkoutCycling,
	WorkoutSwimming,
	WorkoutStrength,
	WorkoutYoga,
	WorkoutWalking,
}

// Valid reports whether t is one of the supported workout types
func (t WorkoutType) Valid() bool {
	for _, known := range AllWorkoutTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the human readable name
func (t WorkoutType) Label() string {
	switch t {
	case WorkoutRunning:
		return "Running"
	case WorkoutCycling:
		return "Cycling"
	case WorkoutSwimming:
		return "Swimming"
	case WorkoutStrength:
		return "Strength Training"
	case WorkoutYoga:
		return "Yoga"
	case WorkoutWalking:
		return "Walking"
	default:
		return string(t)
	}
}

// Emoji returns the icon shown next to the type in the terminal
func (t WorkoutType) Emoji() string {
	switch t {
	case WorkoutRunning:
		return "🏃"
	case WorkoutCycling:
		return "🚴"
	case WorkoutSwimming:
		return "🏊"
	case WorkoutStrength:
		return "🏋️"
	case WorkoutYoga:
		return "🧘"
	case WorkoutWalking:
		return "🚶"
	default:
		return "⏱️"
	}
}

// Status is the lifecycle state of a session
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Session represents one tracked workout, from start to a terminal status
type Session struct {
	ID              string      `json:"id"`
	Type            WorkoutType `json:"type"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         *time.Time  `json:"end_time,omitempty"`
	Status          Status      `json:"status"`
	DurationSeconds int         `json:"duration_seconds"` // active time only, paused intervals excluded
	PausedAt        *time.Time  `json:"paused_at,omitempty"`
	ResumedAt       *time.Time  `json:"resumed_at,omitempty"`

	// Measured values; nil until recorded or estimated at completion
	Calories *int     `json:"calories,omitempty"`
	Distance *float64 `json:"distance,omitempty"` // kilometres
	Steps    *int     `json:"steps,omitempty"`
}

// Duration returns the accumulated active duration
func (s Session) Duration() time.Duration {
	return time.Duration(s.DurationSeconds) * time.Second
}

// Measurements carries optional measured values for a session
type Measurements struct {
	Calories *int
	Distance *float64
	Steps    *int
}

// Empty reports whether no value is set
func (m Measurements) Empty() bool {
	return m.Calories == nil && m.Distance == nil && m.Steps == nil
}
