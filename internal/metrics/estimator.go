// Package metrics estimates workout summary values from activity type and
// active duration when no measured values were recorded.
package metrics

import (
	"math"

	"github.com/balkashynov/wrkout/internal/models"
)

// Estimate holds derived summary values for a workout
type Estimate struct {
	Calories int
	Distance float64 // kilometres
	Steps    int
}

// rate is the per-minute yield of one workout type
type rate struct {
	calories float64
	distance float64
	steps    float64
}

var rates = map[models.WorkoutType]rate{
	models.WorkoutRunning:  {calories: 11.4, distance: 0.167, steps: 160},
	models.WorkoutCycling:  {calories: 8.5, distance: 0.333, steps: 0},
	models.WorkoutSwimming: {calories: 9.8, distance: 0.040, steps: 0},
	models.WorkoutStrength: {calories: 6.0, distance: 0, steps: 0},
	models.WorkoutYoga:     {calories: 3.0, distance: 0, steps: 0},
	models.WorkoutWalking:  {calories: 4.3, distance: 0.083, steps: 110},
}

// defaultRate covers unknown types so estimation never fails
var defaultRate = rate{calories: 5.0}

func rateFor(t models.WorkoutType) rate {
	if r, ok := rates[t]; ok {
		return r
	}
	return defaultRate
}

// For estimates calories, distance and steps for a workout of type t lasting
// durationSeconds of active time. Negative durations are treated as zero.
func For(t models.WorkoutType, durationSeconds int) Estimate {
	minutes := float64(max(durationSeconds, 0)) / 60
	r := rateFor(t)

	return Estimate{
		Calories: int(minutes * r.calories),
		Distance: math.Round(minutes*r.distance*1000) / 1000,
		Steps:    int(minutes * r.steps),
	}
}

// Calories estimates calories only
func Calories(t models.WorkoutType, durationSeconds int) int {
	return For(t, durationSeconds).Calories
}

// Fill sets every nil measured field on the session from the estimate.
// Fields that already hold a value are left untouched.
func Fill(session *models.Session) {
	est := For(session.Type, session.DurationSeconds)
	if session.Calories == nil {
		calories := est.Calories
		session.Calories = &calories
	}
	if session.Distance == nil {
		distance := est.Distance
		session.Distance = &distance
	}
	if session.Steps == nil {
		steps := est.Steps
		session.Steps = &steps
	}
}
