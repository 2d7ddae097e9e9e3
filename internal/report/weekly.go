// Package report aggregates completed sessions for the history views.
package report

import (
	"time"

	"github.com/balkashynov/wrkout/internal/models"
)

// TypeTotals sums the sessions of one workout type
type TypeTotals struct {
	Type     models.WorkoutType
	Count    int
	Duration time.Duration
	Calories int
	Distance float64
}

// Summary aggregates completed sessions within [From, To)
type Summary struct {
	From     time.Time
	To       time.Time
	Count    int
	Duration time.Duration
	Calories int
	Distance float64
	ByType   []TypeTotals // only types with at least one session, in display order
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// Weekly summarizes completed sessions started during the week containing now
func Weekly(sessions []models.Session, now time.Time) Summary {
	from := WeekStart(now)
	return Range(sessions, from, from.AddDate(0, 0, 7))
}

// Range summarizes completed sessions started in [from, to)
func Range(sessions []models.Session, from, to time.Time) Summary {
	summary := Summary{From: from, To: to}
	totals := make(map[models.WorkoutType]*TypeTotals)

	for _, s := range sessions {
		if s.Status != models.StatusCompleted {
			continue
		}
		if s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}

		tt, ok := totals[s.Type]
		if !ok {
			tt = &TypeTotals{Type: s.Type}
			totals[s.Type] = tt
		}

		summary.Count++
		tt.Count++
		summary.Duration += s.Duration()
		tt.Duration += s.Duration()
		if s.Calories != nil {
			summary.Calories += *s.Calories
			tt.Calories += *s.Calories
		}
		if s.Distance != nil {
			summary.Distance += *s.Distance
			tt.Distance += *s.Distance
		}
	}

	for _, t := range models.AllWorkoutTypes {
		if tt, ok := totals[t]; ok {
			summary.ByType = append(summary.ByType, *tt)
		}
	}
	return summary
}

// Recent returns up to limit sessions, newest first. limit <= 0 returns all.
func Recent(sessions []models.Session, limit int) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		out = append(out, sessions[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
