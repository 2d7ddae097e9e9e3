// Package goals tracks user-defined activity goals and credits completed
// workouts toward them.
package goals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/wrkout/internal/logging"
	"github.com/balkashynov/wrkout/internal/models"
)

var (
	// ErrGoalNotFound is returned when a goal ID does not exist
	ErrGoalNotFound = errors.New("goal not found")
	// ErrSessionNotCompleted is returned when processing an unfinished session
	ErrSessionNotCompleted = errors.New("session is not completed")
)

// Service stores goals and applies completed workouts to them
type Service struct {
	db     *gorm.DB
	logger *logging.Logger
	now    func() time.Time

	mu    sync.Mutex
	goals []models.Goal // open goals as of the last LoadGoals
}

// NewService creates a goal Service backed by db
func NewService(db *gorm.DB, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Service{
		db:     db,
		logger: logger.WithComponent("goals"),
		now:    time.Now,
	}
}

// CreateGoalRequest holds the data needed to create a new goal
type CreateGoalRequest struct {
	Title       string
	WorkoutType models.WorkoutType // empty counts every type
	Metric      models.GoalMetric
	Target      float64
	Deadline    *time.Time
}

// CreateGoal validates and stores a new goal
func (s *Service) CreateGoal(ctx context.Context, req CreateGoalRequest) (*models.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("goal title is required")
	}
	if !req.Metric.Valid() {
		return nil, fmt.Errorf("unknown goal metric %q", req.Metric)
	}
	if req.WorkoutType != "" && !req.WorkoutType.Valid() {
		return nil, fmt.Errorf("unknown workout type %q", req.WorkoutType)
	}
	if req.Target <= 0 {
		return nil, fmt.Errorf("goal target must be positive")
	}

	goal := models.Goal{
		Title:       title,
		WorkoutType: req.WorkoutType,
		Metric:      req.Metric,
		Target:      req.Target,
		Deadline:    req.Deadline,
	}
	if err := s.db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.logger.Info("created goal", "goal_id", goal.ID, "metric", goal.Metric, "target", goal.Target)
	return &goal, nil
}

// ListGoals returns goals ordered by creation, optionally with completed ones
func (s *Service) ListGoals(ctx context.Context, includeCompleted bool) ([]models.Goal, error) {
	var goals []models.Goal

	q := s.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if !includeCompleted {
		q = q.Where("completed_at IS NULL")
	}
	if err := q.Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// GetGoal retrieves a goal with its contributions
func (s *Service) GetGoal(ctx context.Context, id uint) (*models.Goal, error) {
	var goal models.Goal

	err := s.db.WithContext(ctx).Preload("Contributions").First(&goal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: #%d", ErrGoalNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load goal #%d: %w", id, err)
	}
	return &goal, nil
}

// DeleteGoal removes a goal
func (s *Service) DeleteGoal(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Goal{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete goal #%d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: #%d", ErrGoalNotFound, id)
	}
	return nil
}

// LoadGoals refreshes the open goals used by ProcessWorkoutCompletion
func (s *Service) LoadGoals(ctx context.Context) error {
	goals, err := s.ListGoals(ctx, false)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.goals = goals
	s.mu.Unlock()

	s.logger.Debug("loaded goals", "count", len(goals))
	return nil
}

// ProcessWorkoutCompletion adds the session's contribution to every loaded
// open goal it matches. A session counts toward a goal at most once.
func (s *Service) ProcessWorkoutCompletion(ctx context.Context, session models.Session) error {
	if session.Status != models.StatusCompleted {
		return fmt.Errorf("%w: %s", ErrSessionNotCompleted, session.ID)
	}

	s.mu.Lock()
	goals := append([]models.Goal(nil), s.goals...)
	s.mu.Unlock()

	now := s.now()
	var errs []error
	for _, goal := range goals {
		if !goal.Open(now) || !goal.Matches(session.Type) {
			continue
		}
		amount := Contribution(goal.Metric, session)
		if amount <= 0 {
			continue
		}
		if err := s.applyContribution(ctx, goal.ID, session.ID, amount, now); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Service) applyContribution(ctx context.Context, goalID uint, sessionID string, amount float64, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contribution := models.GoalContribution{GoalID: goalID, SessionID: sessionID, Amount: amount}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&contribution)
		if res.Error != nil {
			return fmt.Errorf("failed to record contribution to goal #%d: %w", goalID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil // already counted
		}

		var goal models.Goal
		if err := tx.First(&goal, goalID).Error; err != nil {
			return fmt.Errorf("failed to load goal #%d: %w", goalID, err)
		}

		updates := map[string]any{"progress": goal.Progress + amount}
		if goal.CompletedAt == nil && goal.Progress+amount >= goal.Target {
			updates["completed_at"] = now
			s.logger.Info("goal reached", "goal_id", goalID, "session_id", sessionID)
		}
		if err := tx.Model(&goal).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update goal #%d: %w", goalID, err)
		}
		return nil
	})
}

// Contribution returns how much session counts toward a goal measuring metric
func Contribution(metric models.GoalMetric, session models.Session) float64 {
	switch metric {
	case models.MetricWorkouts:
		return 1
	case models.MetricDuration:
		return float64(session.DurationSeconds)
	case models.MetricCalories:
		if session.Calories != nil {
			return float64(*session.Calories)
		}
	case models.MetricDistance:
		if session.Distance != nil {
			return *session.Distance
		}
	}
	return 0
}
