package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/analytics"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/port/database"
)

// ForecastService predicts goal completion dates and the velocity needed to
// hit target dates. Velocity is measured across all of the owner's
// completions, not just the goal's own tasks, so a goal with untouched tasks
// still inherits the owner's working pace.
type ForecastService struct {
	store database.Store
	cfg   config.Analytics
	now   func() time.Time
}

// NewForecastService creates a new ForecastService.
func NewForecastService(store database.Store, cfg config.Analytics) *ForecastService {
	return &ForecastService{store: store, cfg: cfg, now: time.Now}
}

// PredictCompletion forecasts when the goal's remaining tasks will be done
// at the current velocity. A windowDays of 0 uses the configured default.
func (s *ForecastService) PredictCompletion(ctx context.Context, goalID string, windowDays int) (*analytics.Prediction, error) {
	if windowDays == 0 {
		windowDays = s.cfg.DefaultWindowDays
	}
	if windowDays < s.cfg.MinWindowDays || windowDays > s.cfg.MaxWindowDays {
		return nil, fmt.Errorf("window must be between %d and %d days: %w",
			s.cfg.MinWindowDays, s.cfg.MaxWindowDays, domain.ErrValidation)
	}

	g, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.remainingTasks(ctx, goalID)
	if err != nil {
		return nil, err
	}

	pred := &analytics.Prediction{
		GoalID:         g.ID,
		GoalTitle:      g.Title,
		RemainingTasks: remaining,
		TargetDate:     g.TargetDate,
		OnTrack:        true,
	}

	if remaining == 0 {
		pred.Status = analytics.PredictionComplete
		return pred, nil
	}

	velocity, err := s.ownerVelocity(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	if velocity == 0 {
		pred.Status = analytics.PredictionNoVelocity
		pred.OnTrack = false
		return pred, nil
	}

	now := s.now()
	daysNeeded := float64(remaining) / velocity
	predicted := now.Add(time.Duration(daysNeeded * 24 * float64(time.Hour)))

	pred.Status = analytics.PredictionPredicted
	pred.CurrentVelocity = round2(velocity)
	pred.DaysNeeded = round2(daysNeeded)
	pred.PredictedCompletion = &predicted

	if g.TargetDate != nil {
		daysUntilTarget := daysBetween(now, *g.TargetDate)
		if daysNeeded > float64(daysUntilTarget) {
			pred.OnTrack = false
			daysOver := daysNeeded - float64(daysUntilTarget)
			pred.Warning = fmt.Sprintf("%.0f days behind schedule", daysOver)
		}
	}
	return pred, nil
}

// PredictAll forecasts every active goal with the default window.
func (s *ForecastService) PredictAll(ctx context.Context) ([]analytics.Prediction, error) {
	goals, err := s.store.ListGoals(ctx, goal.ListFilter{Status: goal.StatusActive})
	if err != nil {
		return nil, err
	}

	predictions := make([]analytics.Prediction, 0, len(goals))
	for _, g := range goals {
		pred, err := s.PredictCompletion(ctx, g.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("predict goal %s: %w", g.ID, err)
		}
		predictions = append(predictions, *pred)
	}
	return predictions, nil
}

// RequiredVelocity computes the completion rate needed to hit the goal's
// target date and compares it with the current 7-day velocity. Feasible
// means the gap can be closed with at most a 50% pace increase, boundary
// included.
func (s *ForecastService) RequiredVelocity(ctx context.Context, goalID string) (*analytics.RequiredVelocity, error) {
	g, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g.TargetDate == nil {
		return nil, fmt.Errorf("goal has no target date: %w", domain.ErrPrecondition)
	}

	remaining, err := s.remainingTasks(ctx, goalID)
	if err != nil {
		return nil, err
	}

	rv := &analytics.RequiredVelocity{
		GoalID:         g.ID,
		GoalTitle:      g.Title,
		RemainingTasks: remaining,
	}

	if remaining == 0 {
		rv.Status = analytics.RequiredComplete
		return rv, nil
	}

	now := s.now()
	daysUntilTarget := daysBetween(now, *g.TargetDate)
	if daysUntilTarget <= 0 {
		rv.Status = analytics.RequiredOverdue
		return rv, nil
	}

	current, err := s.ownerVelocity(ctx, 7)
	if err != nil {
		return nil, err
	}

	required := float64(remaining) / float64(daysUntilTarget)
	gap := required - current

	rv.Status = analytics.RequiredCalculated
	rv.DaysUntilTarget = daysUntilTarget
	rv.Required = round2(required)
	rv.Current = round2(current)
	rv.Gap = round2(gap)
	rv.Feasible = gap <= current*0.5
	return rv, nil
}

func (s *ForecastService) remainingTasks(ctx context.Context, goalID string) (int, error) {
	tasks, err := s.store.ListTasksByGoal(ctx, goalID)
	if err != nil {
		return 0, err
	}
	remaining := 0
	for _, t := range tasks {
		if t.Remaining() {
			remaining++
		}
	}
	return remaining, nil
}

func (s *ForecastService) ownerVelocity(ctx context.Context, windowDays int) (float64, error) {
	now := s.now()
	tasks, err := s.store.ListCompletedTasksBetween(ctx, now.AddDate(0, 0, -windowDays), now)
	if err != nil {
		return 0, err
	}
	return velocityOf(tasks, windowDays), nil
}

// daysBetween returns whole days from a to b, truncated toward zero.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
