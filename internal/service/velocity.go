package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/analytics"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/port/database"
)

// VelocityService computes rolling completion rates and trend classification
// from completion timestamps. Windows are recomputed from scratch each call;
// nothing is cached between invocations.
type VelocityService struct {
	store database.Store
	cfg   config.Analytics
	now   func() time.Time
}

// NewVelocityService creates a new VelocityService.
func NewVelocityService(store database.Store, cfg config.Analytics) *VelocityService {
	return &VelocityService{store: store, cfg: cfg, now: time.Now}
}

// Velocity returns completed tasks per day over the trailing window.
// No completions yields 0, not an error.
func (s *VelocityService) Velocity(ctx context.Context, windowDays int) (float64, error) {
	if err := s.validateWindow(windowDays, s.cfg.MinWindowDays); err != nil {
		return 0, err
	}
	tasks, err := s.completedInWindow(ctx, windowDays)
	if err != nil {
		return 0, err
	}
	return velocityOf(tasks, windowDays), nil
}

// Metrics returns the full velocity report for the window: velocity, trend,
// productivity score, best/worst day and the daily breakdown.
func (s *VelocityService) Metrics(ctx context.Context, windowDays int) (*analytics.VelocityMetrics, error) {
	if err := s.validateWindow(windowDays, s.cfg.MinTrendWindowDays); err != nil {
		return nil, err
	}
	tasks, err := s.completedInWindow(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	now := s.now()
	velocity := velocityOf(tasks, windowDays)
	trend := classifyTrend(tasks, windowDays, now)
	breakdown := dailyBreakdown(tasks)
	best, worst := bestAndWorstDay(breakdown)

	return &analytics.VelocityMetrics{
		PeriodDays:        windowDays,
		Velocity:          round2(velocity),
		CompletionTrend:   trend,
		ProductivityScore: productivityScore(velocity, tasks, trend),
		BestDay:           best,
		WorstDay:          worst,
		DailyBreakdown:    breakdown,
	}, nil
}

// TrendSeries returns a rolling 7-day velocity sample for each day of the
// requested span, oldest first.
func (s *VelocityService) TrendSeries(ctx context.Context, days int) ([]analytics.VelocityPoint, error) {
	if err := s.validateWindow(days, s.cfg.MinTrendWindowDays); err != nil {
		return nil, err
	}

	const windowSize = 7
	tasks, err := s.completedInWindow(ctx, days)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := now.AddDate(0, 0, -days)

	points := make([]analytics.VelocityPoint, 0, days-windowSize+1)
	for i := 0; i <= days-windowSize; i++ {
		windowEnd := start.AddDate(0, 0, i+windowSize)
		windowStart := windowEnd.AddDate(0, 0, -windowSize)

		count := 0
		for _, t := range tasks {
			if t.CompletedAt != nil && !t.CompletedAt.Before(windowStart) && t.CompletedAt.Before(windowEnd) {
				count++
			}
		}
		points = append(points, analytics.VelocityPoint{
			Date:     windowEnd.Format("2006-01-02"),
			Velocity: round2(float64(count) / windowSize),
		})
	}
	return points, nil
}

func (s *VelocityService) completedInWindow(ctx context.Context, windowDays int) ([]task.Task, error) {
	now := s.now()
	return s.store.ListCompletedTasksBetween(ctx, now.AddDate(0, 0, -windowDays), now)
}

func (s *VelocityService) validateWindow(days, minDays int) error {
	if days < minDays || days > s.cfg.MaxWindowDays {
		return fmt.Errorf("window must be between %d and %d days: %w", minDays, s.cfg.MaxWindowDays, domain.ErrValidation)
	}
	return nil
}

// velocityOf is the core rate: completed tasks per day over the window.
func velocityOf(tasks []task.Task, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	return float64(len(tasks)) / float64(windowDays)
}

// classifyTrend splits the window at its midpoint and compares the two
// half velocities: improving above +10%, declining below -10%, else stable.
func classifyTrend(tasks []task.Task, windowDays int, now time.Time) analytics.Trend {
	start := now.AddDate(0, 0, -windowDays)
	mid := start.Add(time.Duration(windowDays) * 12 * time.Hour)
	halfDays := float64(windowDays) / 2

	var first, second int
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.Before(mid) {
			first++
		} else {
			second++
		}
	}

	firstVelocity := float64(first) / halfDays
	secondVelocity := float64(second) / halfDays

	switch {
	case secondVelocity > firstVelocity*1.1:
		return analytics.TrendImproving
	case secondVelocity < firstVelocity*0.9:
		return analytics.TrendDeclining
	default:
		return analytics.TrendStable
	}
}

// productivityScore blends velocity (weight 0.5), high-priority share of
// completions (0.3) and a trend bonus (0.2) into a 0-100 composite.
func productivityScore(velocity float64, tasks []task.Task, trend analytics.Trend) float64 {
	var highRatio float64
	if len(tasks) > 0 {
		high := 0
		for _, t := range tasks {
			if t.Priority <= task.HighPriorityMax {
				high++
			}
		}
		highRatio = float64(high) / float64(len(tasks))
	}

	bonus := 10.0
	switch trend {
	case analytics.TrendImproving:
		bonus = 50
	case analytics.TrendStable:
		bonus = 30
	}

	score := velocity*10*0.5 + highRatio*100*0.3 + bonus*0.2
	return math.Round(math.Min(100, score)*10) / 10
}

// dailyBreakdown groups completions by the calendar date of completed_at,
// ordered ascending.
func dailyBreakdown(tasks []task.Task) []analytics.DayCount {
	counts := make(map[string]int)
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		counts[t.CompletedAt.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	breakdown := make([]analytics.DayCount, 0, len(dates))
	for _, d := range dates {
		breakdown = append(breakdown, analytics.DayCount{Date: d, TasksCompleted: counts[d]})
	}
	return breakdown
}

// bestAndWorstDay picks the extremes of the breakdown. Ties resolve to the
// earliest date. A worst day is only reported when at least two distinct
// dates exist.
func bestAndWorstDay(breakdown []analytics.DayCount) (best, worst *analytics.DayCount) {
	if len(breakdown) == 0 {
		return nil, nil
	}

	b := breakdown[0]
	for _, d := range breakdown[1:] {
		if d.TasksCompleted > b.TasksCompleted {
			b = d
		}
	}
	best = &b

	if len(breakdown) > 1 {
		w := breakdown[0]
		for _, d := range breakdown[1:] {
			if d.TasksCompleted < w.TasksCompleted {
				w = d
			}
		}
		worst = &w
	}
	return best, worst
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
