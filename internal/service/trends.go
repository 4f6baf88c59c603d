package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/analytics"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/port/database"
)

const uncategorized = "uncategorized"

// TrendService produces weekly, category, priority and day-of-week
// breakdowns from completion history, plus rule-based text insights.
// Everything here is derived; nothing is persisted.
type TrendService struct {
	store database.Store
	cfg   config.Analytics
	now   func() time.Time
}

// NewTrendService creates a new TrendService.
func NewTrendService(store database.Store, cfg config.Analytics) *TrendService {
	return &TrendService{store: store, cfg: cfg, now: time.Now}
}

// Analyze builds the full trend report for the trailing window: fixed 7-day
// buckets, top-5 category trends, weekly priority bands, an active-goal
// progress snapshot, and insights derived from those aggregates.
func (s *TrendService) Analyze(ctx context.Context, windowDays int) (*analytics.TrendAnalysis, error) {
	if windowDays < s.cfg.MinTrendWindowDays || windowDays > s.cfg.MaxWindowDays {
		return nil, fmt.Errorf("window must be between %d and %d days: %w",
			s.cfg.MinTrendWindowDays, s.cfg.MaxWindowDays, domain.ErrValidation)
	}

	now := s.now()
	start := now.AddDate(0, 0, -windowDays)
	completed, err := s.store.ListCompletedTasksBetween(ctx, start, now)
	if err != nil {
		return nil, err
	}

	weeks := windowDays / 7
	weekly := weeklyBuckets(completed, start, weeks)
	categories := categoryTrends(completed, start, weeks)
	priorities := priorityDistribution(completed, start, weeks)

	goals, err := s.store.ListGoals(ctx, goal.ListFilter{Status: goal.StatusActive})
	if err != nil {
		return nil, err
	}
	progress := make([]analytics.GoalProgress, 0, len(goals))
	for _, g := range goals {
		progress = append(progress, analytics.GoalProgress{
			GoalID:          g.ID,
			GoalTitle:       g.Title,
			CurrentProgress: g.ProgressPercentage,
			Horizon:         string(g.Horizon),
		})
	}

	return &analytics.TrendAnalysis{
		PeriodDays:           windowDays,
		CompletionTrend:      weekly,
		CategoryTrends:       categories,
		PriorityDistribution: priorities,
		GoalProgressTrend:    progress,
		Insights:             buildInsights(completed, weekly, categories, progress),
	}, nil
}

// WeekdayPattern analyzes completions over the configured lookback by day
// of week and hour of day. Ties for best, worst and peak resolve to the
// earliest candidate (Monday first, hour 0 first).
func (s *TrendService) WeekdayPattern(ctx context.Context) (*analytics.WeekdayPattern, error) {
	now := s.now()
	lookback := s.cfg.PatternLookbackDays
	completed, err := s.store.ListCompletedTasksBetween(ctx, now.AddDate(0, 0, -lookback), now)
	if err != nil {
		return nil, err
	}

	pattern := &analytics.WeekdayPattern{
		TotalTasksAnalyzed: len(completed),
		DaysAnalyzed:       lookback,
		ByDayOfWeek:        make(map[string]int, 7),
	}
	if len(completed) == 0 {
		return pattern, nil
	}

	// Monday-first ordering, matching how people read a work week.
	dayNames := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	dayCounts := make([]int, 7)
	hourCounts := make([]int, 24)
	for _, t := range completed {
		if t.CompletedAt == nil {
			continue
		}
		dayCounts[mondayIndex(t.CompletedAt.Weekday())]++
		hourCounts[t.CompletedAt.Hour()]++
	}

	bestIdx, worstIdx := 0, 0
	for i, c := range dayCounts {
		pattern.ByDayOfWeek[dayNames[i]] = c
		if c > dayCounts[bestIdx] {
			bestIdx = i
		}
		if c < dayCounts[worstIdx] {
			worstIdx = i
		}
	}
	pattern.BestDay = dayNames[bestIdx]
	pattern.WorstDay = dayNames[worstIdx]

	for h, c := range hourCounts {
		if c > pattern.PeakHourTasks {
			pattern.PeakHour = h
			pattern.PeakHourTasks = c
		}
	}
	return pattern, nil
}

// TaskAnalytics summarises task activity over the trailing window.
func (s *TrendService) TaskAnalytics(ctx context.Context, windowDays int) (*analytics.TaskAnalytics, error) {
	if windowDays < s.cfg.MinTrendWindowDays || windowDays > s.cfg.MaxWindowDays {
		return nil, fmt.Errorf("window must be between %d and %d days: %w",
			s.cfg.MinTrendWindowDays, s.cfg.MaxWindowDays, domain.ErrValidation)
	}

	now := s.now()
	start := now.AddDate(0, 0, -windowDays)

	completed, err := s.store.ListCompletedTasksBetween(ctx, start, now)
	if err != nil {
		return nil, err
	}
	created, err := s.store.CountTasksCreatedSince(ctx, start)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.store.CountTasksByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.store.CountOverdueTasks(ctx, now)
	if err != nil {
		return nil, err
	}

	var completionRate, estimated, actual float64
	if created > 0 {
		completionRate = float64(len(completed)) / float64(created) * 100
	}
	byCategory := make(map[string]int)
	byPriority := make(map[string]int)
	for _, t := range completed {
		estimated += t.EstimatedHours
		actual += t.ActualHours
		byCategory[categoryOf(t)]++
		byPriority[strconv.Itoa(t.Priority)]++
	}

	statusCounts := make(map[string]int, len(byStatus))
	for st, c := range byStatus {
		statusCounts[string(st)] = c
	}

	return &analytics.TaskAnalytics{
		PeriodDays:          windowDays,
		TasksCompleted:      len(completed),
		TasksCreated:        created,
		TasksPending:        byStatus[task.StatusPending],
		TasksInProgress:     byStatus[task.StatusInProgress],
		TasksBlocked:        byStatus[task.StatusBlocked],
		CompletionRate:      round2(completionRate),
		TotalEstimatedHours: round2(estimated),
		TotalActualHours:    round2(actual),
		ByCategory:          byCategory,
		ByPriority:          byPriority,
		ByStatus:            statusCounts,
		OverdueCount:        overdue,
	}, nil
}

// GoalAnalytics summarises the state of all of the owner's goals.
func (s *TrendService) GoalAnalytics(ctx context.Context) (*analytics.GoalAnalytics, error) {
	goals, err := s.store.ListGoals(ctx, goal.ListFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	riskHorizon := now.AddDate(0, 0, 30)

	out := &analytics.GoalAnalytics{
		TotalGoals: len(goals),
		ByHorizon:  make(map[string]int),
	}

	var activeSum float64
	for _, g := range goals {
		out.ByHorizon[string(g.Horizon)]++
		switch g.Status {
		case goal.StatusActive:
			out.ActiveGoals++
			activeSum += g.ProgressPercentage
			if g.ProgressPercentage >= 80 {
				out.GoalsNearCompletion++
			}
			if g.ProgressPercentage < 20 && g.TargetDate != nil && g.TargetDate.Before(riskHorizon) {
				out.GoalsAtRisk++
			}
		case goal.StatusCompleted:
			out.CompletedGoals++
		case goal.StatusOnHold:
			out.OnHoldGoals++
		case goal.StatusCancelled:
			out.CancelledGoals++
		}
	}
	if out.ActiveGoals > 0 {
		out.AverageProgress = round2(activeSum / float64(out.ActiveGoals))
	}
	return out, nil
}

func weeklyBuckets(completed []task.Task, start time.Time, weeks int) []analytics.WeeklyBucket {
	buckets := make([]analytics.WeeklyBucket, 0, weeks)
	for week := 0; week < weeks; week++ {
		weekStart := start.AddDate(0, 0, week*7)
		weekEnd := weekStart.AddDate(0, 0, 7)

		count := 0
		var hours float64
		for _, t := range completed {
			if inWeek(t, weekStart, weekEnd) {
				count++
				hours += t.EstimatedHours
			}
		}
		buckets = append(buckets, analytics.WeeklyBucket{
			Week:           week + 1,
			WeekStart:      weekStart.Format("2006-01-02"),
			WeekEnd:        weekEnd.Format("2006-01-02"),
			TasksCompleted: count,
			TotalHours:     round2(hours),
		})
	}
	return buckets
}

func categoryTrends(completed []task.Task, start time.Time, weeks int) map[string][]int {
	perCategory := make(map[string][]int)
	for _, t := range completed {
		if t.CompletedAt == nil {
			continue
		}
		week := int(t.CompletedAt.Sub(start).Hours() / 24 / 7)
		if week < 0 || week >= weeks {
			continue
		}
		cat := categoryOf(t)
		if _, ok := perCategory[cat]; !ok {
			perCategory[cat] = make([]int, weeks)
		}
		perCategory[cat][week]++
	}

	type catTotal struct {
		name  string
		total int
	}
	totals := make([]catTotal, 0, len(perCategory))
	for name, counts := range perCategory {
		sum := 0
		for _, c := range counts {
			sum += c
		}
		totals = append(totals, catTotal{name, sum})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].total != totals[j].total {
			return totals[i].total > totals[j].total
		}
		return totals[i].name < totals[j].name
	})

	top := make(map[string][]int, 5)
	for i, ct := range totals {
		if i == 5 {
			break
		}
		top[ct.name] = perCategory[ct.name]
	}
	return top
}

func priorityDistribution(completed []task.Task, start time.Time, weeks int) []analytics.PriorityWeek {
	dist := make([]analytics.PriorityWeek, 0, weeks)
	for week := 0; week < weeks; week++ {
		weekStart := start.AddDate(0, 0, week*7)
		weekEnd := weekStart.AddDate(0, 0, 7)

		pw := analytics.PriorityWeek{Week: week + 1}
		for _, t := range completed {
			if !inWeek(t, weekStart, weekEnd) {
				continue
			}
			switch {
			case t.Priority <= task.HighPriorityMax:
				pw.HighPriority++
			case t.Priority == task.PriorityDefault:
				pw.MediumPriority++
			default:
				pw.LowPriority++
			}
		}
		dist = append(dist, pw)
	}
	return dist
}

func buildInsights(completed []task.Task, weekly []analytics.WeeklyBucket, categories map[string][]int, progress []analytics.GoalProgress) []string {
	insights := []string{}

	if len(weekly) >= 2 {
		recent := weekly[len(weekly)-1].TasksCompleted
		prev := weekly[len(weekly)-2].TasksCompleted
		if float64(recent) > float64(prev)*1.2 {
			insights = append(insights, "Productivity spike: last week showed a 20%+ increase in task completion")
		} else if float64(recent) < float64(prev)*0.8 {
			insights = append(insights, "Productivity dip: last week showed a 20%+ decrease in task completion")
		}
	}

	if topCat, topCount, ok := topCategory(categories); ok {
		insights = append(insights, fmt.Sprintf("Top focus area: %q accounts for %d completed tasks", topCat, topCount))
	}

	if len(completed) > 0 {
		high := 0
		for _, t := range completed {
			if t.Priority <= task.HighPriorityMax {
				high++
			}
		}
		if float64(high)/float64(len(completed)) > 0.6 {
			insights = append(insights, "Strong priority discipline: over 60% of completed tasks were high priority")
		}
	}

	if len(progress) > 0 {
		var sum float64
		for _, p := range progress {
			sum += p.CurrentProgress
		}
		avg := sum / float64(len(progress))
		if avg >= 70 {
			insights = append(insights, fmt.Sprintf("Goals on track: average progress is %.0f%%", avg))
		} else if avg < 30 {
			insights = append(insights, fmt.Sprintf("Goals need attention: average progress is only %.0f%%", avg))
		}
	}
	return insights
}

func topCategory(categories map[string][]int) (string, int, bool) {
	bestName, bestTotal := "", -1
	for name, counts := range categories {
		sum := 0
		for _, c := range counts {
			sum += c
		}
		if sum > bestTotal || (sum == bestTotal && name < bestName) {
			bestName, bestTotal = name, sum
		}
	}
	return bestName, bestTotal, bestTotal >= 0
}

func categoryOf(t task.Task) string {
	if t.Category == "" {
		return uncategorized
	}
	return t.Category
}

func inWeek(t task.Task, start, end time.Time) bool {
	return t.CompletedAt != nil && !t.CompletedAt.Before(start) && t.CompletedAt.Before(end)
}

// mondayIndex maps time.Weekday (Sunday=0) to a Monday-first index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
