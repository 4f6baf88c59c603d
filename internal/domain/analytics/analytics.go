// Package analytics defines the result types produced by the velocity,
// forecast and trend services. All values are derived from task completion
// history; nothing here is persisted.
package analytics

import "time"

// Trend classifies how velocity moved between the two halves of a window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// PredictionStatus is the outcome of a goal completion forecast.
type PredictionStatus string

const (
	PredictionComplete   PredictionStatus = "complete"
	PredictionNoVelocity PredictionStatus = "no_velocity"
	PredictionPredicted  PredictionStatus = "predicted"
)

// RequiredVelocityStatus is the outcome of a required-velocity calculation.
type RequiredVelocityStatus string

const (
	RequiredComplete   RequiredVelocityStatus = "complete"
	RequiredOverdue    RequiredVelocityStatus = "overdue"
	RequiredCalculated RequiredVelocityStatus = "calculated"
)

// DayCount is one day of the completion breakdown.
type DayCount struct {
	Date           string `json:"date"` // YYYY-MM-DD
	TasksCompleted int    `json:"tasks_completed"`
}

// VelocityMetrics is the full velocity report for a trailing window.
type VelocityMetrics struct {
	PeriodDays        int        `json:"period_days"`
	Velocity          float64    `json:"velocity"` // tasks per day
	CompletionTrend   Trend      `json:"completion_trend"`
	ProductivityScore float64    `json:"productivity_score"`
	BestDay           *DayCount  `json:"best_day,omitempty"`
	WorstDay          *DayCount  `json:"worst_day,omitempty"`
	DailyBreakdown    []DayCount `json:"daily_breakdown"`
}

// VelocityPoint is one sample of a rolling-window velocity series.
type VelocityPoint struct {
	Date     string  `json:"date"` // window end, YYYY-MM-DD
	Velocity float64 `json:"velocity"`
}

// Prediction is a goal completion forecast.
type Prediction struct {
	GoalID              string           `json:"goal_id"`
	GoalTitle           string           `json:"goal_title"`
	Status              PredictionStatus `json:"status"`
	RemainingTasks      int              `json:"remaining_tasks"`
	CurrentVelocity     float64          `json:"current_velocity,omitempty"`
	DaysNeeded          float64          `json:"days_needed,omitempty"`
	PredictedCompletion *time.Time       `json:"predicted_completion,omitempty"`
	TargetDate          *time.Time       `json:"target_date,omitempty"`
	OnTrack             bool             `json:"on_track"`
	Warning             string           `json:"warning,omitempty"`
}

// RequiredVelocity reports the completion rate needed to hit a goal's target
// date, compared against the current 7-day velocity.
type RequiredVelocity struct {
	GoalID          string                 `json:"goal_id"`
	GoalTitle       string                 `json:"goal_title"`
	Status          RequiredVelocityStatus `json:"status"`
	RemainingTasks  int                    `json:"remaining_tasks"`
	DaysUntilTarget int                    `json:"days_until_target,omitempty"`
	Required        float64                `json:"required_velocity,omitempty"`
	Current         float64                `json:"current_velocity,omitempty"`
	Gap             float64                `json:"velocity_gap,omitempty"`
	Feasible        bool                   `json:"feasible"`
}

// WeeklyBucket is one fixed 7-day span of the trend analysis.
type WeeklyBucket struct {
	Week           int     `json:"week"` // 1-based
	WeekStart      string  `json:"week_start"`
	WeekEnd        string  `json:"week_end"`
	TasksCompleted int     `json:"tasks_completed"`
	TotalHours     float64 `json:"total_hours"` // summed estimated hours
}

// PriorityWeek groups a week's completions into high/medium/low bands.
type PriorityWeek struct {
	Week           int `json:"week"`
	HighPriority   int `json:"high_priority"`   // priority 1-2
	MediumPriority int `json:"medium_priority"` // priority 3
	LowPriority    int `json:"low_priority"`    // priority 4-5
}

// GoalProgress is a snapshot of one active goal's stored progress.
type GoalProgress struct {
	GoalID          string  `json:"goal_id"`
	GoalTitle       string  `json:"goal_title"`
	CurrentProgress float64 `json:"current_progress"`
	Horizon         string  `json:"horizon"`
}

// TrendAnalysis is the full trend and pattern report.
type TrendAnalysis struct {
	PeriodDays           int              `json:"period_days"`
	CompletionTrend      []WeeklyBucket   `json:"completion_trend"`
	CategoryTrends       map[string][]int `json:"category_trends"` // top-5 categories, per-week counts
	PriorityDistribution []PriorityWeek   `json:"priority_distribution"`
	GoalProgressTrend    []GoalProgress   `json:"goal_progress_trend"`
	Insights             []string         `json:"insights"`
}

// WeekdayPattern is the day-of-week / hour-of-day productivity breakdown
// over a fixed lookback.
type WeekdayPattern struct {
	TotalTasksAnalyzed int            `json:"total_tasks_analyzed"`
	DaysAnalyzed       int            `json:"days_analyzed"`
	ByDayOfWeek        map[string]int `json:"by_day_of_week"`
	BestDay            string         `json:"best_day,omitempty"`
	WorstDay           string         `json:"worst_day,omitempty"`
	PeakHour           int            `json:"peak_hour"`
	PeakHourTasks      int            `json:"peak_hour_tasks"`
}

// TaskAnalytics summarises task activity over a trailing window.
type TaskAnalytics struct {
	PeriodDays          int            `json:"period_days"`
	TasksCompleted      int            `json:"tasks_completed"`
	TasksCreated        int            `json:"tasks_created"`
	TasksPending        int            `json:"tasks_pending"`
	TasksInProgress     int            `json:"tasks_in_progress"`
	TasksBlocked        int            `json:"tasks_blocked"`
	CompletionRate      float64        `json:"completion_rate"` // completed vs created, percent
	TotalEstimatedHours float64        `json:"total_estimated_hours"`
	TotalActualHours    float64        `json:"total_actual_hours"`
	ByCategory          map[string]int `json:"by_category"`
	ByPriority          map[string]int `json:"by_priority"`
	ByStatus            map[string]int `json:"by_status"`
	OverdueCount        int            `json:"overdue_count"`
}

// GoalAnalytics summarises the state of all goals for an owner.
type GoalAnalytics struct {
	TotalGoals          int            `json:"total_goals"`
	ActiveGoals         int            `json:"active_goals"`
	CompletedGoals      int            `json:"completed_goals"`
	OnHoldGoals         int            `json:"on_hold_goals"`
	CancelledGoals      int            `json:"cancelled_goals"`
	AverageProgress     float64        `json:"average_progress"` // active goals only
	ByHorizon           map[string]int `json:"by_horizon"`
	GoalsNearCompletion int            `json:"goals_near_completion"` // active, progress >= 80
	GoalsAtRisk         int            `json:"goals_at_risk"`         // active, progress < 20, target within 30 days
}
