// Package goal defines the Goal domain entity and its hierarchy fields.
package goal

import "time"

// Horizon is the planning timeframe of a goal.
type Horizon string

const (
	HorizonWeekly    Horizon = "weekly"
	HorizonMonthly   Horizon = "monthly"
	HorizonQuarterly Horizon = "quarterly"
	HorizonYearly    Horizon = "yearly"
)

// Status represents the lifecycle state of a goal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on_hold"
	StatusCancelled Status = "cancelled"
)

// Goal represents a hierarchical objective. The parent relation forms a
// forest: a goal is never its own ancestor, which SetParent enforces with an
// ancestor walk before any write.
type Goal struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id,omitempty"`
	ParentGoalID       string     `json:"parent_goal_id,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Horizon            Horizon    `json:"horizon"`
	TargetDate         *time.Time `json:"target_date,omitempty"`
	Status             Status     `json:"status"`
	ProgressPercentage float64    `json:"progress_percentage"`
	SuccessCriteria    string     `json:"success_criteria,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// Active reports whether the goal participates in "active" aggregations.
// on_hold and cancelled goals are excluded from analytics.
func (g *Goal) Active() bool {
	return g.Status == StatusActive
}

// CreateRequest holds the fields needed to create a new goal.
// Goals are created active with progress 0.
type CreateRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Horizon         Horizon    `json:"horizon"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	SuccessCriteria string     `json:"success_criteria,omitempty"`
	ParentGoalID    string     `json:"parent_goal_id,omitempty"`
}

// UpdateRequest holds the mutable fields of a goal. Nil pointers leave the
// corresponding field untouched. Parent changes go through SetParent, not here.
type UpdateRequest struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Horizon         *Horizon   `json:"horizon,omitempty"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	Status          *Status    `json:"status,omitempty"`
	SuccessCriteria *string    `json:"success_criteria,omitempty"`
}

// ListFilter narrows goal listings. Zero values mean "no filter".
type ListFilter struct {
	Status       Status
	Horizon      Horizon
	ParentGoalID string
}

// ValidHorizon reports whether h is a legal horizon.
func ValidHorizon(h Horizon) bool {
	switch h {
	case HorizonWeekly, HorizonMonthly, HorizonQuarterly, HorizonYearly:
		return true
	}
	return false
}

// ValidStatus reports whether s is a legal goal status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// ClampProgress forces p into [0, 100].
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
