// Package task defines the Task domain entity.
package task

import "time"

// Status represents the current state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// Priority bounds. 1 is the highest priority, 5 the lowest.
const (
	PriorityHighest = 1
	PriorityLowest  = 5
	PriorityDefault = 3
)

// HighPriorityMax is the largest priority value still counted as "high
// priority" by the analytics services.
const HighPriorityMax = 2

// Task represents a unit of work, optionally attached to a goal.
type Task struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id,omitempty"`
	ParentGoalID   string     `json:"parent_goal_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       int        `json:"priority"`
	Status         Status     `json:"status"`
	Category       string     `json:"category,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	ActualHours    float64    `json:"actual_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Dependencies   []string   `json:"dependencies,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the task is completed.
func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Remaining reports whether the task still counts toward remaining work
// for forecasting (pending or in_progress).
func (t *Task) Remaining() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// CreateRequest holds the fields needed to create a new task.
type CreateRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       int        `json:"priority,omitempty"`
	Category       string     `json:"category,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ParentGoalID   string     `json:"parent_goal_id,omitempty"`
	Dependencies   []string   `json:"dependencies,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
}

// UpdateRequest holds the mutable fields of a task. Nil pointers leave the
// corresponding field untouched.
type UpdateRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Priority       *int       `json:"priority,omitempty"`
	Category       *string    `json:"category,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ParentGoalID   *string    `json:"parent_goal_id,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
}

// ListFilter narrows task listings. Zero values mean "no filter".
type ListFilter struct {
	Status       Status
	ParentGoalID string
	Category     string
	OverdueOnly  bool
	DueBefore    *time.Time
}

// ValidStatuses lists every legal task status.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusBlocked}
}

// ValidStatus reports whether s is a legal task status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}
