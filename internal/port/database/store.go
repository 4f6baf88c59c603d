// Package database defines the database store port (interface).
package database

import (
	"context"
	"time"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
)

// Store is the port interface for database operations. Every method is
// scoped to the owner carried in the context; implementations must never
// return another owner's rows.
type Store interface {
	// Tasks
	ListTasks(ctx context.Context, filter task.ListFilter) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	UpdateTask(ctx context.Context, t *task.Task) error
	UpdateTaskStatus(ctx context.Context, id string, status task.Status, completedAt *time.Time) error
	DeleteTask(ctx context.Context, id string) error
	ListTasksByGoal(ctx context.Context, goalID string) ([]task.Task, error)
	ListCompletedTasksBetween(ctx context.Context, start, end time.Time) ([]task.Task, error)
	CountTasksCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountTasksByStatus(ctx context.Context) (map[task.Status]int, error)
	CountOverdueTasks(ctx context.Context, now time.Time) (int, error)

	// Goals
	ListGoals(ctx context.Context, filter goal.ListFilter) ([]goal.Goal, error)
	GetGoal(ctx context.Context, id string) (*goal.Goal, error)
	CreateGoal(ctx context.Context, req goal.CreateRequest) (*goal.Goal, error)
	UpdateGoal(ctx context.Context, g *goal.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	ListSubgoals(ctx context.Context, parentID string) ([]goal.Goal, error)
	SetGoalParent(ctx context.Context, id, parentID string) error
	UpdateGoalProgress(ctx context.Context, id string, progress float64, status goal.Status, completedAt *time.Time) error
}
