// Package service implements the business logic of Stride: task and goal
// lifecycles, progress aggregation, velocity, forecasting and trend analysis.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/port/database"
)

// TaskService owns the task lifecycle. It is the sole writer of
// completion timestamps, which every analytics service reads.
type TaskService struct {
	store database.Store
	now   func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(store database.Store) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

// List returns tasks matching the filter.
func (s *TaskService) List(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	if filter.Status != "" && !task.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("unknown task status %q: %w", filter.Status, domain.ErrValidation)
	}
	return s.store.ListTasks(ctx, filter)
}

// Get returns a single task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Create validates and persists a new task. New tasks start pending with
// the default priority unless one is given. A parent goal, if set, must
// exist for the caller.
func (s *TaskService) Create(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	if err := task.ValidateCreateRequest(&req); err != nil {
		return nil, err
	}
	if req.Priority == 0 {
		req.Priority = task.PriorityDefault
	}
	if req.ParentGoalID != "" {
		if _, err := s.store.GetGoal(ctx, req.ParentGoalID); err != nil {
			return nil, fmt.Errorf("parent goal: %w", err)
		}
	}
	return s.store.CreateTask(ctx, req)
}

// Update applies a partial update. Status changes go through UpdateStatus
// so that completion stamping stays in one place.
func (s *TaskService) Update(ctx context.Context, id string, req task.UpdateRequest) (*task.Task, error) {
	if err := task.ValidateUpdateRequest(&req); err != nil {
		return nil, err
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ParentGoalID != nil && *req.ParentGoalID != "" && *req.ParentGoalID != t.ParentGoalID {
		if _, err := s.store.GetGoal(ctx, *req.ParentGoalID); err != nil {
			return nil, fmt.Errorf("parent goal: %w", err)
		}
	}

	applyTaskUpdate(t, &req)
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus transitions a task. Moving to completed stamps completed_at;
// moving away from completed clears it.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.ValidateStatusTransition(t.Status, status); err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if status == task.StatusCompleted {
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt
		} else {
			now := s.now()
			completedAt = &now
		}
	}

	if err := s.store.UpdateTaskStatus(ctx, id, status, completedAt); err != nil {
		return nil, err
	}
	t.Status = status
	t.CompletedAt = completedAt
	return t, nil
}

// Complete marks a task completed, optionally recording actual hours spent.
func (s *TaskService) Complete(ctx context.Context, id string, actualHours *float64) (*task.Task, error) {
	if actualHours != nil && *actualHours < 0 {
		return nil, fmt.Errorf("actual_hours must be non-negative: %w", domain.ErrValidation)
	}

	t, err := s.UpdateStatus(ctx, id, task.StatusCompleted)
	if err != nil {
		return nil, err
	}

	if actualHours != nil {
		t.ActualHours = *actualHours
		if err := s.store.UpdateTask(ctx, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Block marks a task blocked, appending the reason to its notes when given.
func (s *TaskService) Block(ctx context.Context, id, reason string) (*task.Task, error) {
	t, err := s.UpdateStatus(ctx, id, task.StatusBlocked)
	if err != nil {
		return nil, err
	}

	if reason != "" {
		if t.Notes != "" {
			t.Notes += "\n"
		}
		t.Notes += "[BLOCKED] " + reason
		if err := s.store.UpdateTask(ctx, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteTask(ctx, id)
}

// Overdue returns tasks past their due date that are not completed.
func (s *TaskService) Overdue(ctx context.Context) ([]task.Task, error) {
	return s.store.ListTasks(ctx, task.ListFilter{OverdueOnly: true})
}

// DueToday returns open tasks due before the end of the current day.
func (s *TaskService) DueToday(ctx context.Context) ([]task.Task, error) {
	now := s.now()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	tasks, err := s.store.ListTasks(ctx, task.ListFilter{DueBefore: &endOfDay})
	if err != nil {
		return nil, err
	}

	var due []task.Task
	for _, t := range tasks {
		if t.Remaining() {
			due = append(due, t)
		}
	}
	return due, nil
}

func applyTaskUpdate(t *task.Task, req *task.UpdateRequest) {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.EstimatedHours != nil {
		t.EstimatedHours = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		t.ActualHours = *req.ActualHours
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.ParentGoalID != nil {
		t.ParentGoalID = *req.ParentGoalID
	}
	if req.Notes != nil {
		t.Notes = *req.Notes
	}
	if req.Tags != nil {
		t.Tags = req.Tags
	}
}
