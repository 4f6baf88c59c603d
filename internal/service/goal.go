package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/port/database"
)

// GoalService owns the goal hierarchy and the progress aggregation that
// folds task completion into goal percentages. The parent relation is kept
// acyclic by an ancestor walk on every parent mutation.
type GoalService struct {
	store database.Store
	now   func() time.Time
}

// NewGoalService creates a new GoalService.
func NewGoalService(store database.Store) *GoalService {
	return &GoalService{store: store, now: time.Now}
}

// List returns goals matching the filter.
func (s *GoalService) List(ctx context.Context, filter goal.ListFilter) ([]goal.Goal, error) {
	if filter.Status != "" && !goal.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("unknown goal status %q: %w", filter.Status, domain.ErrValidation)
	}
	if filter.Horizon != "" && !goal.ValidHorizon(filter.Horizon) {
		return nil, fmt.Errorf("unknown horizon %q: %w", filter.Horizon, domain.ErrValidation)
	}
	return s.store.ListGoals(ctx, filter)
}

// Get returns a single goal by ID.
func (s *GoalService) Get(ctx context.Context, id string) (*goal.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

// Create validates and persists a new goal. Goals start active with
// progress 0. A parent goal, if set, must exist for the caller.
func (s *GoalService) Create(ctx context.Context, req goal.CreateRequest) (*goal.Goal, error) {
	if err := goal.ValidateCreateRequest(&req); err != nil {
		return nil, err
	}
	if req.ParentGoalID != "" {
		if _, err := s.store.GetGoal(ctx, req.ParentGoalID); err != nil {
			return nil, fmt.Errorf("parent goal: %w", err)
		}
	}
	return s.store.CreateGoal(ctx, req)
}

// Update applies a partial update. Setting status to completed stamps the
// completion instant and forces progress to 100; leaving completed clears it.
func (s *GoalService) Update(ctx context.Context, id string, req goal.UpdateRequest) (*goal.Goal, error) {
	if err := goal.ValidateUpdateRequest(&req); err != nil {
		return nil, err
	}

	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		g.Title = *req.Title
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.Horizon != nil {
		g.Horizon = *req.Horizon
	}
	if req.TargetDate != nil {
		g.TargetDate = req.TargetDate
	}
	if req.SuccessCriteria != nil {
		g.SuccessCriteria = *req.SuccessCriteria
	}
	if req.Status != nil && *req.Status != g.Status {
		switch *req.Status {
		case goal.StatusCompleted:
			now := s.now()
			g.CompletedAt = &now
			g.ProgressPercentage = 100
		default:
			g.CompletedAt = nil
		}
		g.Status = *req.Status
	}

	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a goal. Tasks and subgoals pointing at it are detached,
// not deleted.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteGoal(ctx, id)
}

// SetParent changes a goal's parent, or clears it when parentID is empty.
// Self-parenting and any assignment that would place the goal in its own
// ancestor chain are rejected.
func (s *GoalService) SetParent(ctx context.Context, id, parentID string) (*goal.Goal, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if parentID != "" {
		if parentID == id {
			return nil, fmt.Errorf("a goal cannot be its own parent: %w", domain.ErrValidation)
		}
		parent, err := s.store.GetGoal(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("parent goal: %w", err)
		}

		// Walk up from the candidate parent. Finding the goal itself means
		// the assignment would close a cycle.
		cursor := parent
		for cursor != nil {
			if cursor.ID == id {
				return nil, fmt.Errorf("circular reference: parent goal is a descendant: %w", domain.ErrValidation)
			}
			if cursor.ParentGoalID == "" {
				break
			}
			cursor, err = s.store.GetGoal(ctx, cursor.ParentGoalID)
			if err != nil {
				return nil, fmt.Errorf("ancestor walk: %w", err)
			}
		}
	}

	if err := s.store.SetGoalParent(ctx, id, parentID); err != nil {
		return nil, err
	}
	g.ParentGoalID = parentID
	return g, nil
}

// Ancestors returns the chain from the goal's immediate parent to the root.
func (s *GoalService) Ancestors(ctx context.Context, id string) ([]goal.Goal, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	var chain []goal.Goal
	for g.ParentGoalID != "" {
		g, err = s.store.GetGoal(ctx, g.ParentGoalID)
		if err != nil {
			return nil, fmt.Errorf("ancestor walk: %w", err)
		}
		chain = append(chain, *g)
	}
	return chain, nil
}

// Children returns a goal's direct subgoals.
func (s *GoalService) Children(ctx context.Context, id string) ([]goal.Goal, error) {
	if _, err := s.store.GetGoal(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListSubgoals(ctx, id)
}

// ComputeProgress recomputes a goal's progress from its direct tasks and
// direct subgoals, one level deep, and persists the result.
//
// Tasks and subgoals each contribute half when both exist. With only one
// population defined that ratio stands alone, and with neither the progress
// is 0. An active goal reaching 100 is auto-completed with a completion
// stamp. Subgoal percentages are read as stored; callers wanting a cascading
// refresh use RecomputeTree.
func (s *GoalService) ComputeProgress(ctx context.Context, id string) (*goal.Goal, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasksByGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	subgoals, err := s.store.ListSubgoals(ctx, id)
	if err != nil {
		return nil, err
	}

	var taskRatio, subgoalRatio float64
	haveTasks := len(tasks) > 0
	haveSubgoals := len(subgoals) > 0

	if haveTasks {
		completed := 0
		for _, t := range tasks {
			if t.Completed() {
				completed++
			}
		}
		taskRatio = float64(completed) / float64(len(tasks)) * 100
	}
	if haveSubgoals {
		var sum float64
		for _, sg := range subgoals {
			sum += sg.ProgressPercentage
		}
		subgoalRatio = sum / float64(len(subgoals))
	}

	var progress float64
	switch {
	case haveTasks && haveSubgoals:
		progress = 0.5*taskRatio + 0.5*subgoalRatio
	case haveTasks:
		progress = taskRatio
	case haveSubgoals:
		progress = subgoalRatio
	}

	progress = goal.ClampProgress(math.Round(progress*100) / 100)

	status := g.Status
	completedAt := g.CompletedAt
	if g.Status == goal.StatusActive && progress >= 100 {
		status = goal.StatusCompleted
		now := s.now()
		completedAt = &now
	}

	if err := s.store.UpdateGoalProgress(ctx, id, progress, status, completedAt); err != nil {
		return nil, err
	}

	g.ProgressPercentage = progress
	g.Status = status
	g.CompletedAt = completedAt
	return g, nil
}

// RecomputeTree recomputes progress for the goal's whole subtree bottom-up,
// so every parent reads fresh subgoal percentages, and returns the root.
func (s *GoalService) RecomputeTree(ctx context.Context, id string) (*goal.Goal, error) {
	if _, err := s.store.GetGoal(ctx, id); err != nil {
		return nil, err
	}
	if err := s.recomputeSubtree(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetGoal(ctx, id)
}

func (s *GoalService) recomputeSubtree(ctx context.Context, id string) error {
	subgoals, err := s.store.ListSubgoals(ctx, id)
	if err != nil {
		return err
	}
	for _, sg := range subgoals {
		if err := s.recomputeSubtree(ctx, sg.ID); err != nil {
			return err
		}
	}
	_, err = s.ComputeProgress(ctx, id)
	return err
}
