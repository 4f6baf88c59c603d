package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
)

func newGoalService(store *mockStore, now time.Time) *GoalService {
	s := NewGoalService(store)
	s.now = func() time.Time { return now }
	return s
}

func TestComputeProgressTasksOnly(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 0)
	now := time.Now()
	store.addTask("t1", "g1", task.StatusCompleted, &now)
	store.addTask("t2", "g1", task.StatusCompleted, &now)
	store.addTask("t3", "g1", task.StatusPending, nil)
	store.addTask("t4", "g1", task.StatusInProgress, nil)

	s := newGoalService(store, now)
	g, err := s.ComputeProgress(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ComputeProgress failed: %v", err)
	}
	if g.ProgressPercentage != 50.0 {
		t.Fatalf("expected 50.0, got %v", g.ProgressPercentage)
	}
	if g.Status != goal.StatusActive {
		t.Fatalf("expected goal to stay active, got %s", g.Status)
	}
}

func TestComputeProgressEmptyGoal(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 42)

	s := newGoalService(store, time.Now())
	g, err := s.ComputeProgress(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ComputeProgress failed: %v", err)
	}
	if g.ProgressPercentage != 0 {
		t.Fatalf("expected 0 for goal with no tasks and no subgoals, got %v", g.ProgressPercentage)
	}
}

func TestComputeProgressWeightedCombination(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 0)
	store.addGoal("sub1", "g1", goal.StatusActive, 100)
	store.addGoal("sub2", "g1", goal.StatusActive, 0)
	now := time.Now()
	store.addTask("t1", "g1", task.StatusCompleted, &now)

	// 100% tasks, subgoal mean 50 -> 0.5*100 + 0.5*50 = 75.0.
	s := newGoalService(store, now)
	g, err := s.ComputeProgress(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ComputeProgress failed: %v", err)
	}
	if g.ProgressPercentage != 75.0 {
		t.Fatalf("expected 75.0, got %v", g.ProgressPercentage)
	}
}

func TestComputeProgressSubgoalsOnly(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 0)
	store.addGoal("sub1", "g1", goal.StatusActive, 30)
	store.addGoal("sub2", "g1", goal.StatusActive, 60)

	s := newGoalService(store, time.Now())
	g, err := s.ComputeProgress(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ComputeProgress failed: %v", err)
	}
	if g.ProgressPercentage != 45.0 {
		t.Fatalf("expected 45.0, got %v", g.ProgressPercentage)
	}
}

func TestComputeProgressAutoCompletes(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 0)
	completedAt := time.Now()
	store.addTask("t1", "g1", task.StatusCompleted, &completedAt)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s := newGoalService(store, now)
	g, err := s.ComputeProgress(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ComputeProgress failed: %v", err)
	}
	if g.ProgressPercentage != 100.0 {
		t.Fatalf("expected 100.0, got %v", g.ProgressPercentage)
	}
	if g.Status != goal.StatusCompleted {
		t.Fatalf("expected completed, got %s", g.Status)
	}
	if g.CompletedAt == nil || !g.CompletedAt.Equal(now) {
		t.Fatalf("expected completion stamp %v, got %v", now, g.CompletedAt)
	}
}

func TestComputeProgressDoesNotCompleteOnHold(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusOnHold, 0)
	now := time.Now()
	store.addTask("t1", "g1", task.StatusCompleted, &now)

	s := newGoalService(store, now)
	g, err := s.ComputeProgress(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ComputeProgress failed: %v", err)
	}
	if g.Status != goal.StatusOnHold {
		t.Fatalf("expected on_hold to be preserved, got %s", g.Status)
	}
}

func TestRecomputeTreeCascadesBottomUp(t *testing.T) {
	store := &mockStore{}
	store.addGoal("root", "", goal.StatusActive, 0)
	store.addGoal("child", "root", goal.StatusActive, 0)
	now := time.Now()
	store.addTask("t1", "child", task.StatusCompleted, &now)
	store.addTask("t2", "child", task.StatusPending, nil)

	s := newGoalService(store, now)
	g, err := s.RecomputeTree(context.Background(), "root")
	if err != nil {
		t.Fatalf("RecomputeTree failed: %v", err)
	}
	// Child recomputes to 50 first, then the root reads the fresh value.
	if g.ProgressPercentage != 50.0 {
		t.Fatalf("expected root progress 50.0, got %v", g.ProgressPercentage)
	}
}

func TestSetParentRejectsSelf(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 0)

	s := newGoalService(store, time.Now())
	_, err := s.SetParent(context.Background(), "g1", "g1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSetParentRejectsDescendant(t *testing.T) {
	store := &mockStore{}
	store.addGoal("a", "", goal.StatusActive, 0)
	store.addGoal("b", "a", goal.StatusActive, 0)
	store.addGoal("c", "b", goal.StatusActive, 0)
	store.addGoal("d", "c", goal.StatusActive, 0)

	s := newGoalService(store, time.Now())
	for _, descendant := range []string{"b", "c", "d"} {
		_, err := s.SetParent(context.Background(), "a", descendant)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("parenting a under %s: expected ErrValidation, got %v", descendant, err)
		}
	}
}

func TestSetParentMissingParent(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 0)

	s := newGoalService(store, time.Now())
	_, err := s.SetParent(context.Background(), "g1", "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetParentSuccessAndClear(t *testing.T) {
	store := &mockStore{}
	store.addGoal("a", "", goal.StatusActive, 0)
	store.addGoal("b", "", goal.StatusActive, 0)

	s := newGoalService(store, time.Now())
	g, err := s.SetParent(context.Background(), "b", "a")
	if err != nil {
		t.Fatalf("SetParent failed: %v", err)
	}
	if g.ParentGoalID != "a" {
		t.Fatalf("expected parent a, got %q", g.ParentGoalID)
	}

	g, err = s.SetParent(context.Background(), "b", "")
	if err != nil {
		t.Fatalf("clearing parent failed: %v", err)
	}
	if g.ParentGoalID != "" {
		t.Fatalf("expected cleared parent, got %q", g.ParentGoalID)
	}
}

func TestAncestors(t *testing.T) {
	store := &mockStore{}
	store.addGoal("root", "", goal.StatusActive, 0)
	store.addGoal("mid", "root", goal.StatusActive, 0)
	store.addGoal("leaf", "mid", goal.StatusActive, 0)

	s := newGoalService(store, time.Now())
	chain, err := s.Ancestors(context.Background(), "leaf")
	if err != nil {
		t.Fatalf("Ancestors failed: %v", err)
	}
	if len(chain) != 2 || chain[0].ID != "mid" || chain[1].ID != "root" {
		t.Fatalf("expected [mid root], got %+v", chain)
	}
}

func TestUpdateGoalCompletionStamps(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 40)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s := newGoalService(store, now)
	status := goal.StatusCompleted
	g, err := s.Update(context.Background(), "g1", goal.UpdateRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if g.ProgressPercentage != 100 {
		t.Fatalf("explicit completion should force 100, got %v", g.ProgressPercentage)
	}
	if g.CompletedAt == nil {
		t.Fatal("expected completion stamp")
	}

	active := goal.StatusActive
	g, err = s.Update(context.Background(), "g1", goal.UpdateRequest{Status: &active})
	if err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if g.CompletedAt != nil {
		t.Fatal("expected completion stamp cleared on reactivation")
	}
}

func TestCreateGoalValidatesHorizon(t *testing.T) {
	store := &mockStore{}
	s := newGoalService(store, time.Now())
	_, err := s.Create(context.Background(), goal.CreateRequest{Title: "x", Horizon: "decade"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
