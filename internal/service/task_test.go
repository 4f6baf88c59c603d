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

func newTaskService(store *mockStore, now time.Time) *TaskService {
	s := NewTaskService(store)
	s.now = func() time.Time { return now }
	return s
}

func TestCreateTaskDefaults(t *testing.T) {
	store := &mockStore{}
	s := newTaskService(store, time.Now())

	created, err := s.Create(context.Background(), task.CreateRequest{Title: "write report"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Priority != task.PriorityDefault {
		t.Fatalf("expected default priority %d, got %d", task.PriorityDefault, created.Priority)
	}
	if created.Status != task.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	store := &mockStore{}
	s := newTaskService(store, time.Now())

	cases := []task.CreateRequest{
		{},
		{Title: "x", Priority: 6},
		{Title: "x", Priority: -1},
		{Title: "x", EstimatedHours: -2},
	}
	for i, req := range cases {
		if _, err := s.Create(context.Background(), req); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestCreateTaskMissingGoal(t *testing.T) {
	store := &mockStore{}
	s := newTaskService(store, time.Now())

	_, err := s.Create(context.Background(), task.CreateRequest{Title: "x", ParentGoalID: "nope"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompleteStampsTimestamp(t *testing.T) {
	store := &mockStore{}
	store.addGoal("g1", "", goal.StatusActive, 0)
	store.addTask("t1", "g1", task.StatusInProgress, nil)

	now := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	s := newTaskService(store, now)

	hours := 3.5
	done, err := s.Complete(context.Background(), "t1", &hours)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if done.Status != task.StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at %v, got %v", now, done.CompletedAt)
	}
	if done.ActualHours != 3.5 {
		t.Fatalf("expected actual hours 3.5, got %v", done.ActualHours)
	}
}

func TestRevertClearsCompletedAt(t *testing.T) {
	store := &mockStore{}
	completedAt := time.Now()
	store.addTask("t1", "", task.StatusCompleted, &completedAt)

	s := newTaskService(store, time.Now())
	reverted, err := s.UpdateStatus(context.Background(), "t1", task.StatusPending)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if reverted.CompletedAt != nil {
		t.Fatal("expected completed_at cleared after revert")
	}
	if reverted.Status != task.StatusPending {
		t.Fatalf("expected pending, got %s", reverted.Status)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	store := &mockStore{}
	store.addTask("t1", "", task.StatusPending, nil)

	s := newTaskService(store, time.Now())
	_, err := s.UpdateStatus(context.Background(), "t1", "archived")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBlockAppendsReason(t *testing.T) {
	store := &mockStore{}
	tk := store.addTask("t1", "", task.StatusPending, nil)
	tk.Notes = "needs review"

	s := newTaskService(store, time.Now())
	blocked, err := s.Block(context.Background(), "t1", "waiting on vendor")
	if err != nil {
		t.Fatalf("Block failed: %v", err)
	}
	if blocked.Status != task.StatusBlocked {
		t.Fatalf("expected blocked, got %s", blocked.Status)
	}
	want := "needs review\n[BLOCKED] waiting on vendor"
	if blocked.Notes != want {
		t.Fatalf("expected notes %q, got %q", want, blocked.Notes)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	store := &mockStore{}
	tk := store.addTask("t1", "", task.StatusPending, nil)
	tk.Title = "old title"
	tk.Category = "ops"

	s := newTaskService(store, time.Now())
	title := "new title"
	priority := 1
	updated, err := s.Update(context.Background(), "t1", task.UpdateRequest{
		Title:    &title,
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "new title" || updated.Priority != 1 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Category != "ops" {
		t.Fatalf("untouched field changed: %q", updated.Category)
	}
}

func TestDueToday(t *testing.T) {
	store := &mockStore{}
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	soon := now.Add(2 * time.Hour)
	tomorrow := now.Add(26 * time.Hour)
	t1 := store.addTask("t1", "", task.StatusPending, nil)
	t1.DueDate = &soon
	t2 := store.addTask("t2", "", task.StatusPending, nil)
	t2.DueDate = &tomorrow
	done := store.addTask("t3", "", task.StatusCompleted, timePtr(now))
	done.DueDate = &soon

	s := newTaskService(store, now)
	due, err := s.DueToday(context.Background())
	if err != nil {
		t.Fatalf("DueToday failed: %v", err)
	}
	if len(due) != 1 || due[0].ID != "t1" {
		t.Fatalf("expected only t1 due today, got %+v", due)
	}
}
