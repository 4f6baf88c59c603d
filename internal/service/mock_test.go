package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/port/database"
)

// Ensure mockStore implements database.Store at compile time.
var _ database.Store = (*mockStore)(nil)

// mockStore is a minimal in-memory implementation of database.Store for testing.
type mockStore struct {
	tasks []task.Task
	goals []goal.Goal

	nextID int

	// Error hooks, set these to inject failures.
	listTasksErr  error
	getTaskErr    error
	createTaskErr error
	getGoalErr    error
	updateGoalErr error
}

func (m *mockStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// --- Tasks ---

func (m *mockStore) ListTasks(_ context.Context, filter task.ListFilter) ([]task.Task, error) {
	if m.listTasksErr != nil {
		return nil, m.listTasksErr
	}
	var out []task.Task
	for _, t := range m.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.ParentGoalID != "" && t.ParentGoalID != filter.ParentGoalID {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.OverdueOnly && (t.DueDate == nil || !t.DueDate.Before(time.Now()) || t.Status == task.StatusCompleted) {
			continue
		}
		if filter.DueBefore != nil && (t.DueDate == nil || !t.DueDate.Before(*filter.DueBefore)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	if m.getTaskErr != nil {
		return nil, m.getTaskErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateTask(_ context.Context, req task.CreateRequest) (*task.Task, error) {
	if m.createTaskErr != nil {
		return nil, m.createTaskErr
	}
	t := task.Task{
		ID:             m.genID("task"),
		ParentGoalID:   req.ParentGoalID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         task.StatusPending,
		Category:       req.Category,
		EstimatedHours: req.EstimatedHours,
		DueDate:        req.DueDate,
		Dependencies:   req.Dependencies,
		Tags:           req.Tags,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	m.tasks = append(m.tasks, t)
	return &t, nil
}

func (m *mockStore) UpdateTask(_ context.Context, t *task.Task) error {
	for i := range m.tasks {
		if m.tasks[i].ID == t.ID {
			m.tasks[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) UpdateTaskStatus(_ context.Context, id string, status task.Status, completedAt *time.Time) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = status
			m.tasks[i].CompletedAt = completedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListTasksByGoal(_ context.Context, goalID string) ([]task.Task, error) {
	var out []task.Task
	for _, t := range m.tasks {
		if t.ParentGoalID == goalID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) ListCompletedTasksBetween(_ context.Context, start, end time.Time) ([]task.Task, error) {
	if m.listTasksErr != nil {
		return nil, m.listTasksErr
	}
	var out []task.Task
	for _, t := range m.tasks {
		if t.Status != task.StatusCompleted || t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.Before(start) || t.CompletedAt.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) CountTasksCreatedSince(_ context.Context, since time.Time) (int, error) {
	count := 0
	for _, t := range m.tasks {
		if !t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) CountTasksByStatus(_ context.Context) (map[task.Status]int, error) {
	counts := make(map[task.Status]int)
	for _, t := range m.tasks {
		counts[t.Status]++
	}
	return counts, nil
}

func (m *mockStore) CountOverdueTasks(_ context.Context, now time.Time) (int, error) {
	count := 0
	for _, t := range m.tasks {
		if t.Status != task.StatusCompleted && t.DueDate != nil && t.DueDate.Before(now) {
			count++
		}
	}
	return count, nil
}

// --- Goals ---

func (m *mockStore) ListGoals(_ context.Context, filter goal.ListFilter) ([]goal.Goal, error) {
	var out []goal.Goal
	for _, g := range m.goals {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.Horizon != "" && g.Horizon != filter.Horizon {
			continue
		}
		if filter.ParentGoalID != "" && g.ParentGoalID != filter.ParentGoalID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *mockStore) GetGoal(_ context.Context, id string) (*goal.Goal, error) {
	if m.getGoalErr != nil {
		return nil, m.getGoalErr
	}
	for i := range m.goals {
		if m.goals[i].ID == id {
			g := m.goals[i]
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateGoal(_ context.Context, req goal.CreateRequest) (*goal.Goal, error) {
	g := goal.Goal{
		ID:              m.genID("goal"),
		ParentGoalID:    req.ParentGoalID,
		Title:           req.Title,
		Description:     req.Description,
		Horizon:         req.Horizon,
		TargetDate:      req.TargetDate,
		Status:          goal.StatusActive,
		SuccessCriteria: req.SuccessCriteria,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	m.goals = append(m.goals, g)
	return &g, nil
}

func (m *mockStore) UpdateGoal(_ context.Context, g *goal.Goal) error {
	if m.updateGoalErr != nil {
		return m.updateGoalErr
	}
	for i := range m.goals {
		if m.goals[i].ID == g.ID {
			m.goals[i] = *g
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteGoal(_ context.Context, id string) error {
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListSubgoals(_ context.Context, parentID string) ([]goal.Goal, error) {
	var out []goal.Goal
	for _, g := range m.goals {
		if g.ParentGoalID == parentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockStore) SetGoalParent(_ context.Context, id, parentID string) error {
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals[i].ParentGoalID = parentID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) UpdateGoalProgress(_ context.Context, id string, progress float64, status goal.Status, completedAt *time.Time) error {
	if m.updateGoalErr != nil {
		return m.updateGoalErr
	}
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals[i].ProgressPercentage = progress
			m.goals[i].Status = status
			m.goals[i].CompletedAt = completedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Fixture helpers ---

func (m *mockStore) addGoal(id, parentID string, status goal.Status, progress float64) *goal.Goal {
	g := goal.Goal{
		ID:                 id,
		ParentGoalID:       parentID,
		Title:              "goal " + id,
		Horizon:            goal.HorizonMonthly,
		Status:             status,
		ProgressPercentage: progress,
		CreatedAt:          time.Now(),
	}
	m.goals = append(m.goals, g)
	return &m.goals[len(m.goals)-1]
}

func (m *mockStore) addTask(id, goalID string, status task.Status, completedAt *time.Time) *task.Task {
	t := task.Task{
		ID:           id,
		ParentGoalID: goalID,
		Title:        "task " + id,
		Priority:     task.PriorityDefault,
		Status:       status,
		CompletedAt:  completedAt,
		CreatedAt:    time.Now(),
	}
	m.tasks = append(m.tasks, t)
	return &m.tasks[len(m.tasks)-1]
}

func timePtr(t time.Time) *time.Time { return &t }
