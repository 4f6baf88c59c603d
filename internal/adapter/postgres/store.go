package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const taskColumns = `id, owner_id, parent_goal_id, title, description, priority, status, category,
	 estimated_hours, actual_hours, due_date, dependencies, notes, tags, created_at, updated_at, completed_at`

const goalColumns = `id, owner_id, parent_goal_id, title, description, horizon, target_date, status,
	 progress_percentage, success_criteria, created_at, updated_at, completed_at`

// --- Tasks ---

func (s *Store) ListTasks(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`
	args := []any{ownerFromCtx(ctx)}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ParentGoalID != "" {
		args = append(args, filter.ParentGoalID)
		query += fmt.Sprintf(" AND parent_goal_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.OverdueOnly {
		query += " AND due_date IS NOT NULL AND due_date < now() AND status NOT IN ('completed')"
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		query += fmt.Sprintf(" AND due_date IS NOT NULL AND due_date < $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx))

	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "get task %s", id)
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (owner_id, parent_goal_id, title, description, priority, category,
		     estimated_hours, due_date, dependencies, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+taskColumns,
		ownerFromCtx(ctx), nullIfEmpty(req.ParentGoalID), req.Title, req.Description,
		req.Priority, req.Category, req.EstimatedHours, req.DueDate,
		pgTextArray(req.Dependencies), pgTextArray(req.Tags))

	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET parent_goal_id = $2, title = $3, description = $4, priority = $5,
		     status = $6, category = $7, estimated_hours = $8, actual_hours = $9, due_date = $10,
		     dependencies = $11, notes = $12, tags = $13, completed_at = $14, updated_at = now()
		 WHERE id = $1 AND owner_id = $15`,
		t.ID, nullIfEmpty(t.ParentGoalID), t.Title, t.Description, t.Priority,
		t.Status, t.Category, t.EstimatedHours, t.ActualHours, t.DueDate,
		pgTextArray(t.Dependencies), t.Notes, pgTextArray(t.Tags), t.CompletedAt,
		ownerFromCtx(ctx))
	return execExpectOne(tag, err, "update task %s", t.ID)
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status task.Status, completedAt *time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET status = $2, completed_at = $3, updated_at = now()
		 WHERE id = $1 AND owner_id = $4`,
		id, status, completedAt, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "update task status %s", id)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete task %s", id)
}

func (s *Store) ListTasksByGoal(ctx context.Context, goalID string) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE parent_goal_id = $1 AND owner_id = $2 ORDER BY created_at`,
		goalID, ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list tasks by goal %s: %w", goalID, err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) ListCompletedTasksBetween(ctx context.Context, start, end time.Time) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE owner_id = $1 AND status = 'completed'
		   AND completed_at IS NOT NULL AND completed_at >= $2 AND completed_at <= $3
		 ORDER BY completed_at`,
		ownerFromCtx(ctx), start, end)
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) CountTasksCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE owner_id = $1 AND created_at >= $2`,
		ownerFromCtx(ctx), since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks created: %w", err)
	}
	return count, nil
}

func (s *Store) CountTasksByStatus(ctx context.Context) (map[task.Status]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE owner_id = $1 GROUP BY status`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[task.Status]int)
	for rows.Next() {
		var status task.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *Store) CountOverdueTasks(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE owner_id = $1 AND due_date IS NOT NULL AND due_date < $2 AND status != 'completed'`,
		ownerFromCtx(ctx), now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return count, nil
}

// --- Goals ---

func (s *Store) ListGoals(ctx context.Context, filter goal.ListFilter) ([]goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE owner_id = $1`
	args := []any{ownerFromCtx(ctx)}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Horizon != "" {
		args = append(args, filter.Horizon)
		query += fmt.Sprintf(" AND horizon = $%d", len(args))
	}
	if filter.ParentGoalID != "" {
		args = append(args, filter.ParentGoalID)
		query += fmt.Sprintf(" AND parent_goal_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) GetGoal(ctx context.Context, id string) (*goal.Goal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx))

	g, err := scanGoal(row)
	if err != nil {
		return nil, notFoundWrap(err, "get goal %s", id)
	}
	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, req goal.CreateRequest) (*goal.Goal, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO goals (owner_id, parent_goal_id, title, description, horizon, target_date, success_criteria)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+goalColumns,
		ownerFromCtx(ctx), nullIfEmpty(req.ParentGoalID), req.Title, req.Description,
		req.Horizon, req.TargetDate, req.SuccessCriteria)

	g, err := scanGoal(row)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE goals SET title = $2, description = $3, horizon = $4, target_date = $5,
		     status = $6, progress_percentage = $7, success_criteria = $8, completed_at = $9,
		     updated_at = now()
		 WHERE id = $1 AND owner_id = $10`,
		g.ID, g.Title, g.Description, g.Horizon, g.TargetDate,
		g.Status, g.ProgressPercentage, g.SuccessCriteria, g.CompletedAt,
		ownerFromCtx(ctx))
	return execExpectOne(tag, err, "update goal %s", g.ID)
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM goals WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete goal %s", id)
}

func (s *Store) ListSubgoals(ctx context.Context, parentID string) ([]goal.Goal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE parent_goal_id = $1 AND owner_id = $2 ORDER BY created_at`,
		parentID, ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list subgoals of %s: %w", parentID, err)
	}
	defer rows.Close()

	var goals []goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) SetGoalParent(ctx context.Context, id, parentID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE goals SET parent_goal_id = $2, updated_at = now()
		 WHERE id = $1 AND owner_id = $3`,
		id, nullIfEmpty(parentID), ownerFromCtx(ctx))
	return execExpectOne(tag, err, "set goal parent %s", id)
}

func (s *Store) UpdateGoalProgress(ctx context.Context, id string, progress float64, status goal.Status, completedAt *time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE goals SET progress_percentage = $2, status = $3, completed_at = $4, updated_at = now()
		 WHERE id = $1 AND owner_id = $5`,
		id, progress, status, completedAt, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "update goal progress %s", id)
}

// --- Scan helpers ---

func scanTask(row scannable) (task.Task, error) {
	var t task.Task
	var parentGoalID *string
	err := row.Scan(&t.ID, &t.OwnerID, &parentGoalID, &t.Title, &t.Description,
		&t.Priority, &t.Status, &t.Category, &t.EstimatedHours, &t.ActualHours,
		&t.DueDate, &t.Dependencies, &t.Notes, &t.Tags,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt)
	if err != nil {
		return task.Task{}, err
	}
	if parentGoalID != nil {
		t.ParentGoalID = *parentGoalID
	}
	return t, nil
}

func scanGoal(row scannable) (goal.Goal, error) {
	var g goal.Goal
	var parentGoalID *string
	err := row.Scan(&g.ID, &g.OwnerID, &parentGoalID, &g.Title, &g.Description,
		&g.Horizon, &g.TargetDate, &g.Status, &g.ProgressPercentage,
		&g.SuccessCriteria, &g.CreatedAt, &g.UpdatedAt, &g.CompletedAt)
	if err != nil {
		return goal.Goal{}, err
	}
	if parentGoalID != nil {
		g.ParentGoalID = *parentGoalID
	}
	return g, nil
}
