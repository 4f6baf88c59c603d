package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stridehq/stride/internal/adapter/llm"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/task"
	"github.com/stridehq/stride/internal/port/database"
)

// DefaultMaxSuggestions bounds how many tasks a breakdown may suggest.
const DefaultMaxSuggestions = 8

// TaskSuggestion is one AI-suggested task for a goal. Only the structured
// fields are consumed; the service does no language processing itself.
type TaskSuggestion struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Priority       int      `json:"priority"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Category       string   `json:"category,omitempty"`
}

// Breakdown is the result of asking the AI collaborator to decompose a goal.
type Breakdown struct {
	GoalID         string           `json:"goal_id"`
	GoalTitle      string           `json:"goal_title"`
	SuggestedTasks []TaskSuggestion `json:"suggested_tasks"`
	Reasoning      string           `json:"reasoning,omitempty"`
}

// BreakdownService asks an AI collaborator to decompose goals into tasks.
// Suggestions are validated strictly and never persisted implicitly;
// CreateTasks is the separate, explicit persistence step. Upstream failures
// are surfaced as ErrUpstream and never retried here; the client's circuit
// breaker is the only failure policy.
type BreakdownService struct {
	store  database.Store
	llm    *llm.Client
	logger *slog.Logger
}

// NewBreakdownService creates a new BreakdownService.
func NewBreakdownService(store database.Store, client *llm.Client, logger *slog.Logger) *BreakdownService {
	return &BreakdownService{store: store, llm: client, logger: logger}
}

// Suggest asks the collaborator for up to maxTasks suggested tasks for the
// goal. maxTasks of 0 uses the default.
func (s *BreakdownService) Suggest(ctx context.Context, goalID string, maxTasks int) (*Breakdown, error) {
	if maxTasks <= 0 {
		maxTasks = DefaultMaxSuggestions
	}

	g, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	targetDate := "not set"
	if g.TargetDate != nil {
		targetDate = g.TargetDate.Format("2006-01-02")
	}
	description := g.Description
	if description == "" {
		description = "no description provided"
	}
	criteria := g.SuccessCriteria
	if criteria == "" {
		criteria = "not specified"
	}

	prompt := fmt.Sprintf(`You are a planning assistant. Break down the following goal into at most %d concrete, actionable tasks.

Goal: %s
Horizon: %s
Target date: %s
Description: %s
Success criteria: %s

For each task provide a clear action-oriented title, a brief description, a priority (1=highest, 5=lowest), estimated hours if applicable, and a category.

Respond in JSON format:
{
  "tasks": [
    {"title": "...", "description": "...", "priority": 1, "estimated_hours": 2.5, "category": "..."}
  ],
  "reasoning": "Brief explanation of the breakdown strategy"
}

Only return the JSON object, no additional text.`,
		maxTasks, g.Title, g.Horizon, targetDate, description, criteria)

	content, err := s.llm.ChatCompletion(ctx, []llm.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		s.logger.Error("goal breakdown request failed", "goal_id", goalID, "error", err)
		return nil, fmt.Errorf("goal breakdown: %v: %w", err, domain.ErrUpstream)
	}

	var parsed struct {
		Tasks     []TaskSuggestion `json:"tasks"`
		Reasoning string           `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		s.logger.Error("goal breakdown returned unparsable output", "goal_id", goalID, "error", err)
		return nil, fmt.Errorf("parse breakdown response: %v: %w", err, domain.ErrUpstream)
	}

	if len(parsed.Tasks) > maxTasks {
		parsed.Tasks = parsed.Tasks[:maxTasks]
	}
	if err := validateSuggestions(parsed.Tasks, domain.ErrUpstream); err != nil {
		return nil, err
	}

	return &Breakdown{
		GoalID:         g.ID,
		GoalTitle:      g.Title,
		SuggestedTasks: parsed.Tasks,
		Reasoning:      parsed.Reasoning,
	}, nil
}

// CreateTasks persists accepted suggestions as real tasks under the goal.
func (s *BreakdownService) CreateTasks(ctx context.Context, goalID string, suggestions []TaskSuggestion) ([]task.Task, error) {
	if _, err := s.store.GetGoal(ctx, goalID); err != nil {
		return nil, err
	}
	if err := validateSuggestions(suggestions, domain.ErrValidation); err != nil {
		return nil, err
	}

	created := make([]task.Task, 0, len(suggestions))
	for i, sug := range suggestions {
		req := task.CreateRequest{
			Title:        sug.Title,
			Description:  sug.Description,
			Priority:     sug.Priority,
			Category:     sug.Category,
			ParentGoalID: goalID,
		}
		if sug.EstimatedHours != nil {
			req.EstimatedHours = *sug.EstimatedHours
		}
		t, err := s.store.CreateTask(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("create suggested task %d: %w", i, err)
		}
		created = append(created, *t)
	}
	return created, nil
}

// validateSuggestions enforces the suggestion schema: non-empty titles,
// priority within bounds, non-negative hours. The sentinel distinguishes a
// collaborator that broke contract (ErrUpstream) from a caller submitting
// bad suggestions for persistence (ErrValidation).
func validateSuggestions(suggestions []TaskSuggestion, sentinel error) error {
	if len(suggestions) == 0 {
		return fmt.Errorf("breakdown contains no tasks: %w", sentinel)
	}
	for i, sug := range suggestions {
		if strings.TrimSpace(sug.Title) == "" {
			return fmt.Errorf("suggested task %d has empty title: %w", i, sentinel)
		}
		if sug.Priority < task.PriorityHighest || sug.Priority > task.PriorityLowest {
			return fmt.Errorf("suggested task %d has priority %d outside 1-5: %w", i, sug.Priority, sentinel)
		}
		if sug.EstimatedHours != nil && *sug.EstimatedHours < 0 {
			return fmt.Errorf("suggested task %d has negative estimated hours: %w", i, sentinel)
		}
	}
	return nil
}

// extractJSON attempts to extract a JSON object or array from a string that
// may contain markdown fences or other surrounding text.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
