package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/task"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Tasks
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", handleCreate(maxRequestBodySize,
			func(ctx context.Context, req *task.CreateRequest) (*task.Task, error) {
				return h.Tasks.Create(ctx, *req)
			}))
		r.Get("/tasks/overdue", handleList(h.Tasks.Overdue))
		r.Get("/tasks/due-today", handleList(h.Tasks.DueToday))
		r.Get("/tasks/{id}", handleGet(h.Tasks.Get, "task not found"))
		r.Put("/tasks/{id}", handleUpdate(maxRequestBodySize, h.Tasks.Update, "task not found"))
		r.Delete("/tasks/{id}", handleDelete(h.Tasks.Delete, "task not found"))
		r.Post("/tasks/{id}/status", h.UpdateTaskStatus)
		r.Post("/tasks/{id}/complete", h.CompleteTask)
		r.Post("/tasks/{id}/block", h.BlockTask)

		// Goals
		r.Get("/goals", h.ListGoals)
		r.Post("/goals", handleCreate(maxRequestBodySize,
			func(ctx context.Context, req *goal.CreateRequest) (*goal.Goal, error) {
				return h.Goals.Create(ctx, *req)
			}))
		r.Get("/goals/{id}", handleGet(h.Goals.Get, "goal not found"))
		r.Put("/goals/{id}", handleUpdate(maxRequestBodySize, h.Goals.Update, "goal not found"))
		r.Delete("/goals/{id}", handleDelete(h.Goals.Delete, "goal not found"))

		// Goal hierarchy
		r.Post("/goals/{id}/parent", h.SetGoalParent)
		r.Get("/goals/{id}/subgoals", handleListByParam("id", h.Goals.Children, "goal not found"))
		r.Get("/goals/{id}/ancestors", handleListByParam("id", h.Goals.Ancestors, "goal not found"))
		r.Get("/goals/{id}/tasks", handleListByParam("id",
			func(ctx context.Context, goalID string) ([]task.Task, error) {
				return h.Tasks.List(ctx, task.ListFilter{ParentGoalID: goalID})
			}, "goal not found"))

		// Goal progress and forecasting
		r.Post("/goals/{id}/progress", h.RecomputeGoalProgress)
		r.Get("/goals/{id}/prediction", h.PredictGoalCompletion)
		r.Get("/goals/{id}/required-velocity", h.GoalRequiredVelocity)

		// AI goal breakdown
		r.Post("/goals/{id}/breakdown", h.SuggestBreakdown)
		r.Post("/goals/{id}/breakdown/tasks", h.CreateBreakdownTasks)

		// Analytics
		r.Get("/analytics/tasks", h.TaskAnalytics)
		r.Get("/analytics/goals", h.GoalAnalytics)
		r.Get("/analytics/velocity", h.VelocityMetrics)
		r.Get("/analytics/velocity/raw", h.RawVelocity)
		r.Get("/analytics/velocity/series", h.VelocityTrendSeries)
		r.Get("/analytics/trends", h.TrendAnalysis)
		r.Get("/analytics/patterns", h.WeekdayPattern)
		r.Get("/analytics/predictions", handleList(h.Forecast.PredictAll))
	})
}
