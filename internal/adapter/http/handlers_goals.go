package http

import (
	"net/http"

	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/service"
)

// --- Goal Endpoints ---

// ListGoals handles GET /api/v1/goals
func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := goal.ListFilter{
		Status:       goal.Status(q.Get("status")),
		Horizon:      goal.Horizon(q.Get("horizon")),
		ParentGoalID: q.Get("parent_id"),
	}
	goals, err := h.Goals.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, "goals not found")
		return
	}
	if goals == nil {
		goals = []goal.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

type parentRequest struct {
	ParentGoalID string `json:"parent_goal_id"`
}

// SetGoalParent handles POST /api/v1/goals/{id}/parent
// An empty parent_goal_id detaches the goal from its parent.
func (h *Handlers) SetGoalParent(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	req, ok := readJSON[parentRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	g, err := h.Goals.SetParent(r.Context(), id, req.ParentGoalID)
	if err != nil {
		writeDomainError(w, err, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// RecomputeGoalProgress handles POST /api/v1/goals/{id}/progress
func (h *Handlers) RecomputeGoalProgress(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	cascade := r.URL.Query().Get("cascade") == "true"

	var (
		g   *goal.Goal
		err error
	)
	if cascade {
		g, err = h.Goals.RecomputeTree(r.Context(), id)
	} else {
		g, err = h.Goals.ComputeProgress(r.Context(), id)
	}
	if err != nil {
		writeDomainError(w, err, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// PredictGoalCompletion handles GET /api/v1/goals/{id}/prediction
func (h *Handlers) PredictGoalCompletion(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	window, ok := queryInt(w, r, "window", 0)
	if !ok {
		return
	}
	p, err := h.Forecast.PredictCompletion(r.Context(), id, window)
	if err != nil {
		writeDomainError(w, err, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GoalRequiredVelocity handles GET /api/v1/goals/{id}/required-velocity
func (h *Handlers) GoalRequiredVelocity(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	rv, err := h.Forecast.RequiredVelocity(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

// SuggestBreakdown handles POST /api/v1/goals/{id}/breakdown
func (h *Handlers) SuggestBreakdown(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	maxTasks, ok := queryInt(w, r, "max_tasks", 0)
	if !ok {
		return
	}
	bd, err := h.Breakdown.Suggest(r.Context(), id, maxTasks)
	if err != nil {
		writeDomainError(w, err, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, bd)
}

type breakdownTasksRequest struct {
	Tasks []service.TaskSuggestion `json:"tasks"`
}

// CreateBreakdownTasks handles POST /api/v1/goals/{id}/breakdown/tasks
func (h *Handlers) CreateBreakdownTasks(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	req, ok := readJSON[breakdownTasksRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	created, err := h.Breakdown.CreateTasks(r.Context(), id, req.Tasks)
	if err != nil {
		writeDomainError(w, err, "goal not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
