package http

import (
	"net/http"

	"github.com/stridehq/stride/internal/domain/task"
)

// --- Task Endpoints ---

// ListTasks handles GET /api/v1/tasks
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := task.ListFilter{
		Status:       task.Status(q.Get("status")),
		ParentGoalID: q.Get("goal_id"),
		Category:     q.Get("category"),
	}
	tasks, err := h.Tasks.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, "tasks not found")
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

type statusRequest struct {
	Status string `json:"status"`
}

type completeRequest struct {
	ActualHours *float64 `json:"actual_hours,omitempty"`
}

type blockRequest struct {
	Reason string `json:"reason"`
}

// UpdateTaskStatus handles POST /api/v1/tasks/{id}/status
func (h *Handlers) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	req, ok := readJSON[statusRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.Status, "status") {
		return
	}
	t, err := h.Tasks.UpdateStatus(r.Context(), id, task.Status(req.Status))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CompleteTask handles POST /api/v1/tasks/{id}/complete
func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	var req completeRequest
	if r.ContentLength > 0 {
		var ok bool
		req, ok = readJSON[completeRequest](w, r, maxRequestBodySize)
		if !ok {
			return
		}
	}
	t, err := h.Tasks.Complete(r.Context(), id, req.ActualHours)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// BlockTask handles POST /api/v1/tasks/{id}/block
func (h *Handlers) BlockTask(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	req, ok := readJSON[blockRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	t, err := h.Tasks.Block(r.Context(), id, req.Reason)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}
