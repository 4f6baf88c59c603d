package http

import (
	"net/http"

	"github.com/stridehq/stride/internal/adapter/llm"
	"github.com/stridehq/stride/internal/service"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Tasks     *service.TaskService
	Goals     *service.GoalService
	Velocity  *service.VelocityService
	Forecast  *service.ForecastService
	Trends    *service.TrendService
	Breakdown *service.BreakdownService
	LLM       *llm.Client
}

// Health handles GET /healthz. The AI collaborator is reported but never
// fails the check; the API is useful without it.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
	}
	if h.LLM != nil {
		llmStatus := "ok"
		if ok, _ := h.LLM.Health(r.Context()); !ok {
			llmStatus = "unreachable"
		}
		resp["llm"] = llmStatus
		resp["llm_breaker"] = h.LLM.BreakerState()
	}
	writeJSON(w, http.StatusOK, resp)
}
