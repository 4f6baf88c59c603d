package http

import (
	"net/http"
)

// --- Analytics Endpoints ---

// TaskAnalytics handles GET /api/v1/analytics/tasks
func (h *Handlers) TaskAnalytics(w http.ResponseWriter, r *http.Request) {
	window, ok := queryInt(w, r, "window", 30)
	if !ok {
		return
	}
	a, err := h.Trends.TaskAnalytics(r.Context(), window)
	if err != nil {
		writeDomainError(w, err, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GoalAnalytics handles GET /api/v1/analytics/goals
func (h *Handlers) GoalAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.Trends.GoalAnalytics(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// RawVelocity handles GET /api/v1/analytics/velocity/raw
func (h *Handlers) RawVelocity(w http.ResponseWriter, r *http.Request) {
	window, ok := queryInt(w, r, "window", 7)
	if !ok {
		return
	}
	v, err := h.Velocity.Velocity(r.Context(), window)
	if err != nil {
		writeDomainError(w, err, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window_days": window,
		"velocity":    v,
	})
}

// VelocityMetrics handles GET /api/v1/analytics/velocity
func (h *Handlers) VelocityMetrics(w http.ResponseWriter, r *http.Request) {
	window, ok := queryInt(w, r, "window", 30)
	if !ok {
		return
	}
	m, err := h.Velocity.Metrics(r.Context(), window)
	if err != nil {
		writeDomainError(w, err, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// VelocityTrendSeries handles GET /api/v1/analytics/velocity/series
func (h *Handlers) VelocityTrendSeries(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(w, r, "days", 30)
	if !ok {
		return
	}
	series, err := h.Velocity.TrendSeries(r.Context(), days)
	if err != nil {
		writeDomainError(w, err, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// TrendAnalysis handles GET /api/v1/analytics/trends
func (h *Handlers) TrendAnalysis(w http.ResponseWriter, r *http.Request) {
	window, ok := queryInt(w, r, "window", 30)
	if !ok {
		return
	}
	t, err := h.Trends.Analyze(r.Context(), window)
	if err != nil {
		writeDomainError(w, err, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// WeekdayPattern handles GET /api/v1/analytics/patterns
func (h *Handlers) WeekdayPattern(w http.ResponseWriter, r *http.Request) {
	p, err := h.Trends.WeekdayPattern(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
