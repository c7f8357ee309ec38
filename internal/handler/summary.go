package handler

import (
	"log/slog"
	"net/http"

	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/service"
)

// SummaryHandler serves the aggregated views.
type SummaryHandler struct {
	base
	dashboard *service.DashboardService
	reports   *service.ReportService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(dashboard *service.DashboardService, reports *service.ReportService, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{base: newBase(logger), dashboard: dashboard, reports: reports}
}

// Dashboard handles GET /dashboard.
func (h *SummaryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	d, err := h.dashboard.Get(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDashboardResponse(d))
}

// Report handles GET /reports?days=N.
func (h *SummaryHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Get(r.Context(), userID, r.URL.Query().Get("days"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToReportResponse(rep))
}
