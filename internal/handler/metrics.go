package handler

import (
	"fmt"
	"net/http"

	"github.com/fintrack/fintrack/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "fintrack_signups_total %d\n", snap.Signups)
	writeMetric(w, "fintrack_logins_total{outcome=\"success\"} %d\n", snap.LoginSuccess)
	writeMetric(w, "fintrack_logins_total{outcome=\"failure\"} %d\n", snap.LoginFailure)
	writeMetric(w, "fintrack_rate_limited_total %d\n", snap.RateLimited)

	writeMetric(w, "fintrack_expenses_total{op=\"created\"} %d\n", snap.ExpensesCreated)
	writeMetric(w, "fintrack_expenses_total{op=\"updated\"} %d\n", snap.ExpensesUpdated)
	writeMetric(w, "fintrack_expenses_total{op=\"deleted\"} %d\n", snap.ExpensesDeleted)
	writeMetric(w, "fintrack_income_total{op=\"created\"} %d\n", snap.IncomeCreated)
	writeMetric(w, "fintrack_income_total{op=\"updated\"} %d\n", snap.IncomeUpdated)
	writeMetric(w, "fintrack_income_total{op=\"deleted\"} %d\n", snap.IncomeDeleted)
	writeMetric(w, "fintrack_budgets_total{op=\"upserted\"} %d\n", snap.BudgetsUpserted)
	writeMetric(w, "fintrack_budgets_total{op=\"deleted\"} %d\n", snap.BudgetsDeleted)

	writeMetric(w, "fintrack_budget_alerts_total{status=\"published\"} %d\n", snap.BudgetAlertsPublished)
	writeMetric(w, "fintrack_budget_alerts_total{status=\"failed\"} %d\n", snap.BudgetAlertsFailed)

	writeMetric(w, "fintrack_dashboard_duration_seconds_count %d\n", snap.DashboardDurationCount)
	writeMetric(w, "fintrack_dashboard_duration_seconds_sum %.6f\n", float64(snap.DashboardDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
