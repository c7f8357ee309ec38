// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncSignup()
	IncLogin(outcome string) // outcome: "success" or "failure"
	IncRateLimited()

	// Record management metrics
	IncExpenseCreated()
	IncExpenseUpdated()
	IncExpenseDeleted()
	IncIncomeCreated()
	IncIncomeUpdated()
	IncIncomeDeleted()
	IncBudgetUpserted()
	IncBudgetDeleted()

	// Budget alert metrics
	IncBudgetAlert(status string) // status: "published" or "failed"

	// Aggregation metrics
	ObserveDashboardDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
