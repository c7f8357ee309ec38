package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncSignup()                                      {}
func (n *NoopRecorder) IncLogin(outcome string)                         {}
func (n *NoopRecorder) IncRateLimited()                                 {}
func (n *NoopRecorder) IncExpenseCreated()                              {}
func (n *NoopRecorder) IncExpenseUpdated()                              {}
func (n *NoopRecorder) IncExpenseDeleted()                              {}
func (n *NoopRecorder) IncIncomeCreated()                               {}
func (n *NoopRecorder) IncIncomeUpdated()                               {}
func (n *NoopRecorder) IncIncomeDeleted()                               {}
func (n *NoopRecorder) IncBudgetUpserted()                              {}
func (n *NoopRecorder) IncBudgetDeleted()                               {}
func (n *NoopRecorder) IncBudgetAlert(status string)                    {}
func (n *NoopRecorder) ObserveDashboardDuration(duration time.Duration) {}
