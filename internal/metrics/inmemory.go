package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups      uint64
	LoginSuccess uint64
	LoginFailure uint64
	RateLimited  uint64

	ExpensesCreated uint64
	ExpensesUpdated uint64
	ExpensesDeleted uint64
	IncomeCreated   uint64
	IncomeUpdated   uint64
	IncomeDeleted   uint64
	BudgetsUpserted uint64
	BudgetsDeleted  uint64

	BudgetAlertsPublished uint64
	BudgetAlertsFailed    uint64

	DashboardDurationCount   uint64
	DashboardDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory using atomic counters.
type InMemoryRecorder struct {
	signups      atomic.Uint64
	loginSuccess atomic.Uint64
	loginFailure atomic.Uint64
	rateLimited  atomic.Uint64

	expensesCreated atomic.Uint64
	expensesUpdated atomic.Uint64
	expensesDeleted atomic.Uint64
	incomeCreated   atomic.Uint64
	incomeUpdated   atomic.Uint64
	incomeDeleted   atomic.Uint64
	budgetsUpserted atomic.Uint64
	budgetsDeleted  atomic.Uint64

	alertsPublished atomic.Uint64
	alertsFailed    atomic.Uint64

	dashboardCount   atomic.Uint64
	dashboardTotalNs atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		Signups:      m.signups.Load(),
		LoginSuccess: m.loginSuccess.Load(),
		LoginFailure: m.loginFailure.Load(),
		RateLimited:  m.rateLimited.Load(),

		ExpensesCreated: m.expensesCreated.Load(),
		ExpensesUpdated: m.expensesUpdated.Load(),
		ExpensesDeleted: m.expensesDeleted.Load(),
		IncomeCreated:   m.incomeCreated.Load(),
		IncomeUpdated:   m.incomeUpdated.Load(),
		IncomeDeleted:   m.incomeDeleted.Load(),
		BudgetsUpserted: m.budgetsUpserted.Load(),
		BudgetsDeleted:  m.budgetsDeleted.Load(),

		BudgetAlertsPublished: m.alertsPublished.Load(),
		BudgetAlertsFailed:    m.alertsFailed.Load(),

		DashboardDurationCount:   m.dashboardCount.Load(),
		DashboardDurationTotalNs: m.dashboardTotalNs.Load(),
	}
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() { m.signups.Add(1) }

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	if outcome == "success" {
		m.loginSuccess.Add(1)
		return
	}
	m.loginFailure.Add(1)
}

// IncRateLimited counts requests rejected by the rate limiter.
func (m *InMemoryRecorder) IncRateLimited() { m.rateLimited.Add(1) }

func (m *InMemoryRecorder) IncExpenseCreated() { m.expensesCreated.Add(1) }
func (m *InMemoryRecorder) IncExpenseUpdated() { m.expensesUpdated.Add(1) }
func (m *InMemoryRecorder) IncExpenseDeleted() { m.expensesDeleted.Add(1) }
func (m *InMemoryRecorder) IncIncomeCreated()  { m.incomeCreated.Add(1) }
func (m *InMemoryRecorder) IncIncomeUpdated()  { m.incomeUpdated.Add(1) }
func (m *InMemoryRecorder) IncIncomeDeleted()  { m.incomeDeleted.Add(1) }
func (m *InMemoryRecorder) IncBudgetUpserted() { m.budgetsUpserted.Add(1) }
func (m *InMemoryRecorder) IncBudgetDeleted()  { m.budgetsDeleted.Add(1) }

// IncBudgetAlert counts alert deliveries by status.
func (m *InMemoryRecorder) IncBudgetAlert(status string) {
	if status == "published" {
		m.alertsPublished.Add(1)
		return
	}
	m.alertsFailed.Add(1)
}

// ObserveDashboardDuration records how long a dashboard took to assemble.
func (m *InMemoryRecorder) ObserveDashboardDuration(duration time.Duration) {
	m.dashboardCount.Add(1)
	m.dashboardTotalNs.Add(duration.Nanoseconds())
}
