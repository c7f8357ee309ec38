package report

import "github.com/shopspring/decimal"

// HealthStatus classifies a spending ratio.
type HealthStatus string

// Health statuses, from best to worst. NoIncome is used when the ratio is undefined.
const (
	StatusHealthy      HealthStatus = "healthy"
	StatusModerate     HealthStatus = "moderate"
	StatusAtRisk       HealthStatus = "at_risk"
	StatusOverspending HealthStatus = "overspending"
	StatusNoIncome     HealthStatus = "no_income"
)

// Spending ratio thresholds, as fractions of income.
var (
	moderateThreshold = decimal.RequireFromString("0.7")
	atRiskThreshold   = decimal.RequireFromString("0.9")
)

var healthMessages = map[HealthStatus]string{
	StatusHealthy:      "Good financial health - you're saving money",
	StatusModerate:     "Good financial health - you're saving money",
	StatusAtRisk:       "You're close to spending all your income",
	StatusOverspending: "You're spending more than you earn",
	StatusNoIncome:     "No income recorded for this period, spending ratio is unavailable",
}

// Health summarizes income against expenses over a window.
type Health struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	SpendingRatio Ratio           `json:"spending_ratio"` // expenses / income * 100
	Status        HealthStatus    `json:"status"`
	Message       string          `json:"message"`
}

// FinancialHealth computes net income and the spending ratio.
func FinancialHealth(income, expenses decimal.Decimal) Health {
	h := Health{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetIncome:     income.Sub(expenses),
		SpendingRatio: Percent(expenses, income),
	}
	h.Status = classify(income, expenses)
	h.Message = healthMessages[h.Status]
	return h
}

func classify(income, expenses decimal.Decimal) HealthStatus {
	if income.IsZero() {
		return StatusNoIncome
	}
	if expenses.GreaterThan(income) {
		return StatusOverspending
	}

	ratio := expenses.Div(income)
	switch {
	case ratio.GreaterThan(atRiskThreshold):
		return StatusAtRisk
	case ratio.GreaterThan(moderateThreshold):
		return StatusModerate
	default:
		return StatusHealthy
	}
}
