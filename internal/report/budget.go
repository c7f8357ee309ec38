package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

// BudgetStatus is a budget together with how much of it has been consumed.
type BudgetStatus struct {
	Budget     model.Budget
	Spent      decimal.Decimal
	Remaining  decimal.Decimal // Negative once the limit is exceeded
	Percentage Ratio           // Undefined when the limit is zero
}

// Exceeded reports whether spending is over the limit.
func (s BudgetStatus) Exceeded() bool {
	return s.Spent.GreaterThan(s.Budget.Limit)
}

// Usage computes the status of a single budget given the amount spent in its
// category during its month.
func Usage(b model.Budget, spent decimal.Decimal) BudgetStatus {
	return BudgetStatus{
		Budget:     b,
		Spent:      spent,
		Remaining:  b.Limit.Sub(spent),
		Percentage: Percent(spent, b.Limit),
	}
}

type budgetKey struct {
	month    Month
	category model.Category
}

// BudgetUsage attaches spending to each budget. An expense counts toward a
// budget when it shares the category and falls in the budget's month/year.
func BudgetUsage(budgets []model.Budget, expenses []model.Expense) []BudgetStatus {
	spent := make(map[budgetKey]decimal.Decimal)
	for _, e := range expenses {
		key := budgetKey{month: MonthOf(e.Date), category: e.Category}
		spent[key] = spent[key].Add(e.Amount)
	}

	statuses := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		key := budgetKey{
			month:    Month{Year: b.Year, Month: time.Month(b.Month)},
			category: b.Category,
		}
		statuses[i] = Usage(b, spent[key])
	}
	return statuses
}

// UsageFromTotals is BudgetUsage for budgets that all share one month, with
// spending already summed per category by the store.
func UsageFromTotals(budgets []model.Budget, totals Totals) []BudgetStatus {
	statuses := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		statuses[i] = Usage(b, totals[b.Category])
	}
	return statuses
}
