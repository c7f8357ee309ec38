package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

// Totals maps a category to the summed amount spent in it.
type Totals map[model.Category]decimal.Decimal

// SumByCategory sums expense amounts per category.
// The caller is responsible for restricting expenses to the desired window.
func SumByCategory(expenses []model.Expense) Totals {
	totals := make(Totals)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// Total returns the sum over all categories.
func (t Totals) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, amount := range t {
		sum = sum.Add(amount)
	}
	return sum
}

// CategoryShare is one row of a spending breakdown.
type CategoryShare struct {
	Category   model.Category  `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage Ratio           `json:"percentage"`
}

// Breakdown orders categories by amount spent, largest first, and attaches
// each category's share of the grand total.
func Breakdown(totals Totals) []CategoryShare {
	grand := totals.Total()

	shares := make([]CategoryShare, 0, len(totals))
	for category, amount := range totals {
		shares = append(shares, CategoryShare{
			Category:   category,
			Total:      amount,
			Percentage: Percent(amount, grand),
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if c := shares[i].Total.Cmp(shares[j].Total); c != 0 {
			return c > 0
		}
		return shares[i].Category < shares[j].Category
	})

	return shares
}

// SumExpenses returns the sum of all expense amounts.
func SumExpenses(expenses []model.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// SumIncome returns the sum of all income amounts.
func SumIncome(incomes []model.Income) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range incomes {
		sum = sum.Add(i.Amount)
	}
	return sum
}
