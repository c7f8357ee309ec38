package service

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

type sampleExpense struct {
	amount      string
	description string
	category    model.Category
	date        string
}

type sampleIncome struct {
	amount      string
	description string
	source      model.Source
	date        string
}

type sampleBudget struct {
	category model.Category
	limit    string
}

var sampleExpenses = []sampleExpense{
	{"45.99", "Grocery shopping", model.CategoryFood, "2024-12-15"},
	{"25.00", "Gas station", model.CategoryTransportation, "2024-12-14"},
	{"15.50", "Coffee shop", model.CategoryFood, "2024-12-13"},
	{"89.99", "Electric bill", model.CategoryUtilities, "2024-12-10"},
	{"120.00", "Internet bill", model.CategoryUtilities, "2024-12-08"},
	{"35.99", "Movie tickets", model.CategoryEntertainment, "2024-12-05"},
	{"67.50", "Restaurant dinner", model.CategoryFood, "2024-12-03"},
	{"199.99", "New shoes", model.CategoryShopping, "2024-11-28"},
	{"85.00", "Doctor visit", model.CategoryHealthcare, "2024-11-25"},
	{"42.30", "Uber ride", model.CategoryTransportation, "2024-11-20"},
}

var sampleIncomes = []sampleIncome{
	{"4500.00", "Monthly Salary", model.SourceJob, "2024-12-01"},
	{"4500.00", "Monthly Salary", model.SourceJob, "2024-11-01"},
	{"500.00", "Freelance Project", model.SourceFreelance, "2024-11-15"},
}

// Budgets are created for the month the account is opened in.
var sampleBudgets = []sampleBudget{
	{model.CategoryFood, "500"},
	{model.CategoryTransportation, "200"},
	{model.CategoryEntertainment, "150"},
	{model.CategoryUtilities, "300"},
	{model.CategoryShopping, "400"},
	{model.CategoryHealthcare, "200"},
}

// sampleRecords builds the starter data for a new account.
func sampleRecords(userID string, now time.Time) ([]*model.Expense, []*model.Income, []*model.Budget) {
	expenses := make([]*model.Expense, len(sampleExpenses))
	for i, s := range sampleExpenses {
		expenses[i] = &model.Expense{
			ID:          ulid.Make().String(),
			UserID:      userID,
			Amount:      decimal.RequireFromString(s.amount),
			Description: s.description,
			Category:    s.category,
			Date:        mustDate(s.date),
			CreatedAt:   now,
		}
	}

	incomes := make([]*model.Income, len(sampleIncomes))
	for i, s := range sampleIncomes {
		incomes[i] = &model.Income{
			ID:          ulid.Make().String(),
			UserID:      userID,
			Amount:      decimal.RequireFromString(s.amount),
			Description: s.description,
			Source:      s.source,
			Date:        mustDate(s.date),
			CreatedAt:   now,
		}
	}

	budgets := make([]*model.Budget, len(sampleBudgets))
	for i, s := range sampleBudgets {
		budgets[i] = &model.Budget{
			ID:        ulid.Make().String(),
			UserID:    userID,
			Category:  s.category,
			Limit:     decimal.RequireFromString(s.limit),
			Month:     int(now.Month()),
			Year:      now.Year(),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return expenses, incomes, budgets
}

func mustDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
