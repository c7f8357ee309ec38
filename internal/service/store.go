package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/repository"
)

// UserStore persists accounts. *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	CreateAccount(ctx context.Context, user *model.User, expenses []*model.Expense, incomes []*model.Income, budgets []*model.Budget) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// ExpenseStore persists and aggregates expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e *model.Expense) error
	GetExpense(ctx context.Context, userID, id string) (*model.Expense, error)
	ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]*model.Expense, error)
	UpdateExpense(ctx context.Context, e *model.Expense) error
	DeleteExpense(ctx context.Context, userID, id string) error
	SumExpenses(ctx context.Context, filter repository.ExpenseFilter) (decimal.Decimal, error)
	SumExpensesByCategory(ctx context.Context, filter repository.ExpenseFilter) (report.Totals, error)
	SumExpensesByMonth(ctx context.Context, filter repository.ExpenseFilter) (map[report.Month]decimal.Decimal, error)
}

// IncomeStore persists and aggregates income.
type IncomeStore interface {
	CreateIncome(ctx context.Context, in *model.Income) error
	ListIncome(ctx context.Context, filter repository.IncomeFilter) ([]*model.Income, error)
	UpdateIncome(ctx context.Context, in *model.Income) error
	DeleteIncome(ctx context.Context, userID, id string) error
	SumIncome(ctx context.Context, filter repository.IncomeFilter) (decimal.Decimal, error)
}

// BudgetStore persists budgets.
type BudgetStore interface {
	UpsertBudget(ctx context.Context, b *model.Budget) error
	GetBudgetFor(ctx context.Context, userID string, category model.Category, month, year int) (*model.Budget, error)
	ListBudgets(ctx context.Context, userID string, month, year int) ([]*model.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

// SessionStore tracks revoked sessions. *cache.Cache satisfies it.
type SessionStore interface {
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) today() time.Time {
	now := c().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
