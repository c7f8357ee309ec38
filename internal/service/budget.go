package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/repository"
)

const (
	minBudgetYear = 1900
	maxBudgetYear = 9999
)

// BudgetService handles budget business logic.
type BudgetService struct {
	budgets  BudgetStore
	expenses ExpenseStore
	metrics  metrics.Recorder
	now      Clock
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgets BudgetStore, expenses ExpenseStore, recorder metrics.Recorder) *BudgetService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BudgetService{budgets: budgets, expenses: expenses, metrics: recorder, now: time.Now}
}

// WithClock overrides the time source.
func (s *BudgetService) WithClock(now Clock) *BudgetService {
	s.now = now
	return s
}

// BudgetInput is the raw body of an upsert. Month and year default to the
// current month.
type BudgetInput struct {
	Category string
	Limit    string
	Month    string
	Year     string
}

// List returns the budgets of one month with their consumption.
// Empty month or year default to the current month.
func (s *BudgetService) List(ctx context.Context, userID, month, year string) ([]report.BudgetStatus, error) {
	var v ValidationError
	m, y := s.period(&v, month, year)
	if err := v.Err(); err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListBudgets(ctx, userID, m, y)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return []report.BudgetStatus{}, nil
	}

	period := report.Month{Year: y, Month: time.Month(m)}
	from, to := period.Start(), period.End()
	totals, err := s.expenses.SumExpensesByCategory(ctx, repository.ExpenseFilter{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	values := make([]model.Budget, len(budgets))
	for i, b := range budgets {
		values[i] = *b
	}
	return report.UsageFromTotals(values, totals), nil
}

// Upsert creates the budget for (category, month, year) or replaces its limit.
func (s *BudgetService) Upsert(ctx context.Context, userID string, input BudgetInput) (*model.Budget, error) {
	var v ValidationError
	category := parseCategory(&v, "category", input.Category)
	limit := parseAmount(&v, "limit", input.Limit)
	month, year := s.period(&v, input.Month, input.Year)
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &model.Budget{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Category:  category,
		Limit:     limit,
		Month:     month,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.budgets.UpsertBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	s.metrics.IncBudgetUpserted()
	return b, nil
}

// Delete removes a budget owned by userID.
func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.budgets.DeleteBudget(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	s.metrics.IncBudgetDeleted()
	return nil
}

func (s *BudgetService) period(v *ValidationError, month, year string) (int, int) {
	now := s.now().UTC()
	m := parseInt(v, "month", month, 1, 12, int(now.Month()))
	y := parseInt(v, "year", year, minBudgetYear, maxBudgetYear, now.Year())
	return m, y
}
