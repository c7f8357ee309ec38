package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/repository"
)

// recentTransactions is how many expenses the dashboard lists.
const recentTransactions = 10

// Dashboard is the overview of a user's finances.
type Dashboard struct {
	TotalBalance       decimal.Decimal
	MonthlyExpenses    decimal.Decimal
	RecentTransactions []*model.Expense
	SpendingByCategory []report.CategoryShare
	MonthlyTrend       []report.TrendPoint
}

// DashboardService assembles the dashboard.
type DashboardService struct {
	expenses    ExpenseStore
	incomes     IncomeStore
	metrics     metrics.Recorder
	trendMonths int
	now         Clock
}

// NewDashboardService creates a new DashboardService. A non-positive
// trendMonths uses report.DefaultTrendMonths.
func NewDashboardService(expenses ExpenseStore, incomes IncomeStore, recorder metrics.Recorder, trendMonths int) *DashboardService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if trendMonths <= 0 {
		trendMonths = report.DefaultTrendMonths
	}
	return &DashboardService{
		expenses:    expenses,
		incomes:     incomes,
		metrics:     recorder,
		trendMonths: trendMonths,
		now:         time.Now,
	}
}

// WithClock overrides the time source.
func (s *DashboardService) WithClock(now Clock) *DashboardService {
	s.now = now
	return s
}

// Get builds the dashboard. The independent store reads run concurrently;
// the first failure cancels the others.
func (s *DashboardService) Get(ctx context.Context, userID string) (*Dashboard, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDashboardDuration(time.Since(start)) }()

	current := report.MonthOf(s.now().UTC())
	monthStart, monthEnd := current.Start(), current.End()
	first, _ := report.TrendWindow(current, s.trendMonths)
	trendStart := first.Start()

	var (
		totalIncome   decimal.Decimal
		totalExpenses decimal.Decimal
		recent        []*model.Expense
		monthTotals   report.Totals
		monthSums     map[report.Month]decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalIncome, err = s.incomes.SumIncome(gctx, repository.IncomeFilter{UserID: userID})
		return wrap(err, "sum income")
	})
	g.Go(func() error {
		var err error
		totalExpenses, err = s.expenses.SumExpenses(gctx, repository.ExpenseFilter{UserID: userID})
		return wrap(err, "sum expenses")
	})
	g.Go(func() error {
		var err error
		recent, err = s.expenses.ListExpenses(gctx, repository.ExpenseFilter{UserID: userID, Limit: recentTransactions})
		return wrap(err, "list recent expenses")
	})
	g.Go(func() error {
		var err error
		monthTotals, err = s.expenses.SumExpensesByCategory(gctx, repository.ExpenseFilter{
			UserID: userID,
			From:   &monthStart,
			To:     &monthEnd,
		})
		return wrap(err, "sum expenses by category")
	})
	g.Go(func() error {
		var err error
		monthSums, err = s.expenses.SumExpensesByMonth(gctx, repository.ExpenseFilter{
			UserID: userID,
			From:   &trendStart,
			To:     &monthEnd,
		})
		return wrap(err, "sum expenses by month")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalBalance:       totalIncome.Sub(totalExpenses),
		MonthlyExpenses:    monthTotals.Total(),
		RecentTransactions: recent,
		SpendingByCategory: report.Breakdown(monthTotals),
		MonthlyTrend:       report.MonthlyTrend(current, s.trendMonths, monthSums),
	}, nil
}

func wrap(err error, op string) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return nil
}
