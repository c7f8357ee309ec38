package service

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/repository"
)

const (
	defaultReportDays = 30
	recentReportItems = 5
)

// reportWindows lists the accepted values of the days parameter.
var reportWindows = []int{7, 30, 90, 365}

// Report summarizes income and spending over a trailing window.
type Report struct {
	Days              int
	From              time.Time
	To                time.Time
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	NetIncome         decimal.Decimal
	CategoryBreakdown []report.CategoryShare
	RecentExpenses    []*model.Expense
	RecentIncome      []*model.Income
	FinancialHealth   report.Health
}

// ReportService builds period reports.
type ReportService struct {
	expenses ExpenseStore
	incomes  IncomeStore
	now      Clock
}

// NewReportService creates a new ReportService.
func NewReportService(expenses ExpenseStore, incomes IncomeStore) *ReportService {
	return &ReportService{expenses: expenses, incomes: incomes, now: time.Now}
}

// WithClock overrides the time source.
func (s *ReportService) WithClock(now Clock) *ReportService {
	s.now = now
	return s
}

// Get builds the report for the last days days, today included.
func (s *ReportService) Get(ctx context.Context, userID, days string) (*Report, error) {
	n, err := parseDays(days)
	if err != nil {
		return nil, err
	}

	to := s.now.today()
	from := to.AddDate(0, 0, -n)
	expenseFilter := repository.ExpenseFilter{UserID: userID, From: &from, To: &to}
	incomeFilter := repository.IncomeFilter{UserID: userID, From: &from, To: &to}

	var (
		income         decimal.Decimal
		totals         report.Totals
		recentExpenses []*model.Expense
		recentIncome   []*model.Income
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.incomes.SumIncome(gctx, incomeFilter)
		return wrap(err, "sum income")
	})
	g.Go(func() error {
		var err error
		totals, err = s.expenses.SumExpensesByCategory(gctx, expenseFilter)
		return wrap(err, "sum expenses by category")
	})
	g.Go(func() error {
		f := expenseFilter
		f.Limit = recentReportItems
		var err error
		recentExpenses, err = s.expenses.ListExpenses(gctx, f)
		return wrap(err, "list recent expenses")
	})
	g.Go(func() error {
		f := incomeFilter
		f.Limit = recentReportItems
		var err error
		recentIncome, err = s.incomes.ListIncome(gctx, f)
		return wrap(err, "list recent income")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	expenses := totals.Total()
	health := report.FinancialHealth(income, expenses)
	return &Report{
		Days:              n,
		From:              from,
		To:                to,
		TotalIncome:       income,
		TotalExpenses:     expenses,
		NetIncome:         health.NetIncome,
		CategoryBreakdown: report.Breakdown(totals),
		RecentExpenses:    recentExpenses,
		RecentIncome:      recentIncome,
		FinancialHealth:   health,
	}, nil
}

func parseDays(raw string) (int, error) {
	if raw == "" {
		return defaultReportDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err == nil {
		for _, allowed := range reportWindows {
			if n == allowed {
				return n, nil
			}
		}
	}
	var v ValidationError
	v.Add("days", "must be one of 7, 30, 90, 365")
	return 0, v.Err()
}
