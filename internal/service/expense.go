package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/notify"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/repository"
)

// alertTimeout bounds how long a write waits on the broker.
const alertTimeout = 5 * time.Second

// ExpenseService handles expense business logic and budget alerts.
type ExpenseService struct {
	expenses  ExpenseStore
	budgets   BudgetStore
	publisher notify.Publisher
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       Clock
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenses ExpenseStore, budgets BudgetStore, publisher notify.Publisher, recorder metrics.Recorder, logger *slog.Logger) *ExpenseService {
	if publisher == nil {
		publisher = notify.NewNoop()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		expenses:  expenses,
		budgets:   budgets,
		publisher: publisher,
		metrics:   recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source.
func (s *ExpenseService) WithClock(now Clock) *ExpenseService {
	s.now = now
	return s
}

// ExpenseInput is the raw, unvalidated body of a create or update.
// An empty date means today.
type ExpenseInput struct {
	Amount      string
	Description string
	Category    string
	Date        string
}

// ExpenseQuery is the raw query string of a list request.
type ExpenseQuery struct {
	Category  string
	StartDate string
	EndDate   string
	Limit     string
}

// List returns the user's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, userID string, q ExpenseQuery) ([]*model.Expense, error) {
	var v ValidationError
	filter := repository.ExpenseFilter{
		UserID:     userID,
		Categories: parseCategoryFilter(&v, q.Category),
		From:       optionalDate(&v, "startDate", q.StartDate),
		To:         optionalDate(&v, "endDate", q.EndDate),
		Limit:      parseLimit(&v, q.Limit),
	}
	checkRange(&v, filter.From, filter.To)
	if err := v.Err(); err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// Create records a new expense owned by userID.
func (s *ExpenseService) Create(ctx context.Context, userID string, input ExpenseInput) (*model.Expense, error) {
	e, err := s.build(input)
	if err != nil {
		return nil, err
	}
	e.ID = ulid.Make().String()
	e.UserID = userID
	e.CreatedAt = s.now().UTC()

	if err := s.expenses.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	s.metrics.IncExpenseCreated()

	s.checkBudget(ctx, e, nil)
	return e, nil
}

// Update replaces the fields of an expense owned by userID.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, input ExpenseInput) (*model.Expense, error) {
	e, err := s.build(input)
	if err != nil {
		return nil, err
	}

	previous, err := s.expenses.GetExpense(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}

	e.ID = id
	e.UserID = userID
	e.CreatedAt = previous.CreatedAt
	if err := s.expenses.UpdateExpense(ctx, e); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	s.metrics.IncExpenseUpdated()

	s.checkBudget(ctx, e, previous)
	return e, nil
}

// Delete removes an expense owned by userID.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	if err := s.expenses.DeleteExpense(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.metrics.IncExpenseDeleted()
	return nil
}

func (s *ExpenseService) build(input ExpenseInput) (*model.Expense, error) {
	var v ValidationError
	e := &model.Expense{
		Amount:      parseAmount(&v, "amount", input.Amount),
		Description: parseDescription(&v, input.Description),
		Category:    parseCategory(&v, "category", input.Category),
	}
	if date := optionalDate(&v, "date", input.Date); date != nil {
		e.Date = *date
	} else {
		e.Date = s.now.today()
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

// checkBudget publishes an alert when the write pushed its category over the
// monthly budget. previous is the expense as it was before an update.
// Failures are logged and counted, never returned.
func (s *ExpenseService) checkBudget(ctx context.Context, e, previous *model.Expense) {
	month := report.MonthOf(e.Date)
	logger := s.logger.With("user_id", e.UserID, "category", e.Category, "month", month.Label())

	budget, err := s.budgets.GetBudgetFor(ctx, e.UserID, e.Category, int(month.Month), month.Year)
	if err != nil {
		if !errors.Is(err, repository.ErrBudgetNotFound) {
			logger.Warn("budget lookup failed", "error", err)
		}
		return
	}

	from, to := month.Start(), month.End()
	after, err := s.expenses.SumExpenses(ctx, repository.ExpenseFilter{
		UserID:     e.UserID,
		Categories: []model.Category{e.Category},
		From:       &from,
		To:         &to,
	})
	if err != nil {
		logger.Warn("budget spend lookup failed", "error", err)
		return
	}

	before := after.Sub(e.Amount).Add(contribution(previous, e.Category, month))
	if !crossed(before, after, budget.Limit) {
		return
	}

	alert := notify.NewBudgetExceeded(budget, after, s.now())
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	defer cancel()

	if err := s.publisher.PublishBudgetExceeded(pubCtx, alert); err != nil {
		s.metrics.IncBudgetAlert("failed")
		logger.Error("failed to publish budget alert", "error", err)
		return
	}
	s.metrics.IncBudgetAlert("published")
	logger.Info("budget exceeded", "limit", budget.Limit.StringFixed(2), "spent", after.StringFixed(2))
}

// contribution is what previous added to the category's spend in month.
func contribution(previous *model.Expense, category model.Category, month report.Month) decimal.Decimal {
	if previous == nil || previous.Category != category || report.MonthOf(previous.Date) != month {
		return decimal.Zero
	}
	return previous.Amount
}

// crossed reports whether spend went from within the limit to over it.
func crossed(before, after, limit decimal.Decimal) bool {
	return before.LessThanOrEqual(limit) && after.GreaterThan(limit)
}
