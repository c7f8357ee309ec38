package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
)

// ErrExpenseNotFound is returned when no expense matches both the id and the owner.
var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseFilter restricts expense queries. UserID is mandatory; the other
// fields are optional. From and To are inclusive calendar days.
type ExpenseFilter struct {
	UserID     string
	Categories []model.Category // Empty means every category
	From       *time.Time
	To         *time.Time
	Limit      int // Zero means no limit
}

// where renders the WHERE clause and its arguments.
func (f ExpenseFilter) where() (string, []any) {
	clause := "WHERE user_id = $1"
	args := []any{f.UserID}

	if len(f.Categories) > 0 {
		names := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			names[i] = string(c)
		}
		args = append(args, pq.Array(names))
		clause += fmt.Sprintf(" AND category = ANY($%d)", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		clause += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		clause += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	return clause, args
}

// CreateExpense inserts a new expense.
func (r *Repository) CreateExpense(ctx context.Context, e *model.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, amount, description, category, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.Amount,
		e.Description,
		string(e.Category),
		e.Date,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense owned by userID.
func (r *Repository) GetExpense(ctx context.Context, userID, id string) (*model.Expense, error) {
	query := `
		SELECT id, user_id, amount, description, category, date, created_at
		FROM expenses
		WHERE id = $1 AND user_id = $2
	`

	e, err := scanExpense(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// ListExpenses returns matching expenses, newest first.
func (r *Repository) ListExpenses(ctx context.Context, filter ExpenseFilter) ([]*model.Expense, error) {
	where, args := filter.where()
	query := `
		SELECT id, user_id, amount, description, category, date, created_at
		FROM expenses
	` + where + " ORDER BY date DESC, created_at DESC, id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*model.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense overwrites the mutable fields of an expense owned by e.UserID.
func (r *Repository) UpdateExpense(ctx context.Context, e *model.Expense) error {
	query := `
		UPDATE expenses
		SET amount = $3, description = $4, category = $5, date = $6
		WHERE id = $1 AND user_id = $2
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		e.ID,
		e.UserID,
		e.Amount,
		e.Description,
		string(e.Category),
		e.Date,
	).Scan(&e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense owned by userID.
func (r *Repository) DeleteExpense(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

// SumExpenses returns the total amount of matching expenses. Limit is ignored.
func (r *Repository) SumExpenses(ctx context.Context, filter ExpenseFilter) (decimal.Decimal, error) {
	where, args := filter.where()
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses ` + where

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return sum, nil
}

// SumExpensesByCategory groups matching expenses by category. Limit is ignored.
func (r *Repository) SumExpensesByCategory(ctx context.Context, filter ExpenseFilter) (report.Totals, error) {
	where, args := filter.where()
	query := `SELECT category, SUM(amount) FROM expenses ` + where + ` GROUP BY category`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	defer rows.Close()

	totals := make(report.Totals)
	for rows.Next() {
		var (
			category string
			sum      decimal.Decimal
		)
		if err := rows.Scan(&category, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals[model.Category(category)] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}

// SumExpensesByMonth groups matching expenses by calendar month in one query.
// Limit is ignored.
func (r *Repository) SumExpensesByMonth(ctx context.Context, filter ExpenseFilter) (map[report.Month]decimal.Decimal, error) {
	where, args := filter.where()
	query := `
		SELECT date_trunc('month', date)::date AS month, SUM(amount)
		FROM expenses
	` + where + ` GROUP BY 1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by month: %w", err)
	}
	defer rows.Close()

	sums := make(map[report.Month]decimal.Decimal)
	for rows.Next() {
		var (
			month time.Time
			sum   decimal.Decimal
		)
		if err := rows.Scan(&month, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		sums[report.MonthOf(month)] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}

	return sums, nil
}

func scanExpense(row pgx.Row) (*model.Expense, error) {
	var (
		e        model.Expense
		category string
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Amount,
		&e.Description,
		&category,
		&e.Date,
		&e.CreatedAt,
	)
	e.Category = model.Category(category)
	return &e, err
}
