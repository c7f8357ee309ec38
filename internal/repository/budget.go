package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack/internal/model"
)

// ErrBudgetNotFound is returned when no budget matches both the id and the owner.
var ErrBudgetNotFound = errors.New("budget not found")

const budgetColumns = `id, user_id, category, limit_amount, month, year, created_at, updated_at`

// UpsertBudget inserts a budget or, when the owner already has one for the
// same category and month, replaces its limit. b is updated with the stored
// row so callers see the surviving id and timestamps.
func (r *Repository) UpsertBudget(ctx context.Context, b *model.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category, limit_amount, month, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT ON CONSTRAINT budgets_user_category_period_key
		DO UPDATE SET limit_amount = EXCLUDED.limit_amount, updated_at = EXCLUDED.updated_at
		RETURNING ` + budgetColumns

	stored, err := scanBudget(r.pool.QueryRow(ctx, query,
		b.ID,
		b.UserID,
		string(b.Category),
		b.Limit,
		b.Month,
		b.Year,
		b.CreatedAt,
	))
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	*b = *stored
	return nil
}

// GetBudgetFor returns the owner's budget for a category and month.
func (r *Repository) GetBudgetFor(ctx context.Context, userID string, category model.Category, month, year int) (*model.Budget, error) {
	query := `SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND category = $2 AND month = $3 AND year = $4
	`

	b, err := scanBudget(r.pool.QueryRow(ctx, query, userID, string(category), month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return b, nil
}

// ListBudgets returns the owner's budgets for one month, ordered by category.
func (r *Repository) ListBudgets(ctx context.Context, userID string, month, year int) ([]*model.Budget, error) {
	query := `SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND month = $2 AND year = $3
		ORDER BY category
	`

	rows, err := r.pool.Query(ctx, query, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []*model.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// DeleteBudget removes a budget owned by userID.
func (r *Repository) DeleteBudget(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}

	return nil
}

func scanBudget(row pgx.Row) (*model.Budget, error) {
	var (
		b        model.Budget
		category string
		month    int16
		year     int32
	)
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&category,
		&b.Limit,
		&month,
		&year,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	b.Category = model.Category(category)
	b.Month = int(month)
	b.Year = int(year)
	return &b, err
}
