package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

// ErrIncomeNotFound is returned when no income matches both the id and the owner.
var ErrIncomeNotFound = errors.New("income not found")

// IncomeFilter restricts income queries. From and To are inclusive calendar days.
type IncomeFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

func (f IncomeFilter) where() (string, []any) {
	clause := "WHERE user_id = $1"
	args := []any{f.UserID}

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

// CreateIncome inserts a new income record.
func (r *Repository) CreateIncome(ctx context.Context, in *model.Income) error {
	query := `
		INSERT INTO income (id, user_id, amount, description, source, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		in.ID,
		in.UserID,
		in.Amount,
		in.Description,
		string(in.Source),
		in.Date,
		in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}

	return nil
}

// ListIncome returns matching income records, newest first.
func (r *Repository) ListIncome(ctx context.Context, filter IncomeFilter) ([]*model.Income, error) {
	where, args := filter.where()
	query := `
		SELECT id, user_id, amount, description, source, date, created_at
		FROM income
	` + where + " ORDER BY date DESC, created_at DESC, id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	defer rows.Close()

	incomes := []*model.Income{}
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income: %w", err)
	}

	return incomes, nil
}

// UpdateIncome overwrites the mutable fields of an income owned by in.UserID.
func (r *Repository) UpdateIncome(ctx context.Context, in *model.Income) error {
	query := `
		UPDATE income
		SET amount = $3, description = $4, source = $5, date = $6
		WHERE id = $1 AND user_id = $2
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		in.ID,
		in.UserID,
		in.Amount,
		in.Description,
		string(in.Source),
		in.Date,
	).Scan(&in.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrIncomeNotFound
		}
		return fmt.Errorf("failed to update income: %w", err)
	}

	return nil
}

// DeleteIncome removes an income record owned by userID.
func (r *Repository) DeleteIncome(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM income WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrIncomeNotFound
	}

	return nil
}

// SumIncome returns the total amount of matching income. Limit is ignored.
func (r *Repository) SumIncome(ctx context.Context, filter IncomeFilter) (decimal.Decimal, error) {
	where, args := filter.where()

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM income `+where, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum income: %w", err)
	}

	return sum, nil
}

func scanIncome(row pgx.Row) (*model.Income, error) {
	var (
		in     model.Income
		source string
	)
	err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.Amount,
		&in.Description,
		&source,
		&in.Date,
		&in.CreatedAt,
	)
	in.Source = model.Source(source)
	return &in, err
}
