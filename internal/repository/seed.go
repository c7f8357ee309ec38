package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack/internal/model"
)

// CreateAccount inserts a user together with a starter set of records in a
// single batch. The batch runs as one implicit transaction, so either every
// row lands or none does.
func (r *Repository) CreateAccount(ctx context.Context, user *model.User, expenses []*model.Expense, incomes []*model.Income, budgets []*model.Budget) error {
	batch := &pgx.Batch{}

	batch.Queue(`
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	)
	for _, e := range expenses {
		batch.Queue(`
			INSERT INTO expenses (id, user_id, amount, description, category, date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.UserID, e.Amount, e.Description, string(e.Category), e.Date, e.CreatedAt,
		)
	}
	for _, in := range incomes {
		batch.Queue(`
			INSERT INTO income (id, user_id, amount, description, source, date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			in.ID, in.UserID, in.Amount, in.Description, string(in.Source), in.Date, in.CreatedAt,
		)
	}
	for _, b := range budgets {
		batch.Queue(`
			INSERT INTO budgets (id, user_id, category, limit_amount, month, year, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			b.ID, b.UserID, string(b.Category), b.Limit, b.Month, b.Year, b.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if i == 0 && isUniqueViolation(err) {
				return ErrEmailExists
			}
			return fmt.Errorf("failed to create account (statement %d): %w", i, err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}
