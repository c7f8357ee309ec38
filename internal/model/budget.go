package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending limit for one category.
// A user has at most one budget per (category, month, year).
type Budget struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Category  Category        `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Month     int             `json:"month"` // 1-12
	Year      int             `json:"year"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Period returns the first and last calendar day covered by the budget.
func (b *Budget) Period() (time.Time, time.Time) {
	first := time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
