package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is money spent by a user on a given day.
type Expense struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Date        time.Time       `json:"date"` // Calendar day, midnight UTC
	CreatedAt   time.Time       `json:"created_at"`
}

// Income is money received by a user on a given day.
type Income struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Source      Source          `json:"source"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}
