// Package notify delivers budget alerts over AMQP or a signed HTTPS webhook.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

// EventBudgetExceeded is the type tag of BudgetExceeded messages.
const EventBudgetExceeded = "budget.exceeded"

// BudgetExceeded is emitted when spending in a category first goes over its
// monthly budget.
type BudgetExceeded struct {
	Type       string          `json:"type"`
	UserID     string          `json:"user_id"`
	Category   model.Category  `json:"category"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewBudgetExceeded builds the alert for a budget and the spend that broke it.
func NewBudgetExceeded(b *model.Budget, spent decimal.Decimal, at time.Time) BudgetExceeded {
	return BudgetExceeded{
		Type:       EventBudgetExceeded,
		UserID:     b.UserID,
		Category:   b.Category,
		Month:      b.Month,
		Year:       b.Year,
		Limit:      b.Limit,
		Spent:      spent,
		OccurredAt: at.UTC(),
	}
}

// ToJSON encodes the alert. Amounts are encoded as JSON strings so no
// precision is lost on the consumer side.
func (m BudgetExceeded) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Publisher delivers alerts.
type Publisher interface {
	PublishBudgetExceeded(ctx context.Context, alert BudgetExceeded) error
	Close() error
}

// Noop discards every alert. It is used when no broker is configured.
type Noop struct{}

// NewNoop returns a Publisher that does nothing.
func NewNoop() Noop { return Noop{} }

func (Noop) PublishBudgetExceeded(context.Context, BudgetExceeded) error { return nil }
func (Noop) Close() error                                              { return nil }
