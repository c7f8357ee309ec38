package notify

import (
	"context"
	"errors"
)

// Multi delivers every alert to each of its publishers in order. One
// failing publisher does not stop the others; errors are joined.
type Multi []Publisher

// NewMulti combines publishers. With a single publisher it returns that
// publisher; with none it returns Noop.
func NewMulti(publishers ...Publisher) Publisher {
	switch len(publishers) {
	case 0:
		return NewNoop()
	case 1:
		return publishers[0]
	}
	return Multi(publishers)
}

func (m Multi) PublishBudgetExceeded(ctx context.Context, alert BudgetExceeded) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishBudgetExceeded(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher in reverse order.
func (m Multi) Close() error {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
