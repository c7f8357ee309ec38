package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

// IncomeService handles income business logic.
type IncomeService struct {
	incomes IncomeStore
	metrics metrics.Recorder
	now     Clock
}

// NewIncomeService creates a new IncomeService.
func NewIncomeService(incomes IncomeStore, recorder metrics.Recorder) *IncomeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &IncomeService{incomes: incomes, metrics: recorder, now: time.Now}
}

// WithClock overrides the time source.
func (s *IncomeService) WithClock(now Clock) *IncomeService {
	s.now = now
	return s
}

// IncomeInput is the raw body of a create or update. An empty date means today.
type IncomeInput struct {
	Amount      string
	Description string
	Source      string
	Date        string
}

// IncomeQuery is the raw query string of a list request.
type IncomeQuery struct {
	StartDate string
	EndDate   string
	Limit     string
}

// List returns the user's income, newest first.
func (s *IncomeService) List(ctx context.Context, userID string, q IncomeQuery) ([]*model.Income, error) {
	var v ValidationError
	filter := repository.IncomeFilter{
		UserID: userID,
		From:   optionalDate(&v, "startDate", q.StartDate),
		To:     optionalDate(&v, "endDate", q.EndDate),
		Limit:  parseLimit(&v, q.Limit),
	}
	checkRange(&v, filter.From, filter.To)
	if err := v.Err(); err != nil {
		return nil, err
	}

	incomes, err := s.incomes.ListIncome(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	return incomes, nil
}

// Create records new income owned by userID.
func (s *IncomeService) Create(ctx context.Context, userID string, input IncomeInput) (*model.Income, error) {
	in, err := s.build(input)
	if err != nil {
		return nil, err
	}
	in.ID = ulid.Make().String()
	in.UserID = userID
	in.CreatedAt = s.now().UTC()

	if err := s.incomes.CreateIncome(ctx, in); err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}
	s.metrics.IncIncomeCreated()
	return in, nil
}

// Update replaces the fields of an income record owned by userID.
func (s *IncomeService) Update(ctx context.Context, userID, id string, input IncomeInput) (*model.Income, error) {
	in, err := s.build(input)
	if err != nil {
		return nil, err
	}
	in.ID = id
	in.UserID = userID

	if err := s.incomes.UpdateIncome(ctx, in); err != nil {
		if errors.Is(err, repository.ErrIncomeNotFound) {
			return nil, ErrIncomeNotFound
		}
		return nil, fmt.Errorf("failed to update income: %w", err)
	}
	s.metrics.IncIncomeUpdated()
	return in, nil
}

// Delete removes an income record owned by userID.
func (s *IncomeService) Delete(ctx context.Context, userID, id string) error {
	if err := s.incomes.DeleteIncome(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrIncomeNotFound) {
			return ErrIncomeNotFound
		}
		return fmt.Errorf("failed to delete income: %w", err)
	}
	s.metrics.IncIncomeDeleted()
	return nil
}

func (s *IncomeService) build(input IncomeInput) (*model.Income, error) {
	var v ValidationError
	in := &model.Income{
		Amount:      parseAmount(&v, "amount", input.Amount),
		Description: parseDescription(&v, input.Description),
		Source:      parseSource(&v, "source", input.Source),
	}
	if date := optionalDate(&v, "date", input.Date); date != nil {
		in.Date = *date
	} else {
		in.Date = s.now.today()
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return in, nil
}
