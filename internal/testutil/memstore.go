package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/repository"
)

// MemStore is an in-memory stand-in for repository.Repository. It honours the
// same ownership scoping, ordering and sentinel errors.
type MemStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	expenses map[string]*model.Expense
	incomes  map[string]*model.Income
	budgets  map[string]*model.Budget

	// Err, when set, is returned by every method.
	Err error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[string]*model.User),
		expenses: make(map[string]*model.Expense),
		incomes:  make(map[string]*model.Income),
		budgets:  make(map[string]*model.Budget),
	}
}

// Ping implements a readiness check.
func (s *MemStore) Ping(ctx context.Context) error {
	return s.Err
}

// ---- users ----

func (s *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *MemStore) CreateAccount(ctx context.Context, user *model.User, expenses []*model.Expense, incomes []*model.Income, budgets []*model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	for _, e := range expenses {
		cp := *e
		s.expenses[e.ID] = &cp
	}
	for _, in := range incomes {
		cp := *in
		s.incomes[in.ID] = &cp
	}
	for _, b := range budgets {
		cp := *b
		s.budgets[b.ID] = &cp
	}
	return nil
}

// ---- expenses ----

func (s *MemStore) CreateExpense(ctx context.Context, e *model.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *e
	s.expenses[e.ID] = &cp
	return nil
}

func (s *MemStore) GetExpense(ctx context.Context, userID, id string) (*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrExpenseNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemStore) ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	matched := s.matchExpenses(filter)
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].Date, matched[j].Date, matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *MemStore) UpdateExpense(ctx context.Context, e *model.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.expenses[e.ID]
	if !ok || existing.UserID != e.UserID {
		return repository.ErrExpenseNotFound
	}
	existing.Amount = e.Amount
	existing.Description = e.Description
	existing.Category = e.Category
	existing.Date = e.Date
	e.CreatedAt = existing.CreatedAt
	return nil
}

func (s *MemStore) DeleteExpense(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return repository.ErrExpenseNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *MemStore) SumExpenses(ctx context.Context, filter repository.ExpenseFilter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	return report.SumExpenses(deref(s.matchExpenses(filter))), nil
}

func (s *MemStore) SumExpensesByCategory(ctx context.Context, filter repository.ExpenseFilter) (report.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return report.SumByCategory(deref(s.matchExpenses(filter))), nil
}

func (s *MemStore) SumExpensesByMonth(ctx context.Context, filter repository.ExpenseFilter) (map[report.Month]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return report.SumByMonth(deref(s.matchExpenses(filter))), nil
}

func (s *MemStore) matchExpenses(f repository.ExpenseFilter) []*model.Expense {
	matched := []*model.Expense{}
	for _, e := range s.expenses {
		if e.UserID != f.UserID || !inRange(e.Date, f.From, f.To) {
			continue
		}
		if len(f.Categories) > 0 && !containsCategory(f.Categories, e.Category) {
			continue
		}
		cp := *e
		matched = append(matched, &cp)
	}
	return matched
}

// ---- income ----

func (s *MemStore) CreateIncome(ctx context.Context, in *model.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *in
	s.incomes[in.ID] = &cp
	return nil
}

func (s *MemStore) ListIncome(ctx context.Context, filter repository.IncomeFilter) ([]*model.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	matched := s.matchIncome(filter)
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].Date, matched[j].Date, matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *MemStore) UpdateIncome(ctx context.Context, in *model.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.incomes[in.ID]
	if !ok || existing.UserID != in.UserID {
		return repository.ErrIncomeNotFound
	}
	existing.Amount = in.Amount
	existing.Description = in.Description
	existing.Source = in.Source
	existing.Date = in.Date
	in.CreatedAt = existing.CreatedAt
	return nil
}

func (s *MemStore) DeleteIncome(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	in, ok := s.incomes[id]
	if !ok || in.UserID != userID {
		return repository.ErrIncomeNotFound
	}
	delete(s.incomes, id)
	return nil
}

func (s *MemStore) SumIncome(ctx context.Context, filter repository.IncomeFilter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	sum := decimal.Zero
	for _, in := range s.matchIncome(filter) {
		sum = sum.Add(in.Amount)
	}
	return sum, nil
}

func (s *MemStore) matchIncome(f repository.IncomeFilter) []*model.Income {
	matched := []*model.Income{}
	for _, in := range s.incomes {
		if in.UserID != f.UserID || !inRange(in.Date, f.From, f.To) {
			continue
		}
		cp := *in
		matched = append(matched, &cp)
	}
	return matched
}

// ---- budgets ----

func (s *MemStore) UpsertBudget(ctx context.Context, b *model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.budgets {
		if existing.UserID == b.UserID && existing.Category == b.Category &&
			existing.Month == b.Month && existing.Year == b.Year {
			existing.Limit = b.Limit
			existing.UpdatedAt = b.CreatedAt
			*b = *existing
			return nil
		}
	}
	b.UpdatedAt = b.CreatedAt
	cp := *b
	s.budgets[b.ID] = &cp
	return nil
}

func (s *MemStore) GetBudgetFor(ctx context.Context, userID string, category model.Category, month, year int) (*model.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, b := range s.budgets {
		if b.UserID == userID && b.Category == category && b.Month == month && b.Year == year {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrBudgetNotFound
}

func (s *MemStore) ListBudgets(ctx context.Context, userID string, month, year int) ([]*model.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	budgets := []*model.Budget{}
	for _, b := range s.budgets {
		if b.UserID == userID && b.Month == month && b.Year == year {
			cp := *b
			budgets = append(budgets, &cp)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].Category < budgets[j].Category })
	return budgets, nil
}

func (s *MemStore) DeleteBudget(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return repository.ErrBudgetNotFound
	}
	delete(s.budgets, id)
	return nil
}

// Counts reports how many records userID owns.
func (s *MemStore) Counts(userID string) (expenses, incomes, budgets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.UserID == userID {
			expenses++
		}
	}
	for _, in := range s.incomes {
		if in.UserID == userID {
			incomes++
		}
	}
	for _, b := range s.budgets {
		if b.UserID == userID {
			budgets++
		}
	}
	return expenses, incomes, budgets
}

func inRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func containsCategory(categories []model.Category, c model.Category) bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}

func newerFirst(dateA, dateB, createdA, createdB time.Time, idA, idB string) bool {
	if !dateA.Equal(dateB) {
		return dateA.After(dateB)
	}
	if !createdA.Equal(createdB) {
		return createdA.After(createdB)
	}
	return idA > idB
}

func deref(expenses []*model.Expense) []model.Expense {
	out := make([]model.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = *e
	}
	return out
}
