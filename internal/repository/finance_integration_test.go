//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/testutil"
)

// ============================================================================
// Finance Repository Integration Tests
// ============================================================================

func TestIntegrationMigrate_AppliesEmbeddedMigrations(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)

	if _, err := repo.Pool().Exec(ctx, `DROP TABLE IF EXISTS budgets, income, expenses, users, schema_migrations CASCADE`); err != nil {
		t.Fatalf("drop tables: %v", err)
	}

	dbURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")
	if err := repository.Migrate(dbURL); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := repository.Migrate(dbURL); err != nil {
		t.Fatalf("second Migrate should be a no-op: %v", err)
	}

	cols, err := tableColumns(ctx, repo.Pool(), "budgets")
	if err != nil || len(cols) == 0 {
		t.Fatalf("budgets table missing after Migrate (err=%v)", err)
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)

	user := testutil.NewTestUser(t, "dup@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	again := testutil.NewTestUser(t, "dup@example.com")
	if err := repo.CreateUser(ctx, again); !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("expected repository.ErrEmailExists, got %v", err)
	}

	got, err := repo.GetUserByEmail(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != user.PasswordHash {
		t.Errorf("unexpected user %+v", got)
	}

	if _, err := repo.GetUserByID(ctx, "missing"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected repository.ErrUserNotFound, got %v", err)
	}
}

func TestIntegrationExpenseRepository_FilterAndOrder(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)
	owner := createUser(ctx, t, repo)
	other := createUser(ctx, t, repo)

	expenses := []*model.Expense{
		testutil.NewTestExpense(t, owner, "45.99", model.CategoryFood, testutil.Day(2024, 12, 15)),
		testutil.NewTestExpense(t, owner, "25.00", model.CategoryTransportation, testutil.Day(2024, 12, 14)),
		testutil.NewTestExpense(t, owner, "15.50", model.CategoryFood, testutil.Day(2024, 12, 13)),
		testutil.NewTestExpense(t, owner, "199.99", model.CategoryShopping, testutil.Day(2024, 11, 28)),
		testutil.NewTestExpense(t, other, "999.00", model.CategoryFood, testutil.Day(2024, 12, 15)),
	}
	for _, e := range expenses {
		if err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	all, err := repo.ListExpenses(ctx, repository.ExpenseFilter{UserID: owner})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 owned expenses, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.After(all[i-1].Date) {
			t.Errorf("expenses not ordered by date desc at %d", i)
		}
	}

	from := testutil.Day(2024, 12, 1)
	to := testutil.Day(2024, 12, 14)
	filtered, err := repo.ListExpenses(ctx, repository.ExpenseFilter{
		UserID:     owner,
		Categories: []model.Category{model.CategoryFood, model.CategoryTransportation},
		From:       &from,
		To:         &to,
	})
	if err != nil {
		t.Fatalf("ListExpenses filtered failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 filtered expenses, got %d", len(filtered))
	}

	limited, err := repo.ListExpenses(ctx, repository.ExpenseFilter{UserID: owner, Limit: 1})
	if err != nil {
		t.Fatalf("ListExpenses limited failed: %v", err)
	}
	if len(limited) != 1 || !limited[0].Amount.Equal(testutil.Amount("45.99")) {
		t.Errorf("unexpected limited result %+v", limited)
	}
}

func TestIntegrationExpenseRepository_Aggregates(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)
	owner := createUser(ctx, t, repo)

	for _, e := range []*model.Expense{
		testutil.NewTestExpense(t, owner, "45.99", model.CategoryFood, testutil.Day(2024, 12, 15)),
		testutil.NewTestExpense(t, owner, "15.50", model.CategoryFood, testutil.Day(2024, 12, 1)),
		testutil.NewTestExpense(t, owner, "25.00", model.CategoryTransportation, testutil.Day(2024, 12, 31)),
		testutil.NewTestExpense(t, owner, "42.30", model.CategoryTransportation, testutil.Day(2024, 11, 30)),
	} {
		if err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	dec := report.Month{Year: 2024, Month: time.December}
	from, to := dec.Start(), dec.End()

	sum, err := repo.SumExpenses(ctx, repository.ExpenseFilter{UserID: owner, From: &from, To: &to})
	if err != nil {
		t.Fatalf("SumExpenses failed: %v", err)
	}
	if !sum.Equal(testutil.Amount("86.49")) {
		t.Errorf("December sum = %s, want 86.49", sum)
	}

	totals, err := repo.SumExpensesByCategory(ctx, repository.ExpenseFilter{UserID: owner, From: &from, To: &to})
	if err != nil {
		t.Fatalf("SumExpensesByCategory failed: %v", err)
	}
	if !totals[model.CategoryFood].Equal(testutil.Amount("61.49")) {
		t.Errorf("Food = %s, want 61.49", totals[model.CategoryFood])
	}

	first, last := report.TrendWindow(dec, 6)
	start, end := first.Start(), last.End()
	months, err := repo.SumExpensesByMonth(ctx, repository.ExpenseFilter{UserID: owner, From: &start, To: &end})
	if err != nil {
		t.Fatalf("SumExpensesByMonth failed: %v", err)
	}
	if got := months[report.Month{Year: 2024, Month: time.November}]; !got.Equal(testutil.Amount("42.30")) {
		t.Errorf("November = %s, want 42.30", got)
	}
	if got := months[dec]; !got.Equal(testutil.Amount("86.49")) {
		t.Errorf("December = %s, want 86.49", got)
	}

	empty, err := repo.SumExpenses(ctx, repository.ExpenseFilter{UserID: "nobody"})
	if err != nil {
		t.Fatalf("SumExpenses empty failed: %v", err)
	}
	if !empty.IsZero() {
		t.Errorf("expected zero sum, got %s", empty)
	}
}

func TestIntegrationExpenseRepository_OwnerScopedMutations(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)
	owner := createUser(ctx, t, repo)
	intruder := createUser(ctx, t, repo)

	e := testutil.NewTestExpense(t, owner, "10.00", model.CategoryOther, testutil.Day(2024, 12, 1))
	if err := repo.CreateExpense(ctx, e); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	foreign := *e
	foreign.UserID = intruder
	foreign.Amount = testutil.Amount("1.00")
	if err := repo.UpdateExpense(ctx, &foreign); !errors.Is(err, repository.ErrExpenseNotFound) {
		t.Errorf("foreign update: expected repository.ErrExpenseNotFound, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, intruder, e.ID); !errors.Is(err, repository.ErrExpenseNotFound) {
		t.Errorf("foreign delete: expected repository.ErrExpenseNotFound, got %v", err)
	}

	e.Amount = testutil.Amount("12.34")
	if err := repo.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	got, err := repo.GetExpense(ctx, owner, e.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if !got.Amount.Equal(testutil.Amount("12.34")) {
		t.Errorf("Amount = %s, want 12.34", got.Amount)
	}

	if err := repo.DeleteExpense(ctx, owner, e.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if _, err := repo.GetExpense(ctx, owner, e.ID); !errors.Is(err, repository.ErrExpenseNotFound) {
		t.Errorf("expected repository.ErrExpenseNotFound after delete, got %v", err)
	}
}

func TestIntegrationIncomeRepository_CRUD(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)
	owner := createUser(ctx, t, repo)

	salary := testutil.NewTestIncome(t, owner, "4500.00", model.SourceJob, testutil.Day(2024, 12, 1))
	gig := testutil.NewTestIncome(t, owner, "500.00", model.SourceFreelance, testutil.Day(2024, 11, 15))
	for _, in := range []*model.Income{salary, gig} {
		if err := repo.CreateIncome(ctx, in); err != nil {
			t.Fatalf("CreateIncome failed: %v", err)
		}
	}

	list, err := repo.ListIncome(ctx, repository.IncomeFilter{UserID: owner})
	if err != nil {
		t.Fatalf("ListIncome failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != salary.ID {
		t.Fatalf("unexpected income list %+v", list)
	}

	sum, err := repo.SumIncome(ctx, repository.IncomeFilter{UserID: owner})
	if err != nil {
		t.Fatalf("SumIncome failed: %v", err)
	}
	if !sum.Equal(testutil.Amount("5000")) {
		t.Errorf("SumIncome = %s, want 5000", sum)
	}

	gig.Amount = testutil.Amount("750.00")
	if err := repo.UpdateIncome(ctx, gig); err != nil {
		t.Fatalf("UpdateIncome failed: %v", err)
	}
	if err := repo.DeleteIncome(ctx, "someone-else", salary.ID); !errors.Is(err, repository.ErrIncomeNotFound) {
		t.Errorf("expected repository.ErrIncomeNotFound, got %v", err)
	}
	if err := repo.DeleteIncome(ctx, owner, salary.ID); err != nil {
		t.Fatalf("DeleteIncome failed: %v", err)
	}

	sum, err = repo.SumIncome(ctx, repository.IncomeFilter{UserID: owner})
	if err != nil {
		t.Fatalf("SumIncome failed: %v", err)
	}
	if !sum.Equal(testutil.Amount("750")) {
		t.Errorf("SumIncome after changes = %s, want 750", sum)
	}
}

func TestIntegrationBudgetRepository_Upsert(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)
	owner := createUser(ctx, t, repo)

	first := testutil.NewTestBudget(t, owner, model.CategoryFood, "500", 12, 2024)
	if err := repo.UpsertBudget(ctx, first); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}

	second := testutil.NewTestBudget(t, owner, model.CategoryFood, "650", 12, 2024)
	if err := repo.UpsertBudget(ctx, second); err != nil {
		t.Fatalf("second UpsertBudget failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert should keep the original id %s, got %s", first.ID, second.ID)
	}

	budgets, err := repo.ListBudgets(ctx, owner, 12, 2024)
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected exactly one budget, got %d", len(budgets))
	}
	if !budgets[0].Limit.Equal(testutil.Amount("650")) {
		t.Errorf("Limit = %s, want 650", budgets[0].Limit)
	}

	found, err := repo.GetBudgetFor(ctx, owner, model.CategoryFood, 12, 2024)
	if err != nil {
		t.Fatalf("GetBudgetFor failed: %v", err)
	}
	if found.ID != first.ID {
		t.Errorf("GetBudgetFor returned %s", found.ID)
	}

	if err := repo.DeleteBudget(ctx, owner, first.ID); err != nil {
		t.Fatalf("DeleteBudget failed: %v", err)
	}
	if _, err := repo.GetBudgetFor(ctx, owner, model.CategoryFood, 12, 2024); !errors.Is(err, repository.ErrBudgetNotFound) {
		t.Errorf("expected repository.ErrBudgetNotFound, got %v", err)
	}
}

func TestIntegrationCreateAccount(t *testing.T) {
	ctx, repo := newRepositoryTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("account"))
	expenses := []*model.Expense{
		testutil.NewTestExpense(t, user.ID, "45.99", model.CategoryFood, testutil.Day(2024, 12, 15)),
		testutil.NewTestExpense(t, user.ID, "25.00", model.CategoryTransportation, testutil.Day(2024, 12, 14)),
	}
	incomes := []*model.Income{
		testutil.NewTestIncome(t, user.ID, "4500.00", model.SourceJob, testutil.Day(2024, 12, 1)),
	}
	budgets := []*model.Budget{
		testutil.NewTestBudget(t, user.ID, model.CategoryFood, "500", 12, 2024),
	}

	if err := repo.CreateAccount(ctx, user, expenses, incomes, budgets); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	list, err := repo.ListExpenses(ctx, repository.ExpenseFilter{UserID: user.ID})
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 seeded expenses, got %d (err=%v)", len(list), err)
	}

	// The same email again fails on the first statement and rolls back the rest.
	dup := testutil.NewTestUser(t, user.Email)
	extra := []*model.Budget{testutil.NewTestBudget(t, dup.ID, model.CategoryShopping, "400", 12, 2024)}
	if err := repo.CreateAccount(ctx, dup, nil, nil, extra); !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// A failing later statement rolls back the user row as well.
	orphan := testutil.NewTestUser(t, testutil.UniqueEmail("orphan"))
	bad := []*model.Budget{testutil.NewTestBudget(t, "missing-user", model.CategoryFood, "1", 12, 2024)}
	if err := repo.CreateAccount(ctx, orphan, nil, nil, bad); err == nil {
		t.Fatal("expected foreign key failure")
	}
	if _, err := repo.GetUserByEmail(ctx, orphan.Email); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("partial account should have been rolled back, got %v", err)
	}
}

func createUser(ctx context.Context, t *testing.T, repo *repository.Repository) string {
	t.Helper()
	user := testutil.NewTestUser(t, testutil.UniqueEmail("repo"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user.ID
}
