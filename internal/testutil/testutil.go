package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// schemaVersions lists migrations in apply order.
var schemaVersions = []string{
	"000001_users",
	"000002_expenses",
	"000003_income",
	"000004_budgets",
}

// ResetSchema drops every table and re-applies the migrations from scratch.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	dir, err := MigrationsDir()
	if err != nil {
		return err
	}

	for i := len(schemaVersions) - 1; i >= 0; i-- {
		if err := applyFile(ctx, pool, filepath.Join(dir, schemaVersions[i]+".down.sql")); err != nil {
			return err
		}
	}
	for _, version := range schemaVersions {
		if err := applyFile(ctx, pool, filepath.Join(dir, version+".up.sql")); err != nil {
			return err
		}
	}

	return nil
}

func applyFile(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filepath.Base(path), err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filepath.Base(path), err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// MigrationsDir returns the directory holding the SQL migrations.
func MigrationsDir() (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "internal", "repository", "migrations"), nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// Day returns midnight UTC of the given calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Amount parses a decimal literal and panics on malformed input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           ulid.Make().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestExpense creates a test expense owned by userID.
func NewTestExpense(t testing.TB, userID, amount string, category model.Category, date time.Time) *model.Expense {
	t.Helper()
	return &model.Expense{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Amount:      Amount(amount),
		Description: "Test " + string(category),
		Category:    category,
		Date:        date,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestIncome creates a test income owned by userID.
func NewTestIncome(t testing.TB, userID, amount string, source model.Source, date time.Time) *model.Income {
	t.Helper()
	return &model.Income{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Amount:      Amount(amount),
		Description: "Test " + string(source),
		Source:      source,
		Date:        date,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestBudget creates a test budget owned by userID.
func NewTestBudget(t testing.TB, userID string, category model.Category, limit string, month, year int) *model.Budget {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Budget{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Category:  category,
		Limit:     Amount(limit),
		Month:     month,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
