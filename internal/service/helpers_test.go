package service

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/testutil"
)

// fixedNow is the clock every service test runs at.
var fixedNow = time.Date(2024, time.December, 20, 15, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type expenseFixture struct {
	store     *testutil.MemStore
	publisher *testutil.RecordingPublisher
	svc       *ExpenseService
}

func newExpenseFixture() *expenseFixture {
	store := testutil.NewMemStore()
	publisher := &testutil.RecordingPublisher{}
	svc := NewExpenseService(store, store, publisher, nil, discardLogger()).WithClock(fixedClock)
	return &expenseFixture{store: store, publisher: publisher, svc: svc}
}

func requireValidation(t *testing.T, err error, fields ...string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, f := range fields {
		if _, ok := verr.Fields[f]; !ok {
			t.Fatalf("expected error for field %q, got %v", f, verr.Fields)
		}
	}
}
