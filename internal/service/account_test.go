package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/testutil"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type accountFixture struct {
	store    *testutil.MemStore
	sessions *testutil.MemSessions
	recorder *metrics.InMemoryRecorder
	svc      *AccountService
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(testSecret, "fintrack-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	store := testutil.NewMemStore()
	sessions := testutil.NewMemSessions()
	recorder := metrics.NewInMemory()
	return &accountFixture{
		store:    store,
		sessions: sessions,
		recorder: recorder,
		svc:      NewAccountService(store, sessions, issuer, recorder).WithClock(fixedClock),
	}
}

func TestSignup_SeedsSampleData(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	ctx := context.Background()

	user, err := f.svc.Signup(ctx, SignupInput{Name: "Alice", Email: "Alice@Example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lower-cased email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct horse" {
		t.Fatal("password must be stored hashed")
	}

	expenses, incomes, budgets := f.store.Counts(user.ID)
	if expenses != 10 || incomes != 3 || budgets != 6 {
		t.Fatalf("expected 10/3/6 sample records, got %d/%d/%d", expenses, incomes, budgets)
	}

	stored, err := f.store.ListBudgets(ctx, user.ID, 12, 2024)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(stored) != 6 {
		t.Fatalf("expected budgets for the signup month, got %d", len(stored))
	}

	total, err := f.store.SumExpenses(ctx, repository.ExpenseFilter{UserID: user.ID})
	if err != nil {
		t.Fatalf("SumExpenses: %v", err)
	}
	if want := testutil.Amount("727.26"); !total.Equal(want) {
		t.Fatalf("expected sample expenses to sum to %s, got %s", want, total)
	}

	if got := f.recorder.Snapshot().Signups; got != 1 {
		t.Fatalf("expected 1 signup, got %d", got)
	}
}

func TestSignup_WithoutSampleData(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	f.svc.WithSampleData(false)

	user, err := f.svc.Signup(context.Background(), SignupInput{Email: "bob@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Name != "bob" {
		t.Fatalf("expected name to default to the local part, got %q", user.Name)
	}
	expenses, incomes, budgets := f.store.Counts(user.ID)
	if expenses+incomes+budgets != 0 {
		t.Fatalf("expected no sample data, got %d/%d/%d", expenses, incomes, budgets)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Signup(ctx, SignupInput{Email: "dup@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := f.svc.Signup(ctx, SignupInput{Email: "DUP@example.com", Password: "password2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)

	tests := []struct {
		name   string
		input  SignupInput
		fields []string
	}{
		{"missing_everything", SignupInput{}, []string{"email", "password"}},
		{"bad_email", SignupInput{Email: "nope", Password: "password1"}, []string{"email"}},
		{"short_password", SignupInput{Email: "a@example.com", Password: "short"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Signup(context.Background(), tt.input)
			requireValidation(t, err, tt.fields...)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	ctx := context.Background()

	user, err := f.svc.Signup(ctx, SignupInput{Email: "carol@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	session, err := f.svc.Login(ctx, " Carol@example.com ", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.User.ID != user.ID || session.Token.Value == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	if _, err := f.svc.Login(ctx, "carol@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	_, err = f.svc.Login(ctx, "", "")
	requireValidation(t, err, "email", "password")

	snap := f.recorder.Snapshot()
	if snap.LoginSuccess != 1 || snap.LoginFailure != 2 {
		t.Fatalf("expected 1 success and 2 failures, got %d/%d", snap.LoginSuccess, snap.LoginFailure)
	}
}

func TestAuthenticateAndLogout(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Signup(ctx, SignupInput{Email: "dave@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	session, err := f.svc.Login(ctx, "dave@example.com", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	identity, err := f.svc.Authenticate(ctx, session.Token.Value)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.UserID != session.User.ID || identity.SessionID != session.Token.SessionID {
		t.Fatalf("unexpected identity %+v", identity)
	}

	if err := f.svc.Logout(ctx, identity); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if ttl, ok := f.sessions.RevokedTTL(identity.SessionID); !ok || ttl <= 0 {
		t.Fatalf("expected session revoked with positive ttl, got %v %v", ttl, ok)
	}

	if _, err := f.svc.Authenticate(ctx, session.Token.Value); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("revoked token: expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token: expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthenticate_SessionStoreError(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Signup(ctx, SignupInput{Email: "erin@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	session, err := f.svc.Login(ctx, "erin@example.com", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	f.sessions.Err = errors.New("redis down")
	_, err = f.svc.Authenticate(ctx, session.Token.Value)
	if err == nil || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestMe(t *testing.T) {
	t.Parallel()
	f := newAccountFixture(t)
	ctx := context.Background()

	user, err := f.svc.Signup(ctx, SignupInput{Name: "Frank", Email: "frank@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	got, err := f.svc.Me(ctx, user.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if got.Name != "Frank" {
		t.Fatalf("expected Frank, got %q", got.Name)
	}

	if _, err := f.svc.Me(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSampleRecords(t *testing.T) {
	t.Parallel()

	expenses, incomes, budgets := sampleRecords("user-1", fixedNow)

	totals := make(map[model.Category]string)
	for _, e := range expenses {
		if e.UserID != "user-1" || e.ID == "" {
			t.Fatalf("sample expense not owned: %+v", e)
		}
		totals[e.Category] = e.Amount.Add(testutil.Amount(orZero(totals[e.Category]))).StringFixed(2)
	}
	if totals[model.CategoryFood] != "128.99" {
		t.Fatalf("expected Food total 128.99, got %s", totals[model.CategoryFood])
	}

	income := testutil.Amount("0")
	for _, in := range incomes {
		income = income.Add(in.Amount)
	}
	if !income.Equal(testutil.Amount("9500")) {
		t.Fatalf("expected income 9500, got %s", income)
	}

	for _, b := range budgets {
		if b.Month != 12 || b.Year != 2024 {
			t.Fatalf("expected budget for 12/2024, got %d/%d", b.Month, b.Year)
		}
	}
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
