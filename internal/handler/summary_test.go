package handler

import (
	"net/http"
	"testing"
)

func seedSummary(t *testing.T, env *testEnv) {
	t.Helper()
	for _, body := range []string{
		`{"amount": 45.99, "category": "Food", "date": "2024-12-15"}`,
		`{"amount": 15.50, "category": "Food", "date": "2024-12-13"}`,
		`{"amount": 25.00, "category": "Transportation", "date": "2024-12-14"}`,
		`{"amount": 199.99, "category": "Shopping", "date": "2024-11-28"}`,
	} {
		if rec := env.do(t, http.MethodPost, "/expenses", "user-1", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed expense: expected 201, got %d", rec.Code)
		}
	}
	if rec := env.do(t, http.MethodPost, "/income", "user-1", `{"amount": 4500, "source": "Job", "date": "2024-12-01"}`); rec.Code != http.StatusCreated {
		t.Fatalf("seed income: expected 201, got %d", rec.Code)
	}
}

func TestSummaryHandler_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	seedSummary(t, env)

	rec := env.do(t, http.MethodGet, "/dashboard", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)

	if body["total_balance"] != 4213.52 {
		t.Fatalf("expected total_balance 4213.52, got %v", body["total_balance"])
	}
	if body["monthly_expenses"] != 86.49 {
		t.Fatalf("expected monthly_expenses 86.49, got %v", body["monthly_expenses"])
	}
	if recent, _ := body["recent_transactions"].([]any); len(recent) != 4 {
		t.Fatalf("expected 4 recent transactions, got %d", len(recent))
	}

	shares, _ := body["spending_by_category"].([]any)
	if len(shares) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(shares))
	}
	top, _ := shares[0].(map[string]any)
	if top["category"] != "Food" || top["total"] != 61.49 || top["percentage"] != 71.09 {
		t.Fatalf("unexpected top share %v", top)
	}

	trend, _ := body["monthly_trend"].([]any)
	if len(trend) != 6 {
		t.Fatalf("expected 6 trend points, got %d", len(trend))
	}
	first, _ := trend[0].(map[string]any)
	last, _ := trend[5].(map[string]any)
	if first["month"] != "Jul 2024" || first["amount"] != 0.0 {
		t.Fatalf("unexpected first trend point %v", first)
	}
	if last["month"] != "Dec 2024" || last["amount"] != 86.49 {
		t.Fatalf("unexpected last trend point %v", last)
	}
}

func TestSummaryHandler_Report(t *testing.T) {
	env := newTestEnv(t)
	seedSummary(t, env)

	rec := env.do(t, http.MethodGet, "/reports?days=7", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["start_date"] != "2024-12-13" || body["end_date"] != "2024-12-20" {
		t.Fatalf("unexpected window %v..%v", body["start_date"], body["end_date"])
	}

	health, _ := body["financial_health"].(map[string]any)
	if health["status"] != "no_income" {
		t.Fatalf("expected no_income, got %v", health["status"])
	}
	if ratio, present := health["spending_ratio"]; !present || ratio != nil {
		t.Fatalf("expected spending_ratio null, got %v", ratio)
	}

	expectError(t, env.do(t, http.MethodGet, "/reports?days=10", "user-1", ""), http.StatusBadRequest, "VALIDATION_FAILED")
}
