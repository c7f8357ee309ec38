package handler

import (
	"context"
	"net/http"
	"testing"
)

func TestExpenseHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/expenses", "user-1",
		`{"amount": 45.99, "description": "Grocery shopping", "category": "Food", "date": "2024-12-15", "user_id": "someone-else"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	if created["amount"] != 45.99 {
		t.Fatalf("create: expected numeric amount 45.99, got %v", created["amount"])
	}
	if created["date"] != "2024-12-15" {
		t.Fatalf("create: expected date 2024-12-15, got %v", created["date"])
	}
	id, _ := created["id"].(string)

	stored, err := env.store.GetExpense(context.Background(), "user-1", id)
	if err != nil {
		t.Fatalf("client-supplied owner must be ignored: %v", err)
	}
	if stored.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %s", stored.UserID)
	}

	for _, body := range []string{
		`{"amount": "25.00", "category": "Transportation", "date": "2024-12-14"}`,
		`{"amount": 15.5, "category": "food", "date": "2024-12-13"}`,
	} {
		if rec := env.do(t, http.MethodPost, "/expenses", "user-1", body); rec.Code != http.StatusCreated {
			t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = env.do(t, http.MethodGet, "/expenses?category=Food&startDate=2024-12-01&endDate=2024-12-31", "user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	data, _ := decodeBody(t, rec)["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("list: expected 2 Food expenses, got %d", len(data))
	}

	rec = env.do(t, http.MethodGet, "/expenses", "user-2", "")
	if data, _ := decodeBody(t, rec)["data"].([]any); data == nil || len(data) != 0 {
		t.Fatalf("list: expected empty array for another user, got %v", data)
	}

	update := `{"amount": 50, "description": "Groceries", "category": "Food", "date": "2024-12-15"}`
	expectError(t, env.do(t, http.MethodPut, "/expenses/"+id, "user-2", update), http.StatusNotFound, "EXPENSE_NOT_FOUND")

	rec = env.do(t, http.MethodPut, "/expenses/"+id, "user-1", update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["amount"] != 50.0 {
		t.Fatal("update: expected amount 50")
	}

	expectError(t, env.do(t, http.MethodDelete, "/expenses/"+id, "user-2", ""), http.StatusNotFound, "EXPENSE_NOT_FOUND")
	if rec := env.do(t, http.MethodDelete, "/expenses/"+id, "user-1", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	expectError(t, env.do(t, http.MethodDelete, "/expenses/"+id, "user-1", ""), http.StatusNotFound, "EXPENSE_NOT_FOUND")
}

func TestExpenseHandler_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   string
		fields []string
	}{
		{"bad_amount", http.MethodPost, "/expenses", `{"amount": "lots", "category": "Food"}`, "VALIDATION_FAILED", []string{"amount"}},
		{"bad_category", http.MethodPost, "/expenses", `{"amount": 1, "category": "Travel"}`, "VALIDATION_FAILED", []string{"category"}},
		{"bad_date", http.MethodPost, "/expenses", `{"amount": 1, "category": "Food", "date": "tomorrow"}`, "VALIDATION_FAILED", []string{"date"}},
		{"huge_exponent_number", http.MethodPost, "/expenses", `{"amount": 1e200000000, "category": "Food"}`, "VALIDATION_FAILED", []string{"amount"}},
		{"huge_exponent_string", http.MethodPut, "/expenses/01HXMISSING", `{"amount": "1e-200000000", "category": "Food"}`, "VALIDATION_FAILED", []string{"amount"}},
		{"amount_wrong_type", http.MethodPost, "/expenses", `{"amount": true, "category": "Food"}`, "INVALID_JSON", nil},
		{"bad_filter", http.MethodGet, "/expenses?limit=0&startDate=x", "", "VALIDATION_FAILED", []string{"limit", "startDate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := expectError(t, env.do(t, tt.method, tt.path, "user-1", tt.body), http.StatusBadRequest, tt.code)
			fields, _ := body["fields"].(map[string]any)
			for _, f := range tt.fields {
				if _, ok := fields[f]; !ok {
					t.Fatalf("expected field error for %s, got %v", f, body["fields"])
				}
			}
		})
	}
}
