package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMoney_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"45.99", "45.99"},
		{"25", "25.00"},
		{"15.5", "15.50"},
		{"-5", "-5.00"},
		{"0", "0.00"},
	}
	for _, tt := range tests {
		data, err := json.Marshal(Money(decimal.RequireFromString(tt.in)))
		if err != nil {
			t.Fatalf("marshal %s: %v", tt.in, err)
		}
		if string(data) != tt.want {
			t.Fatalf("marshal %s: expected %s, got %s", tt.in, tt.want, data)
		}
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    Number
		wantErr bool
	}{
		{"number", `{"amount": 45.99}`, "45.99", false},
		{"integer", `{"amount": 12}`, "12", false},
		{"string", `{"amount": "45.99"}`, "45.99", false},
		{"null", `{"amount": null}`, "", false},
		{"missing", `{}`, "", false},
		{"bool", `{"amount": true}`, "", true},
		{"object", `{"amount": {}}`, "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req struct {
				Amount Number `json:"amount"`
			}
			err := json.Unmarshal([]byte(tt.body), &req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && req.Amount != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, req.Amount)
			}
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Date(time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-12-15"` {
		t.Fatalf("expected \"2024-12-15\", got %s", data)
	}

	var d Date
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if time.Time(d).Day() != 15 {
		t.Fatalf("unexpected day %v", time.Time(d))
	}
}

func TestErrorResponse_OmitsEmptyFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ErrorResponse{Error: "Unauthorized", Code: "UNAUTHORIZED"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"error":"Unauthorized","code":"UNAUTHORIZED"}` {
		t.Fatalf("unexpected body %s", data)
	}
}
