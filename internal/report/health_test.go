package report

import (
	"encoding/json"
	"testing"
)

func TestFinancialHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		income      string
		expenses    string
		wantNet     string
		wantRatio   float64
		wantDefined bool
		wantStatus  HealthStatus
	}{
		{"saving", "5000", "727.26", "4272.74", 14.55, true, StatusHealthy},
		{"moderate", "1000", "750", "250", 75, true, StatusModerate},
		{"at risk", "1000", "950", "50", 95, true, StatusAtRisk},
		{"break even", "1000", "1000", "0", 100, true, StatusAtRisk},
		{"overspending", "1000", "1200.50", "-200.50", 120.05, true, StatusOverspending},
		{"no income", "0", "86.49", "-86.49", 0, false, StatusNoIncome},
		{"nothing at all", "0", "0", "0", 0, false, StatusNoIncome},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := FinancialHealth(dec(tt.income), dec(tt.expenses))

			if !h.NetIncome.Equal(dec(tt.wantNet)) {
				t.Errorf("NetIncome = %s, want %s", h.NetIncome, tt.wantNet)
			}
			if h.SpendingRatio.Defined != tt.wantDefined {
				t.Fatalf("SpendingRatio.Defined = %v, want %v", h.SpendingRatio.Defined, tt.wantDefined)
			}
			if tt.wantDefined && h.SpendingRatio.Value != tt.wantRatio {
				t.Errorf("SpendingRatio = %v, want %v", h.SpendingRatio.Value, tt.wantRatio)
			}
			if h.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", h.Status, tt.wantStatus)
			}
			if h.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestFinancialHealth_NoIncomeHasDistinctMessage(t *testing.T) {
	t.Parallel()

	noIncome := FinancialHealth(dec("0"), dec("10"))
	over := FinancialHealth(dec("5"), dec("10"))

	if noIncome.Message == over.Message {
		t.Errorf("no-income message should differ from overspending, both %q", over.Message)
	}
}

func TestRatio_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}{A: Percent(dec("1"), dec("4")), B: Percent(dec("1"), dec("0"))})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":25,"b":null}` {
		t.Errorf("unexpected JSON %s", data)
	}

	var out struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.A.Defined || out.A.Value != 25 || out.B.Defined {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestRatio_String(t *testing.T) {
	t.Parallel()

	if got := Percent(dec("2"), dec("3")).String(); got != "66.7%" {
		t.Errorf("String() = %q, want 66.7%%", got)
	}
	if got := Undefined().String(); got != "n/a" {
		t.Errorf("String() = %q, want n/a", got)
	}
}
