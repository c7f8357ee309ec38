package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"integer", "45", "45", false},
		{"two_decimals", "45.99", "45.99", false},
		{"trailing_zero", "25.00", "25", false},
		{"padded", " 12.5 ", "12.5", false},
		{"empty", "", "", true},
		{"zero", "0", "", true},
		{"negative", "-3.00", "", true},
		{"three_decimals", "1.005", "", true},
		{"not_a_number", "abc", "", true},
		{"too_large", "10000000000", "", true},
		{"huge_exponent", "1e200000000", "", true},
		{"tiny_exponent", "1e-200000000", "", true},
		{"exponent_in_range", "4.599e1", "45.99", false},
		{"scientific", "4599e-2", "45.99", false},
		{"long_input", strings.Repeat("9", 40), "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v ValidationError
			got := parseAmount(&v, "amount", tt.raw)
			if tt.wantErr {
				if v.Err() == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				if _, ok := v.Fields["amount"]; !ok {
					t.Fatalf("expected amount field error, got %v", v.Fields)
				}
				return
			}
			if err := v.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseAmount_ExtremeExponents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"1e200000000", "is too large"},
		{"1e-200000000", "must have at most two decimal places"},
		{"5e-11", "must have at most two decimal places"},
	}

	for _, tt := range tests {
		done := make(chan ValidationError, 1)
		go func() {
			var v ValidationError
			parseAmount(&v, "amount", tt.raw)
			done <- v
		}()

		select {
		case v := <-done:
			if got := v.Fields["amount"]; got != tt.want {
				t.Errorf("amount %q: expected %q, got %q", tt.raw, tt.want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("amount %q: parseAmount did not return within 1s", tt.raw)
		}
	}
}

func TestParseDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty", "", false},
		{"ascii_at_limit", strings.Repeat("a", maxDescriptionLength), false},
		{"multibyte_at_limit", strings.Repeat("é", maxDescriptionLength), false},
		{"multibyte_over_limit", strings.Repeat("日", maxDescriptionLength+1), true},
		{"trimmed", "  Coffee  ", false},
	}

	for _, tt := range tests {
		var v ValidationError
		got := parseDescription(&v, tt.raw)
		if (v.Err() != nil) != tt.wantErr {
			t.Fatalf("%s: expected error=%v, got %v", tt.name, tt.wantErr, v.Err())
		}
		if got != strings.TrimSpace(tt.raw) {
			t.Fatalf("%s: expected trimmed description, got %q", tt.name, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"date", "2024-12-15", true},
		{"rfc3339", "2024-12-15T18:30:00Z", true},
		{"rfc3339_offset", "2024-12-15T08:30:00+02:00", true},
		{"slashes", "2024/12/15", false},
		{"impossible_day", "2024-02-30", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseDate(tt.raw)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !got.Equal(want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestParseCategoryFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []model.Category
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"all", "All", nil, false},
		{"all_lowercase", "all", nil, false},
		{"single", "food", []model.Category{model.CategoryFood}, false},
		{"list", "Food, Utilities", []model.Category{model.CategoryFood, model.CategoryUtilities}, false},
		{"duplicates", "Food,food", []model.Category{model.CategoryFood}, false},
		{"list_with_all", "Food,All", nil, false},
		{"unknown", "Food,Travel", nil, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v ValidationError
			got := parseCategoryFilter(&v, tt.raw)
			if tt.wantErr {
				if v.Err() == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err := v.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"1", 1, false},
		{"1000", 1000, false},
		{"0", 0, true},
		{"1001", 0, true},
		{"ten", 0, true},
	}

	for _, tt := range tests {
		var v ValidationError
		got := parseLimit(&v, tt.raw)
		if (v.Err() != nil) != tt.wantErr {
			t.Fatalf("limit %q: expected error=%v, got %v", tt.raw, tt.wantErr, v.Err())
		}
		if got != tt.want {
			t.Fatalf("limit %q: expected %d, got %d", tt.raw, tt.want, got)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"Alice@Example.com", "alice@example.com", false},
		{"  bob@example.com ", "bob@example.com", false},
		{"", "", true},
		{"not-an-email", "", true},
		{"Alice <alice@example.com>", "", true},
	}

	for _, tt := range tests {
		var v ValidationError
		got := normalizeEmail(&v, tt.raw)
		if (v.Err() != nil) != tt.wantErr {
			t.Fatalf("email %q: expected error=%v, got %v", tt.raw, tt.wantErr, v.Err())
		}
		if got != tt.want {
			t.Fatalf("email %q: expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	var v ValidationError
	if v.Err() != nil {
		t.Fatal("empty ValidationError should not be an error")
	}

	v.Add("amount", "is required")
	v.Add("amount", "ignored")
	v.Add("category", "is required")

	err := v.Err()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Fields["amount"] != "is required" {
		t.Fatalf("first message should win, got %q", verr.Fields["amount"])
	}
	if got := err.Error(); got != "validation failed: amount: is required; category: is required" {
		t.Fatalf("unexpected message %q", got)
	}
}
