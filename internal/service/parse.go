package service

import (
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

const (
	dateLayout = "2006-01-02"

	maxDescriptionLength = 255
	maxNameLength        = 100
	minPasswordLength    = 8
	maxPasswordLength    = 128
	maxListLimit         = 1000

	// Amount size limits, checked before any rescale.
	maxAmountLength = 32
	maxAmountScale  = 10
)

// maxAmount is the largest value NUMERIC(12,2) can hold.
var maxAmount = decimal.RequireFromString("9999999999.99")

// parseAmount accepts a positive decimal with at most two fractional digits.
func parseAmount(v *ValidationError, field, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, "is required")
		return decimal.Zero
	}
	if len(raw) > maxAmountLength {
		v.Add(field, "is too large")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.Add(field, "must be a number")
		return decimal.Zero
	}
	switch {
	case !d.IsPositive():
		v.Add(field, "must be greater than zero")
	case d.Exponent() > maxAmountScale:
		v.Add(field, "is too large")
	case d.Exponent() < -maxAmountScale, !d.Equal(d.Round(2)):
		v.Add(field, "must have at most two decimal places")
	case d.GreaterThan(maxAmount):
		v.Add(field, "is too large")
	}
	return d
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar day at midnight UTC.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func requireDate(v *ValidationError, field, raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		v.Add(field, "is required")
		return time.Time{}
	}
	d, ok := parseDate(raw)
	if !ok {
		v.Add(field, "must be a date in YYYY-MM-DD format")
	}
	return d
}

// optionalDate returns nil for an empty value.
func optionalDate(v *ValidationError, field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, ok := parseDate(raw)
	if !ok {
		v.Add(field, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}

func checkRange(v *ValidationError, from, to *time.Time) {
	if from != nil && to != nil && from.After(*to) {
		v.Add("endDate", "must not be before startDate")
	}
}

func parseCategory(v *ValidationError, field, raw string) model.Category {
	if strings.TrimSpace(raw) == "" {
		v.Add(field, "is required")
		return ""
	}
	c, ok := model.ParseCategory(raw)
	if !ok {
		v.Add(field, "must be one of "+joinCategories())
	}
	return c
}

// parseCategoryFilter accepts "", "All", a single category or a comma list.
// An empty result means no category restriction.
func parseCategoryFilter(v *ValidationError, raw string) []model.Category {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil
	}

	var categories []model.Category
	seen := make(map[model.Category]bool)
	for _, part := range strings.Split(raw, ",") {
		if strings.EqualFold(strings.TrimSpace(part), "all") {
			return nil
		}
		c, ok := model.ParseCategory(part)
		if !ok {
			v.Add("category", "unknown category "+strconv.Quote(strings.TrimSpace(part)))
			continue
		}
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	return categories
}

func parseSource(v *ValidationError, field, raw string) model.Source {
	if strings.TrimSpace(raw) == "" {
		v.Add(field, "is required")
		return ""
	}
	s, ok := model.ParseSource(raw)
	if !ok {
		names := make([]string, len(model.Sources))
		for i, s := range model.Sources {
			names[i] = string(s)
		}
		v.Add(field, "must be one of "+strings.Join(names, ", "))
	}
	return s
}

func parseDescription(v *ValidationError, raw string) string {
	d := strings.TrimSpace(raw)
	if utf8.RuneCountInString(d) > maxDescriptionLength {
		v.Add("description", "must be at most "+strconv.Itoa(maxDescriptionLength)+" characters")
	}
	return d
}

// parseLimit accepts an empty value (no limit) or an integer in [1, 1000].
func parseLimit(v *ValidationError, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxListLimit {
		v.Add("limit", "must be an integer between 1 and "+strconv.Itoa(maxListLimit))
		return 0
	}
	return n
}

// parseInt parses an optional integer in [lo, hi], falling back to def.
func parseInt(v *ValidationError, field, raw string, lo, hi, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		v.Add(field, "must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
		return def
	}
	return n
}

// normalizeEmail validates an address and lower-cases it.
func normalizeEmail(v *ValidationError, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add("email", "is required")
		return ""
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		v.Add("email", "must be a valid email address")
		return ""
	}
	return strings.ToLower(addr.Address)
}

func joinCategories() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
