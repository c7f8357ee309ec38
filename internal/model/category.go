package model

import "strings"

// Category labels an expense.
type Category string

// Expense categories.
const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryUtilities      Category = "Utilities"
	CategoryShopping       Category = "Shopping"
	CategoryHealthcare     Category = "Healthcare"
	CategoryOther          Category = "Other"
)

// Categories lists every valid expense category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryShopping,
	CategoryHealthcare,
	CategoryOther,
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Source labels where an income came from.
type Source string

// Income sources.
const (
	SourceJob        Source = "Job"
	SourceFreelance  Source = "Freelance"
	SourceInvestment Source = "Investment"
	SourceBusiness   Source = "Business"
	SourceOther      Source = "Other"
)

// Sources lists every valid income source.
var Sources = []Source{
	SourceJob,
	SourceFreelance,
	SourceInvestment,
	SourceBusiness,
	SourceOther,
}

// IsValid reports whether s is a known income source.
func (s Source) IsValid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSource resolves an income source name case-insensitively.
func ParseSource(s string) (Source, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Sources {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}
