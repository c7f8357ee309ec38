package dto

import (
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/service"
)

// ExpenseRequest represents the body of an expense create or update.
// Any owner supplied by the client is ignored.
type ExpenseRequest struct {
	Amount      Number `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// Input converts the request to service input.
func (r ExpenseRequest) Input() service.ExpenseInput {
	return service.ExpenseInput{
		Amount:      string(r.Amount),
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
	}
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string         `json:"id"`
	Amount      Money          `json:"amount"`
	Description string         `json:"description"`
	Category    model.Category `json:"category"`
	Date        Date           `json:"date"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToExpenseResponse converts an Expense model to ExpenseResponse DTO.
func ToExpenseResponse(e *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Amount:      Money(e.Amount),
		Description: e.Description,
		Category:    e.Category,
		Date:        Date(e.Date),
		CreatedAt:   e.CreatedAt,
	}
}

// ToExpenseResponses converts a list of expenses. The result is never nil.
func ToExpenseResponses(expenses []*model.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = ToExpenseResponse(e)
	}
	return out
}

// IncomeRequest represents the body of an income create or update.
type IncomeRequest struct {
	Amount      Number `json:"amount"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Date        string `json:"date"`
}

// Input converts the request to service input.
func (r IncomeRequest) Input() service.IncomeInput {
	return service.IncomeInput{
		Amount:      string(r.Amount),
		Description: r.Description,
		Source:      r.Source,
		Date:        r.Date,
	}
}

// IncomeResponse represents an income record in API responses.
type IncomeResponse struct {
	ID          string       `json:"id"`
	Amount      Money        `json:"amount"`
	Description string       `json:"description"`
	Source      model.Source `json:"source"`
	Date        Date         `json:"date"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ToIncomeResponse converts an Income model to IncomeResponse DTO.
func ToIncomeResponse(in *model.Income) IncomeResponse {
	return IncomeResponse{
		ID:          in.ID,
		Amount:      Money(in.Amount),
		Description: in.Description,
		Source:      in.Source,
		Date:        Date(in.Date),
		CreatedAt:   in.CreatedAt,
	}
}

// ToIncomeResponses converts a list of income records. The result is never nil.
func ToIncomeResponses(incomes []*model.Income) []IncomeResponse {
	out := make([]IncomeResponse, len(incomes))
	for i, in := range incomes {
		out[i] = ToIncomeResponse(in)
	}
	return out
}

// BudgetRequest represents the body of a budget upsert.
type BudgetRequest struct {
	Category string `json:"category"`
	Limit    Number `json:"limit"`
	Month    Number `json:"month"`
	Year     Number `json:"year"`
}

// Input converts the request to service input.
func (r BudgetRequest) Input() service.BudgetInput {
	return service.BudgetInput{
		Category: r.Category,
		Limit:    string(r.Limit),
		Month:    string(r.Month),
		Year:     string(r.Year),
	}
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID        string         `json:"id"`
	Category  model.Category `json:"category"`
	Limit     Money          `json:"limit"`
	Month     int            `json:"month"`
	Year      int            `json:"year"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BudgetUsageResponse is a budget with its consumption for the month.
type BudgetUsageResponse struct {
	BudgetResponse
	Spent      Money        `json:"spent"`
	Remaining  Money        `json:"remaining"`
	Percentage report.Ratio `json:"percentage"`
	Exceeded   bool         `json:"exceeded"`
}

// ToBudgetResponse converts a Budget model to BudgetResponse DTO.
func ToBudgetResponse(b *model.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID,
		Category:  b.Category,
		Limit:     Money(b.Limit),
		Month:     b.Month,
		Year:      b.Year,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBudgetUsageResponses converts budget statuses. The result is never nil.
func ToBudgetUsageResponses(statuses []report.BudgetStatus) []BudgetUsageResponse {
	out := make([]BudgetUsageResponse, len(statuses))
	for i, s := range statuses {
		out[i] = BudgetUsageResponse{
			BudgetResponse: ToBudgetResponse(&s.Budget),
			Spent:          Money(s.Spent),
			Remaining:      Money(s.Remaining),
			Percentage:     s.Percentage,
			Exceeded:       s.Exceeded(),
		}
	}
	return out
}
