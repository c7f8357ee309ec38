package dto

import (
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/service"
)

// CategoryShareResponse is one row of a spending breakdown.
type CategoryShareResponse struct {
	Category   model.Category `json:"category"`
	Total      Money          `json:"total"`
	Percentage report.Ratio   `json:"percentage"`
}

// TrendPointResponse is the amount spent in one month.
type TrendPointResponse struct {
	Month  string `json:"month"`
	Amount Money  `json:"amount"`
}

// DashboardResponse represents the dashboard.
type DashboardResponse struct {
	TotalBalance       Money                   `json:"total_balance"`
	MonthlyExpenses    Money                   `json:"monthly_expenses"`
	RecentTransactions []ExpenseResponse       `json:"recent_transactions"`
	SpendingByCategory []CategoryShareResponse `json:"spending_by_category"`
	MonthlyTrend       []TrendPointResponse    `json:"monthly_trend"`
}

// HealthResponse represents financial health.
type HealthResponse struct {
	TotalIncome   Money               `json:"total_income"`
	TotalExpenses Money               `json:"total_expenses"`
	NetIncome     Money               `json:"net_income"`
	SpendingRatio report.Ratio        `json:"spending_ratio"`
	Status        report.HealthStatus `json:"status"`
	Message       string              `json:"message"`
}

// ReportResponse represents a period report.
type ReportResponse struct {
	Days              int                     `json:"days"`
	StartDate         Date                    `json:"start_date"`
	EndDate           Date                    `json:"end_date"`
	TotalIncome       Money                   `json:"total_income"`
	TotalExpenses     Money                   `json:"total_expenses"`
	NetIncome         Money                   `json:"net_income"`
	CategoryBreakdown []CategoryShareResponse `json:"category_breakdown"`
	RecentExpenses    []ExpenseResponse       `json:"recent_expenses"`
	RecentIncome      []IncomeResponse        `json:"recent_income"`
	FinancialHealth   HealthResponse          `json:"financial_health"`
}

// ToDashboardResponse converts a Dashboard to DashboardResponse DTO.
func ToDashboardResponse(d *service.Dashboard) *DashboardResponse {
	trend := make([]TrendPointResponse, len(d.MonthlyTrend))
	for i, p := range d.MonthlyTrend {
		trend[i] = TrendPointResponse{Month: p.Month, Amount: Money(p.Amount)}
	}
	return &DashboardResponse{
		TotalBalance:       Money(d.TotalBalance),
		MonthlyExpenses:    Money(d.MonthlyExpenses),
		RecentTransactions: ToExpenseResponses(d.RecentTransactions),
		SpendingByCategory: toShares(d.SpendingByCategory),
		MonthlyTrend:       trend,
	}
}

// ToReportResponse converts a Report to ReportResponse DTO.
func ToReportResponse(r *service.Report) *ReportResponse {
	h := r.FinancialHealth
	return &ReportResponse{
		Days:              r.Days,
		StartDate:         Date(r.From),
		EndDate:           Date(r.To),
		TotalIncome:       Money(r.TotalIncome),
		TotalExpenses:     Money(r.TotalExpenses),
		NetIncome:         Money(r.NetIncome),
		CategoryBreakdown: toShares(r.CategoryBreakdown),
		RecentExpenses:    ToExpenseResponses(r.RecentExpenses),
		RecentIncome:      ToIncomeResponses(r.RecentIncome),
		FinancialHealth: HealthResponse{
			TotalIncome:   Money(h.TotalIncome),
			TotalExpenses: Money(h.TotalExpenses),
			NetIncome:     Money(h.NetIncome),
			SpendingRatio: h.SpendingRatio,
			Status:        h.Status,
			Message:       h.Message,
		},
	}
}

func toShares(shares []report.CategoryShare) []CategoryShareResponse {
	out := make([]CategoryShareResponse, len(shares))
	for i, s := range shares {
		out[i] = CategoryShareResponse{
			Category:   s.Category,
			Total:      Money(s.Total),
			Percentage: s.Percentage,
		}
	}
	return out
}
