package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/model"
)

// DefaultTrendMonths is the number of months in a dashboard trend.
const DefaultTrendMonths = 6

// trendLabelLayout renders a month as e.g. "Dec 2024".
const trendLabelLayout = "Jan 2006"

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// Start returns the first day of the month at midnight UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month at midnight UTC. Date ranges built
// from Start and End are inclusive on both ends.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// Label renders the month for charts.
func (m Month) Label() string {
	return m.Start().Format(trendLabelLayout)
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// TrendPoint is the amount spent in one month.
type TrendPoint struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// TrendWindow returns the oldest and newest month of a trend ending at ref.
func TrendWindow(ref Month, window int) (Month, Month) {
	if window <= 0 {
		window = DefaultTrendMonths
	}
	return ref.AddMonths(-(window - 1)), ref
}

// MonthlyTrend returns exactly window points, oldest first, ending at ref.
// Months missing from sums are reported as zero.
func MonthlyTrend(ref Month, window int, sums map[Month]decimal.Decimal) []TrendPoint {
	if window <= 0 {
		window = DefaultTrendMonths
	}

	first, _ := TrendWindow(ref, window)
	points := make([]TrendPoint, window)
	for i := 0; i < window; i++ {
		m := first.AddMonths(i)
		amount, ok := sums[m]
		if !ok {
			amount = decimal.Zero
		}
		points[i] = TrendPoint{Month: m.Label(), Amount: amount}
	}
	return points
}

// SumByMonth buckets expense amounts by calendar month.
func SumByMonth(expenses []model.Expense) map[Month]decimal.Decimal {
	sums := make(map[Month]decimal.Decimal)
	for _, e := range expenses {
		m := MonthOf(e.Date)
		sums[m] = sums[m].Add(e.Amount)
	}
	return sums
}
