package budget

import "github.com/etnz/budget/date"

// MonthlySummary totals a month's income and expenses.
type MonthlySummary struct {
	Month    date.Month `json:"month"`
	Income   float64    `json:"income"`
	Expenses float64    `json:"expenses"`
	Net      float64    `json:"net"`
}

// CategoryBreakdown totals a month's transactions for one category.
type CategoryBreakdown struct {
	CategoryID   int     `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Type         Kind    `json:"type"`
	Total        float64 `json:"total"`
}

// DefaultTrendMonths is the number of months in a trend when none is asked for.
const DefaultTrendMonths = 6

// MaxTrendMonths is the longest trend the server computes.
const MaxTrendMonths = 24
