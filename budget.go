package budget

import "github.com/etnz/budget/date"

// Budget is the amount planned for a category in a month.
type Budget struct {
	ID         int            `json:"id"`
	CategoryID int            `json:"category_id"`
	Amount     float64        `json:"amount"`
	Month      date.Month     `json:"month"`
	CreatedAt  date.Timestamp `json:"created_at"`
	Category   Category       `json:"category"`
}

// NewBudget is the payload to plan a budget.
type NewBudget struct {
	CategoryID int        `json:"category_id" validate:"gt=0"`
	Amount     float64    `json:"amount" validate:"gt=0"`
	Month      date.Month `json:"month"`
}

// BudgetStatus compares a month's budget to what was actually spent.
type BudgetStatus struct {
	CategoryID     int     `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	Budgeted       float64 `json:"budgeted"`
	Spent          float64 `json:"spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
}

// Overspent reports whether more than the budget was spent.
func (s BudgetStatus) Overspent() bool { return s.Spent > s.Budgeted }
