package budget

import "github.com/etnz/budget/date"

// RecurringTransaction is a rule the server turns into transactions on each due date.
type RecurringTransaction struct {
	ID          int            `json:"id"`
	Amount      float64        `json:"amount"`
	Type        Kind           `json:"type"`
	CategoryID  int            `json:"category_id"`
	Description *string        `json:"description"`
	Frequency   date.Frequency `json:"frequency"`
	NextRunDate date.Date      `json:"next_run_date"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   date.Timestamp `json:"created_at"`
	Category    Category       `json:"category"`
}

// NewRecurring is the payload to create a recurring rule.
type NewRecurring struct {
	Amount      float64        `json:"amount" validate:"gt=0"`
	Type        Kind           `json:"type" validate:"oneof=income expense"`
	CategoryID  int            `json:"category_id" validate:"gt=0"`
	Description string         `json:"description,omitempty"`
	Frequency   date.Frequency `json:"frequency"`
	NextRunDate date.Date      `json:"next_run_date"`
}

// RecurringPatch carries the fields to change, nil fields are left untouched.
type RecurringPatch struct {
	Amount      *float64        `json:"amount,omitempty"`
	Type        *Kind           `json:"type,omitempty"`
	CategoryID  *int            `json:"category_id,omitempty"`
	Description *string         `json:"description,omitempty"`
	Frequency   *date.Frequency `json:"frequency,omitempty"`
	NextRunDate *date.Date      `json:"next_run_date,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

// ProcessResult reports how many due recurring rules were turned into transactions.
type ProcessResult struct {
	Processed int `json:"processed"`
}
