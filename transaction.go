package budget

import "github.com/etnz/budget/date"

// Transaction is a single income or expense.
type Transaction struct {
	ID          int            `json:"id"`
	Amount      float64        `json:"amount"`
	Type        Kind           `json:"type"`
	CategoryID  int            `json:"category_id"`
	Description *string        `json:"description"`
	Date        date.Date      `json:"date"`
	CreatedAt   date.Timestamp `json:"created_at"`
	Category    Category       `json:"category"`
}

// Signed returns the amount, negative for an expense.
func (t Transaction) Signed() float64 { return t.Type.Sign() * t.Amount }

// NewTransaction is the payload to record a transaction.
type NewTransaction struct {
	Amount      float64   `json:"amount" validate:"gt=0"`
	Type        Kind      `json:"type" validate:"oneof=income expense"`
	CategoryID  int       `json:"category_id" validate:"gt=0"`
	Description string    `json:"description,omitempty"`
	Date        date.Date `json:"date"`
}

// TransactionPatch carries the fields to change, nil fields are left untouched.
type TransactionPatch struct {
	Amount      *float64   `json:"amount,omitempty"`
	Type        *Kind      `json:"type,omitempty"`
	CategoryID  *int       `json:"category_id,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *date.Date `json:"date,omitempty"`
}

// TransactionFilter restricts a transaction listing. Zero fields are not sent.
type TransactionFilter struct {
	StartDate  date.Date
	EndDate    date.Date
	CategoryID int
	Type       Kind
}
