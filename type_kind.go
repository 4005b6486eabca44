package budget

import "fmt"

// Kind tells whether a category or a transaction is money in or money out.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// ParseKind validates a kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Income, Expense:
		return k, nil
	}
	return "", fmt.Errorf("invalid kind %q, want %q or %q", s, Income, Expense)
}

// Sign returns +1 for income and -1 for expenses.
func (k Kind) Sign() float64 {
	if k == Expense {
		return -1
	}
	return 1
}
