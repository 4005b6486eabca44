package budget

import "github.com/etnz/budget/date"

// BankInfo is a bank that can be connected, with its account kinds.
type BankInfo struct {
	Name     string   `json:"name"`
	Accounts []string `json:"accounts"`
}

// BankConnection is a connected bank account.
type BankConnection struct {
	ID          int             `json:"id"`
	BankName    string          `json:"bank_name"`
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	Balance     float64         `json:"balance"`
	LastSynced  *date.Timestamp `json:"last_synced"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   date.Timestamp  `json:"created_at"`
}

// NewBankConnection is the payload to connect a bank account.
type NewBankConnection struct {
	BankName    string `json:"bank_name" validate:"required"`
	AccountName string `json:"account_name" validate:"required"`
	AccountType string `json:"account_type" validate:"oneof=checking savings credit"`
}

// SyncResult reports a bank synchronisation.
type SyncResult struct {
	Synced  int     `json:"synced"`
	Balance float64 `json:"balance"`
}

// PendingTransaction is a synced bank movement waiting to be imported or dismissed.
type PendingTransaction struct {
	ID                  int            `json:"id"`
	BankConnectionID    int            `json:"bank_connection_id"`
	ExternalID          string         `json:"external_id"`
	Amount              float64        `json:"amount"`
	MerchantName        string         `json:"merchant_name"`
	Date                date.Date      `json:"date"`
	SuggestedCategoryID *int           `json:"suggested_category_id"`
	SuggestedCategory   *Category      `json:"suggested_category"`
	Status              string         `json:"status"`
	CreatedAt           date.Timestamp `json:"created_at"`
}

// PendingImport reports a pending transaction turned into a transaction.
type PendingImport struct {
	Message       string `json:"message"`
	TransactionID int    `json:"transaction_id"`
}

// BulkImport reports how many pending transactions were imported.
type BulkImport struct {
	Imported int `json:"imported"`
}

// BankBalance is the balance of a connected account.
type BankBalance struct {
	BankConnectionID int     `json:"bank_connection_id"`
	BankName         string  `json:"bank_name"`
	AccountName      string  `json:"account_name"`
	AccountType      string  `json:"account_type"`
	Balance          float64 `json:"balance"`
}
