package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etnz/budget"
)

type importPendingBody struct {
	CategoryID int `json:"category_id"`
}

// Banks lists the banks that can be connected.
func (c *Client) Banks(ctx context.Context) ([]budget.BankInfo, error) {
	return call[[]budget.BankInfo](ctx, c, http.MethodGet, "/banking/banks", nil, nil)
}

// BankConnections lists the active bank connections.
func (c *Client) BankConnections(ctx context.Context) ([]budget.BankConnection, error) {
	return call[[]budget.BankConnection](ctx, c, http.MethodGet, "/banking/connections", nil, nil)
}

func (c *Client) CreateBankConnection(ctx context.Context, data budget.NewBankConnection) (budget.BankConnection, error) {
	return call[budget.BankConnection](ctx, c, http.MethodPost, "/banking/connections", nil, data)
}

func (c *Client) DeleteBankConnection(ctx context.Context, id int) error {
	return exec(ctx, c, http.MethodDelete, fmt.Sprintf("/banking/connections/%d", id), nil)
}

// SyncBankConnection fetches new pending transactions and the balance of a connection.
func (c *Client) SyncBankConnection(ctx context.Context, id int) (budget.SyncResult, error) {
	return call[budget.SyncResult](ctx, c, http.MethodPost, fmt.Sprintf("/banking/connections/%d/sync", id), nil, nil)
}

// PendingTransactions lists the synced transactions awaiting review.
func (c *Client) PendingTransactions(ctx context.Context) ([]budget.PendingTransaction, error) {
	return call[[]budget.PendingTransaction](ctx, c, http.MethodGet, "/banking/pending", nil, nil)
}

// ImportPending turns a pending transaction into a transaction of categoryID.
func (c *Client) ImportPending(ctx context.Context, id, categoryID int) (budget.PendingImport, error) {
	return call[budget.PendingImport](ctx, c, http.MethodPost, fmt.Sprintf("/banking/pending/%d/import", id), nil, importPendingBody{CategoryID: categoryID})
}

func (c *Client) DismissPending(ctx context.Context, id int) error {
	return exec(ctx, c, http.MethodPost, fmt.Sprintf("/banking/pending/%d/dismiss", id), nil)
}

// ImportAllPending imports every pending transaction that has a suggested category.
func (c *Client) ImportAllPending(ctx context.Context) (budget.BulkImport, error) {
	return call[budget.BulkImport](ctx, c, http.MethodPost, "/banking/pending/import-all", nil, nil)
}

// BankBalances returns the balance of every active connection.
func (c *Client) BankBalances(ctx context.Context) ([]budget.BankBalance, error) {
	return call[[]budget.BankBalance](ctx, c, http.MethodGet, "/banking/balances", nil, nil)
}
