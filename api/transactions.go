package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/etnz/budget"
)

// transactionQuery encodes only the filter fields that are set.
func transactionQuery(f budget.TransactionFilter) url.Values {
	q := url.Values{}
	if !f.StartDate.IsZero() {
		q.Set("start_date", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		q.Set("end_date", f.EndDate.String())
	}
	if f.CategoryID != 0 {
		q.Set("category_id", strconv.Itoa(f.CategoryID))
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	return q
}

// Transactions lists transactions matching filter, most recent first.
func (c *Client) Transactions(ctx context.Context, filter budget.TransactionFilter) ([]budget.Transaction, error) {
	return call[[]budget.Transaction](ctx, c, http.MethodGet, "/transactions", transactionQuery(filter), nil)
}

func (c *Client) CreateTransaction(ctx context.Context, data budget.NewTransaction) (budget.Transaction, error) {
	return call[budget.Transaction](ctx, c, http.MethodPost, "/transactions", nil, data)
}

func (c *Client) UpdateTransaction(ctx context.Context, id int, patch budget.TransactionPatch) (budget.Transaction, error) {
	return call[budget.Transaction](ctx, c, http.MethodPut, fmt.Sprintf("/transactions/%d", id), nil, patch)
}

func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	return exec(ctx, c, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil)
}
