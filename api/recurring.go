package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etnz/budget"
)

func (c *Client) Recurring(ctx context.Context) ([]budget.RecurringTransaction, error) {
	return call[[]budget.RecurringTransaction](ctx, c, http.MethodGet, "/recurring", nil, nil)
}

func (c *Client) CreateRecurring(ctx context.Context, data budget.NewRecurring) (budget.RecurringTransaction, error) {
	return call[budget.RecurringTransaction](ctx, c, http.MethodPost, "/recurring", nil, data)
}

func (c *Client) UpdateRecurring(ctx context.Context, id int, patch budget.RecurringPatch) (budget.RecurringTransaction, error) {
	return call[budget.RecurringTransaction](ctx, c, http.MethodPut, fmt.Sprintf("/recurring/%d", id), nil, patch)
}

func (c *Client) DeleteRecurring(ctx context.Context, id int) error {
	return exec(ctx, c, http.MethodDelete, fmt.Sprintf("/recurring/%d", id), nil)
}

// ProcessRecurring creates the transactions of every active rule that is due
// and advances their next run date.
func (c *Client) ProcessRecurring(ctx context.Context) (budget.ProcessResult, error) {
	return call[budget.ProcessResult](ctx, c, http.MethodPost, "/recurring/process", nil, nil)
}
