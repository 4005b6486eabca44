package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
)

func monthQuery(m date.Month) url.Values { return url.Values{"month": {m.String()}} }

// Budgets lists the budgets of a month.
func (c *Client) Budgets(ctx context.Context, month date.Month) ([]budget.Budget, error) {
	return call[[]budget.Budget](ctx, c, http.MethodGet, "/budgets", monthQuery(month), nil)
}

// BudgetStatus compares each budget of a month to the expenses of its category.
func (c *Client) BudgetStatus(ctx context.Context, month date.Month) ([]budget.BudgetStatus, error) {
	return call[[]budget.BudgetStatus](ctx, c, http.MethodGet, "/budgets/status", monthQuery(month), nil)
}

// CreateBudget creates a budget, or replaces the amount of the existing one
// for the same category and month.
func (c *Client) CreateBudget(ctx context.Context, data budget.NewBudget) (budget.Budget, error) {
	return call[budget.Budget](ctx, c, http.MethodPost, "/budgets", nil, data)
}

func (c *Client) DeleteBudget(ctx context.Context, id int) error {
	return exec(ctx, c, http.MethodDelete, fmt.Sprintf("/budgets/%d", id), nil)
}
