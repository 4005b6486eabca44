package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etnz/budget"
)

type contributionBody struct {
	Amount float64 `json:"amount"`
}

func (c *Client) Goals(ctx context.Context) ([]budget.Goal, error) {
	return call[[]budget.Goal](ctx, c, http.MethodGet, "/goals", nil, nil)
}

func (c *Client) CreateGoal(ctx context.Context, data budget.NewGoal) (budget.Goal, error) {
	return call[budget.Goal](ctx, c, http.MethodPost, "/goals", nil, data)
}

func (c *Client) UpdateGoal(ctx context.Context, id int, patch budget.GoalPatch) (budget.Goal, error) {
	return call[budget.Goal](ctx, c, http.MethodPut, fmt.Sprintf("/goals/%d", id), nil, patch)
}

// ContributeToGoal adds amount to the goal's current amount.
func (c *Client) ContributeToGoal(ctx context.Context, id int, amount float64) (budget.Goal, error) {
	return call[budget.Goal](ctx, c, http.MethodPost, fmt.Sprintf("/goals/%d/contribute", id), nil, contributionBody{Amount: amount})
}

func (c *Client) DeleteGoal(ctx context.Context, id int) error {
	return exec(ctx, c, http.MethodDelete, fmt.Sprintf("/goals/%d", id), nil)
}
