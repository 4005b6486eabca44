package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/etnz/budget"
)

// Categories lists all categories, default ones included.
func (c *Client) Categories(ctx context.Context) ([]budget.Category, error) {
	return call[[]budget.Category](ctx, c, http.MethodGet, "/categories", nil, nil)
}

// CreateCategory creates a custom category.
func (c *Client) CreateCategory(ctx context.Context, data budget.NewCategory) (budget.Category, error) {
	return call[budget.Category](ctx, c, http.MethodPost, "/categories", nil, data)
}

// UpdateCategory changes the supplied fields of a category.
func (c *Client) UpdateCategory(ctx context.Context, id int, patch budget.CategoryPatch) (budget.Category, error) {
	return call[budget.Category](ctx, c, http.MethodPut, fmt.Sprintf("/categories/%d", id), nil, patch)
}

// DeleteCategory deletes a custom category. Default categories cannot be deleted.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return exec(ctx, c, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil)
}
