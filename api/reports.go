package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
)

// MonthlySummary totals income and expenses of a month.
func (c *Client) MonthlySummary(ctx context.Context, month date.Month) (budget.MonthlySummary, error) {
	return call[budget.MonthlySummary](ctx, c, http.MethodGet, "/reports/monthly-summary", monthQuery(month), nil)
}

// CategoryBreakdown totals a month's transactions per category.
func (c *Client) CategoryBreakdown(ctx context.Context, month date.Month) ([]budget.CategoryBreakdown, error) {
	return call[[]budget.CategoryBreakdown](ctx, c, http.MethodGet, "/reports/category-breakdown", monthQuery(month), nil)
}

// Trends returns the summaries of the last months, oldest first, current month included.
// Zero months lets the server apply its default.
func (c *Client) Trends(ctx context.Context, months int) ([]budget.MonthlySummary, error) {
	if months < 0 || months > budget.MaxTrendMonths {
		return nil, fmt.Errorf("invalid trend length %d: must be between 1 and %d", months, budget.MaxTrendMonths)
	}
	q := url.Values{}
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}
	return call[[]budget.MonthlySummary](ctx, c, http.MethodGet, "/reports/trends", q, nil)
}
