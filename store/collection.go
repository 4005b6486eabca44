package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/etnz/budget"
	"github.com/etnz/budget/api"
	"github.com/etnz/budget/date"
)

// Collection caches a remote list of T, created from N.
//
// Writes are never applied locally: Create and Delete always reload the
// whole list from the server, and the last completed reload wins.
type Collection[T, N any] struct {
	Value[[]T]
	name   string
	list   func(context.Context) ([]T, error)
	create func(context.Context, N) (T, error)
	remove func(context.Context, int) error
	logger *slog.Logger
}

// NewCollection returns an empty collection named name using the given calls.
func NewCollection[T, N any](name string,
	list func(context.Context) ([]T, error),
	create func(context.Context, N) (T, error),
	remove func(context.Context, int) error,
	logger *slog.Logger,
) *Collection[T, N] {
	return &Collection[T, N]{
		name:   name,
		list:   list,
		create: create,
		remove: remove,
		logger: orDefault(logger),
	}
}

// Name returns the name of the collection.
func (c *Collection[T, N]) Name() string { return c.name }

// Load replaces the cache with the server list, in server order.
// On failure the cache is unchanged.
func (c *Collection[T, N]) Load(ctx context.Context) error {
	items, err := c.list(ctx)
	if err != nil {
		return fmt.Errorf("cannot load %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	c.set(items)
	c.logger.Debug("collection loaded", slog.String("name", c.name), slog.Int("count", len(items)))
	return nil
}

// Create creates a record and reloads the list. It returns the created record
// as answered by the server.
func (c *Collection[T, N]) Create(ctx context.Context, data N) (T, error) {
	created, err := c.create(ctx, data)
	if err != nil {
		return created, err
	}
	return created, c.Load(ctx)
}

// Delete deletes the record id and reloads the list.
func (c *Collection[T, N]) Delete(ctx context.Context, id int) error {
	if err := c.remove(ctx, id); err != nil {
		return err
	}
	return c.Load(ctx)
}

// Categories is the collection of categories.
func Categories(client *api.Client, logger *slog.Logger) *Collection[budget.Category, budget.NewCategory] {
	return NewCollection("categories", client.Categories, client.CreateCategory, client.DeleteCategory, logger)
}

// Transactions is the collection of transactions matching filter.
func Transactions(client *api.Client, filter budget.TransactionFilter, logger *slog.Logger) *Collection[budget.Transaction, budget.NewTransaction] {
	list := func(ctx context.Context) ([]budget.Transaction, error) { return client.Transactions(ctx, filter) }
	return NewCollection("transactions", list, client.CreateTransaction, client.DeleteTransaction, logger)
}

// Budgets is the collection of the budgets of month.
func Budgets(client *api.Client, month date.Month, logger *slog.Logger) *Collection[budget.Budget, budget.NewBudget] {
	list := func(ctx context.Context) ([]budget.Budget, error) { return client.Budgets(ctx, month) }
	return NewCollection("budgets", list, client.CreateBudget, client.DeleteBudget, logger)
}

// Recurring is the collection of recurring transaction rules.
func Recurring(client *api.Client, logger *slog.Logger) *Collection[budget.RecurringTransaction, budget.NewRecurring] {
	return NewCollection("recurring", client.Recurring, client.CreateRecurring, client.DeleteRecurring, logger)
}

// Goals is the collection of savings goals.
func Goals(client *api.Client, logger *slog.Logger) *Collection[budget.Goal, budget.NewGoal] {
	return NewCollection("goals", client.Goals, client.CreateGoal, client.DeleteGoal, logger)
}

// BankConnections is the collection of active bank connections.
func BankConnections(client *api.Client, logger *slog.Logger) *Collection[budget.BankConnection, budget.NewBankConnection] {
	return NewCollection("bank connections", client.BankConnections, client.CreateBankConnection, client.DeleteBankConnection, logger)
}
