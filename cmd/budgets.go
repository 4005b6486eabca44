package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
)

func budgetsCmd() *group {
	return &group{
		name:     "budgets",
		synopsis: "plan monthly spending per category",
		commands: []subcommands.Command{
			&budgetsListCmd{},
			&budgetsStatusCmd{},
			&budgetsAddCmd{},
			&deleteCmd{noun: "budget", delete: func(ctx context.Context, a *app, id int) error {
				return a.client.DeleteBudget(ctx, id)
			}},
		},
	}
}

// monthFlag registers the -m flag, defaulting to the current month.
func monthFlag(f *flag.FlagSet, month *string) {
	f.StringVar(month, "m", date.ThisMonth().String(), "Month (YYYY-MM).")
}

func parseMonth(s string) (date.Month, error) {
	m, err := date.ParseMonth(s)
	if err != nil {
		return m, usagef("%v", err)
	}
	return m, nil
}

type budgetsListCmd struct {
	month string
}

func (*budgetsListCmd) Name() string     { return "list" }
func (*budgetsListCmd) Synopsis() string { return "list the budgets of a month" }
func (*budgetsListCmd) Usage() string {
	return `list [-m <month>]
`
}
func (c *budgetsListCmd) SetFlags(f *flag.FlagSet) { monthFlag(f, &c.month) }

func (c *budgetsListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		budgets := store.Budgets(a.client, month, a.logger)
		if err := budgets.Load(ctx); err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Budgets(budgets.Get()))
		return nil
	})
}

type budgetsStatusCmd struct {
	month string
}

func (*budgetsStatusCmd) Name() string     { return "status" }
func (*budgetsStatusCmd) Synopsis() string { return "compare the budgets of a month with the spending" }
func (*budgetsStatusCmd) Usage() string {
	return `status [-m <month>]

  Shows, for each budget of the month, how much was spent and what remains.
`
}
func (c *budgetsStatusCmd) SetFlags(f *flag.FlagSet) { monthFlag(f, &c.month) }

func (c *budgetsStatusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		status, err := a.client.BudgetStatus(ctx, month)
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).BudgetStatus(status))
		return nil
	})
}

type budgetsAddCmd struct {
	month    string
	category int
}

func (*budgetsAddCmd) Name() string     { return "add" }
func (*budgetsAddCmd) Synopsis() string { return "plan a budget" }
func (*budgetsAddCmd) Usage() string {
	return `add -c <category_id> [-m <month>] AMOUNT

  Plans AMOUNT for the category in the month. An existing budget for the same
  category and month is replaced.
`
}
func (c *budgetsAddCmd) SetFlags(f *flag.FlagSet) {
	monthFlag(f, &c.month)
	f.IntVar(&c.category, "c", 0, "Category id.")
}

func (c *budgetsAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		return failure(err)
	}
	amount, err := argAmount(f, 0)
	if err != nil {
		return failure(err)
	}
	data := budget.NewBudget{CategoryID: c.category, Amount: amount, Month: month}
	if err := check(data); err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		budgets := store.Budgets(a.client, month, a.logger)
		created, err := budgets.Create(ctx, data)
		if created.ID == 0 {
			return err
		}
		fmt.Fprintf(stdout, "Planned budget %d: %s for %s in %s.\n",
			created.ID, a.renderer(ctx).Currency.Format(created.Amount), created.Category.Name, created.Month)
		return err
	})
}
