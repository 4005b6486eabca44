package cmd

import (
	"context"
	"flag"

	"github.com/etnz/budget/renderer"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type dashboardCmd struct {
	month string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "overview of a month" }
func (*dashboardCmd) Usage() string {
	return `budgetctl dashboard [-m <month>]

  Shows the month summary, the overspent budgets, the goals, the account
  balances and the number of bank transactions waiting for review.
`
}
func (c *dashboardCmd) SetFlags(f *flag.FlagSet) { monthFlag(f, &c.month) }

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		d := renderer.Dashboard{Month: month}
		goals := store.Goals(a.client, a.logger)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Summary, err = a.client.MonthlySummary(gctx, month)
			return err
		})
		g.Go(func() (err error) {
			d.Budgets, err = a.client.BudgetStatus(gctx, month)
			return err
		})
		g.Go(func() error { return goals.Load(gctx) })
		g.Go(func() (err error) {
			d.Balances, err = a.client.BankBalances(gctx)
			return err
		})
		g.Go(func() error {
			pending, err := a.client.PendingTransactions(gctx)
			d.Pending = len(pending)
			return err
		})
		g.Go(func() error {
			a.displayCurrency(gctx)
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}
		d.Goals = goals.Get()
		printMarkdown(a.renderer(ctx).Dashboard(d))
		return nil
	})
}
