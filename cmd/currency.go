package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/etnz/budget"
	"github.com/etnz/budget/renderer"
	"github.com/google/subcommands"
)

type currencyCmd struct{}

func (*currencyCmd) Name() string     { return "currency" }
func (*currencyCmd) Synopsis() string { return "show or change the preferred currency" }
func (*currencyCmd) Usage() string {
	return `budgetctl currency [CODE]

  Without argument, prints the preferred currency and the available ones.
  With a currency code (USD, EUR, GBP), saves it as the preference.
`
}
func (*currencyCmd) SetFlags(f *flag.FlagSet) {}

func (*currencyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(stderr, "Error: too many arguments")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		a.currency.Load(ctx)
		if f.NArg() == 1 {
			code, err := budget.ParseCurrency(f.Arg(0))
			if err != nil {
				return usagef("%v", err)
			}
			if err := a.currency.SetCurrency(ctx, code); err != nil {
				return err
			}
		}
		state := a.currency.Get()
		for _, c := range state.Available {
			mark := " "
			if c == state.Current {
				mark = "*"
			}
			d, _ := c.Descriptor()
			fmt.Fprintf(stdout, "%s %s %s %s\n", mark, c, d.Symbol, d.Name)
		}
		return nil
	})
}

type ratesCmd struct {
	refresh bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "list the exchange rates" }
func (*ratesCmd) Usage() string {
	return `budgetctl rates [-refresh]

  Lists the exchange rates cached by the server.
`
}
func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Ask the server to fetch fresh rates from its provider first.")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		if c.refresh {
			if err := a.currency.RefreshRates(ctx); err != nil {
				return err
			}
		} else {
			a.currency.LoadRates(ctx)
		}
		printMarkdown(renderer.New(budget.DefaultCurrency).Rates(a.currency.Get().Rates))
		return nil
	})
}

type convertCmd struct{}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount between currencies" }
func (*convertCmd) Usage() string {
	return `budgetctl convert AMOUNT FROM TO

  Converts AMOUNT from one currency to another with the server's exchange rates.
`
}
func (*convertCmd) SetFlags(f *flag.FlagSet) {}

func (*convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(stderr, "Error: want AMOUNT FROM TO")
		return subcommands.ExitUsageError
	}
	amount, err := strconv.ParseFloat(f.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid amount %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	from, err := budget.ParseCurrency(f.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := budget.ParseCurrency(f.Arg(2))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		a.currency.LoadRates(ctx)
		converted, err := a.currency.Convert(amount, from, to)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s = %s\n", a.currency.Format(amount, from), a.currency.Format(converted, to))
		return nil
	})
}
