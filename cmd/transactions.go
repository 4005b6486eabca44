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

func transactionsCmd() *group {
	return &group{
		name:     "transactions",
		synopsis: "record and list income and expenses",
		commands: []subcommands.Command{
			&transactionsListCmd{},
			&transactionsAddCmd{},
			&transactionsUpdateCmd{},
			&deleteCmd{noun: "transaction", delete: func(ctx context.Context, a *app, id int) error {
				return a.client.DeleteTransaction(ctx, id)
			}},
		},
	}
}

type transactionsListCmd struct {
	start    string
	end      string
	month    string
	category int
	kind     kindFlag
	head     int
}

func (*transactionsListCmd) Name() string     { return "list" }
func (*transactionsListCmd) Synopsis() string { return "list transactions, newest first" }
func (*transactionsListCmd) Usage() string {
	return `list [-m <month> | -s <start_date> -d <end_date>] [-c <category_id>] [-t income|expense] [-head <n>]

  Lists the transactions matching all the given filters, newest first.
`
}
func (c *transactionsListCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Only list the transactions of this month (YYYY-MM). Overrides -s and -d.")
	f.StringVar(&c.start, "s", "", "First day of the range (YYYY-MM-DD).")
	f.StringVar(&c.end, "d", "", "Last day of the range (YYYY-MM-DD).")
	f.IntVar(&c.category, "c", 0, "Only list the transactions of this category id.")
	f.Var(&c.kind, "t", "Only list income or expense transactions.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
}

func (c *transactionsListCmd) filter() (budget.TransactionFilter, error) {
	filter := budget.TransactionFilter{CategoryID: c.category, Type: c.kind.kind}
	if c.month != "" {
		m, err := date.ParseMonth(c.month)
		if err != nil {
			return filter, usagef("%v", err)
		}
		filter.StartDate, filter.EndDate = m.First(), m.Last()
		return filter, nil
	}
	var err error
	if c.start != "" {
		if filter.StartDate, err = date.Parse(c.start); err != nil {
			return filter, usagef("%v", err)
		}
	}
	if c.end != "" {
		if filter.EndDate, err = date.Parse(c.end); err != nil {
			return filter, usagef("%v", err)
		}
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate) {
		return filter, usagef("the range ends before it starts")
	}
	return filter, nil
}

func (c *transactionsListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		transactions := store.Transactions(a.client, filter, a.logger)
		if err := transactions.Load(ctx); err != nil {
			return err
		}
		list := transactions.Get()
		if c.head > 0 && len(list) > c.head {
			list = list[:c.head]
		}
		printMarkdown(a.renderer(ctx).Transactions(list))
		return nil
	})
}

type transactionsAddCmd struct {
	kind        kindFlag
	category    int
	date        string
	description string
}

func (*transactionsAddCmd) Name() string     { return "add" }
func (*transactionsAddCmd) Synopsis() string { return "record a transaction" }
func (*transactionsAddCmd) Usage() string {
	return `add -c <category_id> [-t income|expense] [-d <date>] [-desc <text>] AMOUNT

  Records a transaction. AMOUNT is positive, the type tells whether it is
  money in or out.
`
}
func (c *transactionsAddCmd) SetFlags(f *flag.FlagSet) {
	c.kind.kind = budget.Expense
	f.Var(&c.kind, "t", "Type of the transaction, income or expense.")
	f.IntVar(&c.category, "c", 0, "Category id.")
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the transaction.")
	f.StringVar(&c.description, "desc", "", "Description.")
}

func (c *transactionsAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := argAmount(f, 0)
	if err != nil {
		return failure(err)
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return failure(usagef("%v", err))
	}
	data := budget.NewTransaction{Amount: amount, Type: c.kind.kind, CategoryID: c.category, Description: c.description, Date: on}
	if err := check(data); err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		created, err := a.client.CreateTransaction(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Recorded transaction %d: %s on %s in %s.\n",
			created.ID, budget.FormatCurrency(created.Signed(), a.renderer(ctx).Currency), created.Date, created.Category.Name)
		return nil
	})
}

type transactionsUpdateCmd struct {
	amount      float64
	kind        kindFlag
	category    int
	date        string
	description string
}

func (*transactionsUpdateCmd) Name() string     { return "update" }
func (*transactionsUpdateCmd) Synopsis() string { return "change a transaction" }
func (*transactionsUpdateCmd) Usage() string {
	return `update [-a <amount>] [-t income|expense] [-c <category_id>] [-d <date>] [-desc <text>] ID

  Changes the given fields of the transaction ID, the others are left untouched.
`
}
func (c *transactionsUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "a", 0, "New amount.")
	f.Var(&c.kind, "t", "New type.")
	f.IntVar(&c.category, "c", 0, "New category id.")
	f.StringVar(&c.date, "d", "", "New date.")
	f.StringVar(&c.description, "desc", "", "New description.")
}

func (c *transactionsUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "transaction")
	if err != nil {
		return failure(err)
	}
	var patch budget.TransactionPatch
	visited := setFlags(f)
	if visited["a"] {
		if c.amount <= 0 {
			return failure(usagef("the amount must be positive"))
		}
		patch.Amount = &c.amount
	}
	if visited["t"] {
		patch.Type = &c.kind.kind
	}
	if visited["c"] {
		patch.CategoryID = &c.category
	}
	if visited["d"] {
		on, err := date.Parse(c.date)
		if err != nil {
			return failure(usagef("%v", err))
		}
		patch.Date = &on
	}
	if visited["desc"] {
		patch.Description = &c.description
	}
	if len(visited) == 0 {
		return failure(usagef("nothing to update"))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		updated, err := a.client.UpdateTransaction(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Updated transaction %d.\n", updated.ID)
		return nil
	})
}
