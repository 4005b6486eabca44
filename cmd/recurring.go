package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
)

func recurringCmd() *group {
	return &group{
		name:     "recurring",
		synopsis: "manage the recurring transactions",
		commands: []subcommands.Command{
			&recurringListCmd{},
			&recurringAddCmd{},
			&recurringUpdateCmd{},
			&deleteCmd{noun: "recurring rule", delete: func(ctx context.Context, a *app, id int) error {
				return store.Recurring(a.client, a.logger).Delete(ctx, id)
			}},
			&recurringProcessCmd{},
		},
	}
}

// frequencyFlag is a daily, weekly or monthly flag.
type frequencyFlag struct{ freq date.Frequency }

func (p *frequencyFlag) String() string { return p.freq.String() }
func (p *frequencyFlag) Set(s string) (err error) {
	p.freq, err = date.ParseFrequency(s)
	return err
}

type recurringListCmd struct{}

func (*recurringListCmd) Name() string     { return "list" }
func (*recurringListCmd) Synopsis() string { return "list the recurring rules" }
func (*recurringListCmd) Usage() string {
	return `list
`
}
func (*recurringListCmd) SetFlags(f *flag.FlagSet) {}

func (*recurringListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		rules := store.Recurring(a.client, a.logger)
		if err := rules.Load(ctx); err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Recurring(rules.Get()))
		return nil
	})
}

type recurringAddCmd struct {
	kind        kindFlag
	category    int
	frequency   frequencyFlag
	next        string
	description string
}

func (*recurringAddCmd) Name() string     { return "add" }
func (*recurringAddCmd) Synopsis() string { return "create a recurring rule" }
func (*recurringAddCmd) Usage() string {
	return `add -c <category_id> [-t income|expense] [-f daily|weekly|monthly] [-next <date>] [-desc <text>] AMOUNT

  Creates a rule recording AMOUNT on each due date, starting on -next.
`
}
func (c *recurringAddCmd) SetFlags(f *flag.FlagSet) {
	c.kind.kind = budget.Expense
	c.frequency.freq = date.Monthly
	f.Var(&c.kind, "t", "Type of the transactions, income or expense.")
	f.IntVar(&c.category, "c", 0, "Category id.")
	f.Var(&c.frequency, "f", "Frequency: daily, weekly or monthly.")
	f.StringVar(&c.next, "next", date.Today().String(), "First due date.")
	f.StringVar(&c.description, "desc", "", "Description.")
}

func (c *recurringAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := argAmount(f, 0)
	if err != nil {
		return failure(err)
	}
	next, err := date.Parse(c.next)
	if err != nil {
		return failure(usagef("%v", err))
	}
	data := budget.NewRecurring{
		Amount:      amount,
		Type:        c.kind.kind,
		CategoryID:  c.category,
		Description: c.description,
		Frequency:   c.frequency.freq,
		NextRunDate: next,
	}
	if err := check(data); err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		created, err := store.Recurring(a.client, a.logger).Create(ctx, data)
		if created.ID == 0 {
			return err
		}
		fmt.Fprintf(stdout, "Created recurring rule %d, next run on %s.\n", created.ID, created.NextRunDate)
		return err
	})
}

type recurringUpdateCmd struct {
	amount      float64
	kind        kindFlag
	category    int
	frequency   frequencyFlag
	next        string
	description string
	active      string
}

func (*recurringUpdateCmd) Name() string     { return "update" }
func (*recurringUpdateCmd) Synopsis() string { return "change or pause a recurring rule" }
func (*recurringUpdateCmd) Usage() string {
	return `update [-a <amount>] [-t income|expense] [-c <category_id>] [-f <frequency>] [-next <date>] [-desc <text>] [-active true|false] ID

  Changes the given fields of the rule ID, the others are left untouched.
  An inactive rule is not processed.
`
}
func (c *recurringUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "a", 0, "New amount.")
	f.Var(&c.kind, "t", "New type.")
	f.IntVar(&c.category, "c", 0, "New category id.")
	f.Var(&c.frequency, "f", "New frequency.")
	f.StringVar(&c.next, "next", "", "New next due date.")
	f.StringVar(&c.description, "desc", "", "New description.")
	f.StringVar(&c.active, "active", "", "Activate (true) or pause (false) the rule.")
}

func (c *recurringUpdateCmd) patch(visited map[string]bool) (budget.RecurringPatch, error) {
	var patch budget.RecurringPatch
	if visited["a"] {
		if c.amount <= 0 {
			return patch, usagef("the amount must be positive")
		}
		patch.Amount = &c.amount
	}
	if visited["t"] {
		patch.Type = &c.kind.kind
	}
	if visited["c"] {
		patch.CategoryID = &c.category
	}
	if visited["f"] {
		patch.Frequency = &c.frequency.freq
	}
	if visited["next"] {
		next, err := date.Parse(c.next)
		if err != nil {
			return patch, usagef("%v", err)
		}
		patch.NextRunDate = &next
	}
	if visited["desc"] {
		patch.Description = &c.description
	}
	if visited["active"] {
		active, err := strconv.ParseBool(c.active)
		if err != nil {
			return patch, usagef("invalid -active %q", c.active)
		}
		patch.IsActive = &active
	}
	if len(visited) == 0 {
		return patch, usagef("nothing to update")
	}
	return patch, nil
}

func (c *recurringUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "recurring rule")
	if err != nil {
		return failure(err)
	}
	patch, err := c.patch(setFlags(f))
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		updated, err := a.client.UpdateRecurring(ctx, id, patch)
		if err != nil {
			return err
		}
		state := "active"
		if !updated.IsActive {
			state = "paused"
		}
		fmt.Fprintf(stdout, "Updated recurring rule %d, %s, next run on %s.\n", updated.ID, state, updated.NextRunDate)
		return nil
	})
}

type recurringProcessCmd struct{}

func (*recurringProcessCmd) Name() string     { return "process" }
func (*recurringProcessCmd) Synopsis() string { return "record the due recurring transactions" }
func (*recurringProcessCmd) Usage() string {
	return `process

  Asks the server to record a transaction for every active rule due today or
  earlier, and to move each rule to its next due date.
`
}
func (*recurringProcessCmd) SetFlags(f *flag.FlagSet) {}

func (*recurringProcessCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		result, err := a.client.ProcessRecurring(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Processed %d recurring transactions.\n", result.Processed)
		return nil
	})
}
