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

func goalsCmd() *group {
	return &group{
		name:     "goals",
		synopsis: "track savings goals",
		commands: []subcommands.Command{
			&goalsListCmd{},
			&goalsAddCmd{},
			&goalsUpdateCmd{},
			&goalsContributeCmd{},
			&deleteCmd{noun: "goal", delete: func(ctx context.Context, a *app, id int) error {
				return store.Goals(a.client, a.logger).Delete(ctx, id)
			}},
		},
	}
}

type goalsListCmd struct{}

func (*goalsListCmd) Name() string     { return "list" }
func (*goalsListCmd) Synopsis() string { return "list the goals and their progress" }
func (*goalsListCmd) Usage() string {
	return `list
`
}
func (*goalsListCmd) SetFlags(f *flag.FlagSet) {}

func (*goalsListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		goals := store.Goals(a.client, a.logger)
		if err := goals.Load(ctx); err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Goals(goals.Get()))
		return nil
	})
}

type goalsAddCmd struct {
	target   float64
	deadline string
}

func (*goalsAddCmd) Name() string     { return "add" }
func (*goalsAddCmd) Synopsis() string { return "create a goal" }
func (*goalsAddCmd) Usage() string {
	return `add -target <amount> -deadline <date> NAME
`
}
func (c *goalsAddCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.target, "target", 0, "Amount to save.")
	f.StringVar(&c.deadline, "deadline", "", "Date by which the amount should be saved.")
}

func (c *goalsAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	deadline, err := date.Parse(c.deadline)
	if err != nil {
		return failure(usagef("%v", err))
	}
	data := budget.NewGoal{Name: f.Arg(0), TargetAmount: c.target, Deadline: deadline}
	if err := check(data); err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		created, err := store.Goals(a.client, a.logger).Create(ctx, data)
		if created.ID == 0 {
			return err
		}
		fmt.Fprintf(stdout, "Created goal %d %q, %d days left.\n", created.ID, created.Name, created.DaysRemaining)
		return err
	})
}

type goalsUpdateCmd struct {
	name     string
	target   float64
	current  float64
	deadline string
}

func (*goalsUpdateCmd) Name() string     { return "update" }
func (*goalsUpdateCmd) Synopsis() string { return "change a goal" }
func (*goalsUpdateCmd) Usage() string {
	return `update [-name <name>] [-target <amount>] [-saved <amount>] [-deadline <date>] ID

  Changes the given fields of the goal ID, the others are left untouched.
`
}
func (c *goalsUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name.")
	f.Float64Var(&c.target, "target", 0, "New target amount.")
	f.Float64Var(&c.current, "saved", 0, "New saved amount.")
	f.StringVar(&c.deadline, "deadline", "", "New deadline.")
}

func (c *goalsUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "goal")
	if err != nil {
		return failure(err)
	}
	var patch budget.GoalPatch
	visited := setFlags(f)
	if visited["name"] {
		patch.Name = &c.name
	}
	if visited["target"] {
		if c.target <= 0 {
			return failure(usagef("the target must be positive"))
		}
		patch.TargetAmount = &c.target
	}
	if visited["saved"] {
		if c.current < 0 {
			return failure(usagef("the saved amount cannot be negative"))
		}
		patch.CurrentAmount = &c.current
	}
	if visited["deadline"] {
		deadline, err := date.Parse(c.deadline)
		if err != nil {
			return failure(usagef("%v", err))
		}
		patch.Deadline = &deadline
	}
	if len(visited) == 0 {
		return failure(usagef("nothing to update"))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		updated, err := a.client.UpdateGoal(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Updated goal %d %q.\n", updated.ID, updated.Name)
		return nil
	})
}

type goalsContributeCmd struct{}

func (*goalsContributeCmd) Name() string     { return "contribute" }
func (*goalsContributeCmd) Synopsis() string { return "add savings to a goal" }
func (*goalsContributeCmd) Usage() string {
	return `contribute ID AMOUNT
`
}
func (*goalsContributeCmd) SetFlags(f *flag.FlagSet) {}

func (*goalsContributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "goal")
	if err != nil {
		return failure(err)
	}
	amount, err := argAmount(f, 1)
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		goal, err := a.client.ContributeToGoal(ctx, id, amount)
		if err != nil {
			return err
		}
		r := a.renderer(ctx)
		fmt.Fprintf(stdout, "%s: %s of %s saved (%.1f%%).\n",
			goal.Name, r.Currency.Format(goal.CurrentAmount), r.Currency.Format(goal.TargetAmount), goal.ProgressPercentage)
		if goal.Reached() {
			fmt.Fprintln(stdout, "Goal reached!")
		}
		return nil
	})
}
