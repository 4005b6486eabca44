package cmd

import (
	"context"
	"flag"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

func reportCmd() *group {
	return &group{
		name:     "report",
		synopsis: "monthly summaries and trends",
		commands: []subcommands.Command{
			&reportSummaryCmd{},
			&reportBreakdownCmd{},
			&reportTrendsCmd{},
		},
	}
}

type reportSummaryCmd struct {
	month string
}

func (*reportSummaryCmd) Name() string     { return "summary" }
func (*reportSummaryCmd) Synopsis() string { return "income, expenses and net of a month" }
func (*reportSummaryCmd) Usage() string {
	return `summary [-m <month>]
`
}
func (c *reportSummaryCmd) SetFlags(f *flag.FlagSet) { monthFlag(f, &c.month) }

func (c *reportSummaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		summary, err := a.client.MonthlySummary(ctx, month)
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Summary(summary))
		return nil
	})
}

type reportBreakdownCmd struct {
	month string
}

func (*reportBreakdownCmd) Name() string     { return "breakdown" }
func (*reportBreakdownCmd) Synopsis() string { return "totals of a month per category" }
func (*reportBreakdownCmd) Usage() string {
	return `breakdown [-m <month>]
`
}
func (c *reportBreakdownCmd) SetFlags(f *flag.FlagSet) { monthFlag(f, &c.month) }

func (c *reportBreakdownCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		list, err := a.client.CategoryBreakdown(ctx, month)
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Breakdown(month, list))
		return nil
	})
}

type reportTrendsCmd struct {
	months int
}

func (*reportTrendsCmd) Name() string     { return "trends" }
func (*reportTrendsCmd) Synopsis() string { return "monthly summaries of the last months" }
func (*reportTrendsCmd) Usage() string {
	return `trends [-n <months>]
`
}
func (c *reportTrendsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "n", budget.DefaultTrendMonths, "Number of months, up to 24.")
}

func (c *reportTrendsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.months < 1 || c.months > budget.MaxTrendMonths {
		return failure(usagef("the number of months must be between 1 and %d", budget.MaxTrendMonths))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		list, err := a.client.Trends(ctx, c.months)
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Trends(list))
		return nil
	})
}
