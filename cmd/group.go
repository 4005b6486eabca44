package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

// group is a container for subcommands, like "budgetctl goals add".
type group struct {
	name     string
	synopsis string
	commands []subcommands.Command
}

func (g *group) Name() string     { return g.name }
func (g *group) Synopsis() string { return g.synopsis }
func (g *group) Usage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "budgetctl %s <subcommand> [args]\n\nCommands:\n", g.name)
	for _, c := range g.commands {
		fmt.Fprintf(&b, "  %-10s - %s\n", c.Name(), c.Synopsis())
	}
	return b.String()
}

func (g *group) SetFlags(f *flag.FlagSet) {}
func (g *group) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, g.name)
	commander.Output, commander.Error = stdout, stderr
	for _, c := range g.commands {
		commander.Register(c, "")
	}
	return commander.Execute(ctx, args...)
}

// deleteCmd deletes a record by id.
type deleteCmd struct {
	noun   string
	delete func(ctx context.Context, a *app, id int) error
}

func (*deleteCmd) Name() string       { return "rm" }
func (c *deleteCmd) Synopsis() string { return "delete a " + c.noun }
func (c *deleteCmd) Usage() string {
	return fmt.Sprintf("rm ID\n\n  Deletes the %s ID.\n", c.noun)
}
func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, c.noun)
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		if err := c.delete(ctx, a, id); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted %s %d.\n", c.noun, id)
		return nil
	})
}
