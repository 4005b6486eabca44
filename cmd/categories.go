package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/budget"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
)

func categoriesCmd() *group {
	return &group{
		name:     "categories",
		synopsis: "manage the transaction categories",
		commands: []subcommands.Command{
			&categoriesListCmd{},
			&categoriesAddCmd{},
			&categoriesUpdateCmd{},
			&deleteCmd{noun: "category", delete: func(ctx context.Context, a *app, id int) error {
				return store.Categories(a.client, a.logger).Delete(ctx, id)
			}},
		},
	}
}

type categoriesListCmd struct {
	kind kindFlag
}

func (*categoriesListCmd) Name() string     { return "list" }
func (*categoriesListCmd) Synopsis() string { return "list the categories" }
func (*categoriesListCmd) Usage() string {
	return `list [-t income|expense]

  Lists the default and the custom categories.
`
}
func (c *categoriesListCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.kind, "t", "Only list the categories of this type.")
}

func (c *categoriesListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		categories := store.Categories(a.client, a.logger)
		if err := categories.Load(ctx); err != nil {
			return err
		}
		list := categories.Get()
		if c.kind.kind != "" {
			var kept []budget.Category
			for _, cat := range list {
				if cat.Type == c.kind.kind {
					kept = append(kept, cat)
				}
			}
			list = kept
		}
		printMarkdown(a.renderer(ctx).Categories(list))
		return nil
	})
}

type categoriesAddCmd struct {
	kind  kindFlag
	icon  string
	color string
}

func (*categoriesAddCmd) Name() string     { return "add" }
func (*categoriesAddCmd) Synopsis() string { return "create a category" }
func (*categoriesAddCmd) Usage() string {
	return `add -t income|expense [-icon <icon>] [-color <color>] NAME

  Creates a custom category.
`
}
func (c *categoriesAddCmd) SetFlags(f *flag.FlagSet) {
	c.kind.kind = budget.Expense
	f.Var(&c.kind, "t", "Type of the category, income or expense.")
	f.StringVar(&c.icon, "icon", "", "Icon of the category.")
	f.StringVar(&c.color, "color", "", "Color of the category, like #FF5733.")
}

func (c *categoriesAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data := budget.NewCategory{Name: f.Arg(0), Type: c.kind.kind, Icon: c.icon, Color: c.color}
	if err := check(data); err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		created, err := store.Categories(a.client, a.logger).Create(ctx, data)
		if created.ID == 0 {
			return err
		}
		fmt.Fprintf(stdout, "Created category %d %q.\n", created.ID, created.Name)
		return err
	})
}

type categoriesUpdateCmd struct {
	name  string
	icon  string
	color string
}

func (*categoriesUpdateCmd) Name() string     { return "update" }
func (*categoriesUpdateCmd) Synopsis() string { return "rename or restyle a category" }
func (*categoriesUpdateCmd) Usage() string {
	return `update [-name <name>] [-icon <icon>] [-color <color>] ID

  Changes the given fields of the category ID, the others are left untouched.
`
}
func (c *categoriesUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name.")
	f.StringVar(&c.icon, "icon", "", "New icon.")
	f.StringVar(&c.color, "color", "", "New color.")
}

func (c *categoriesUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "category")
	if err != nil {
		return failure(err)
	}
	var patch budget.CategoryPatch
	visited := setFlags(f)
	if visited["name"] {
		patch.Name = &c.name
	}
	if visited["icon"] {
		patch.Icon = &c.icon
	}
	if visited["color"] {
		patch.Color = &c.color
	}
	if len(visited) == 0 {
		return failure(usagef("nothing to update"))
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		updated, err := a.client.UpdateCategory(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Updated category %d %q.\n", updated.ID, updated.Name)
		return nil
	})
}

// setFlags returns the names of the flags given on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}
