package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/budget"
	"github.com/etnz/budget/store"
	"github.com/google/subcommands"
)

func bankCmd() *group {
	return &group{
		name:     "bank",
		synopsis: "connect bank accounts and review their transactions",
		commands: []subcommands.Command{
			&bankBanksCmd{},
			&bankListCmd{},
			&bankConnectCmd{},
			&deleteCmd{noun: "bank connection", delete: func(ctx context.Context, a *app, id int) error {
				return store.BankConnections(a.client, a.logger).Delete(ctx, id)
			}},
			&bankSyncCmd{},
			&bankPendingCmd{},
			&bankImportCmd{},
			&bankDismissCmd{},
			&bankImportAllCmd{},
			&bankBalancesCmd{},
		},
	}
}

type bankBanksCmd struct{}

func (*bankBanksCmd) Name() string             { return "banks" }
func (*bankBanksCmd) Synopsis() string         { return "list the banks that can be connected" }
func (*bankBanksCmd) Usage() string            { return "banks\n" }
func (*bankBanksCmd) SetFlags(f *flag.FlagSet) {}

func (*bankBanksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		banks, err := a.client.Banks(ctx)
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Banks(banks))
		return nil
	})
}

type bankListCmd struct{}

func (*bankListCmd) Name() string             { return "list" }
func (*bankListCmd) Synopsis() string         { return "list the connected accounts" }
func (*bankListCmd) Usage() string            { return "list\n" }
func (*bankListCmd) SetFlags(f *flag.FlagSet) {}

func (*bankListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		connections := store.BankConnections(a.client, a.logger)
		if err := connections.Load(ctx); err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Connections(connections.Get()))
		return nil
	})
}

type bankConnectCmd struct {
	bank    string
	account string
	kind    string
}

func (*bankConnectCmd) Name() string     { return "connect" }
func (*bankConnectCmd) Synopsis() string { return "connect a bank account" }
func (*bankConnectCmd) Usage() string {
	return `connect -bank <bank> -account <name> [-type checking|savings|credit]

  Connects an account of one of the available banks, see "budgetctl bank banks".
`
}
func (c *bankConnectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.bank, "bank", "", "Bank name.")
	f.StringVar(&c.account, "account", "", "Account name.")
	f.StringVar(&c.kind, "type", "checking", "Account type: checking, savings or credit.")
}

func (c *bankConnectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data := budget.NewBankConnection{BankName: c.bank, AccountName: c.account, AccountType: c.kind}
	if err := check(data); err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		created, err := store.BankConnections(a.client, a.logger).Create(ctx, data)
		if created.ID == 0 {
			return err
		}
		fmt.Fprintf(stdout, "Connected %s %s as %d, balance %s.\n",
			created.BankName, created.AccountName, created.ID, a.renderer(ctx).Currency.Format(created.Balance))
		return err
	})
}

type bankSyncCmd struct{}

func (*bankSyncCmd) Name() string             { return "sync" }
func (*bankSyncCmd) Synopsis() string         { return "fetch the new transactions of an account" }
func (*bankSyncCmd) Usage() string            { return "sync ID\n\n  Synced transactions wait in the pending list.\n" }
func (*bankSyncCmd) SetFlags(f *flag.FlagSet) {}

func (*bankSyncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "bank connection")
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		result, err := a.client.SyncBankConnection(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Synced %d transactions, balance %s.\n", result.Synced, a.renderer(ctx).Currency.Format(result.Balance))
		return nil
	})
}

type bankPendingCmd struct{}

func (*bankPendingCmd) Name() string             { return "pending" }
func (*bankPendingCmd) Synopsis() string         { return "list the synced transactions waiting for review" }
func (*bankPendingCmd) Usage() string            { return "pending\n" }
func (*bankPendingCmd) SetFlags(f *flag.FlagSet) {}

func (*bankPendingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		pending, err := a.client.PendingTransactions(ctx)
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Pending(pending))
		return nil
	})
}

type bankImportCmd struct {
	category int
}

func (*bankImportCmd) Name() string     { return "import" }
func (*bankImportCmd) Synopsis() string { return "record a pending transaction" }
func (*bankImportCmd) Usage() string {
	return `import [-c <category_id>] ID

  Records the pending transaction ID, in its suggested category unless -c is given.
`
}
func (c *bankImportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.category, "c", 0, "Category id, instead of the suggested one.")
}

func (c *bankImportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "pending transaction")
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		category := c.category
		if category == 0 {
			var err error
			if category, err = suggestedCategory(ctx, a, id); err != nil {
				return err
			}
		}
		result, err := a.client.ImportPending(ctx, id, category)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Recorded as transaction %d.\n", result.TransactionID)
		return nil
	})
}

// suggestedCategory returns the category suggested for the pending transaction id.
func suggestedCategory(ctx context.Context, a *app, id int) (int, error) {
	pending, err := a.client.PendingTransactions(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range pending {
		if p.ID != id {
			continue
		}
		if p.SuggestedCategoryID == nil {
			return 0, usagef("no category suggested for pending transaction %d, use -c", id)
		}
		return *p.SuggestedCategoryID, nil
	}
	return 0, fmt.Errorf("pending transaction %d not found", id)
}

type bankDismissCmd struct{}

func (*bankDismissCmd) Name() string             { return "dismiss" }
func (*bankDismissCmd) Synopsis() string         { return "ignore a pending transaction" }
func (*bankDismissCmd) Usage() string            { return "dismiss ID\n" }
func (*bankDismissCmd) SetFlags(f *flag.FlagSet) {}

func (*bankDismissCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := argID(f, 0, "pending transaction")
	if err != nil {
		return failure(err)
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.client.DismissPending(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Dismissed pending transaction %d.\n", id)
		return nil
	})
}

type bankImportAllCmd struct{}

func (*bankImportAllCmd) Name() string     { return "import-all" }
func (*bankImportAllCmd) Synopsis() string { return "record every pending transaction" }
func (*bankImportAllCmd) Usage() string {
	return "import-all\n\n  Records every pending transaction in its suggested category.\n"
}
func (*bankImportAllCmd) SetFlags(f *flag.FlagSet) {}

func (*bankImportAllCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		result, err := a.client.ImportAllPending(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Imported %d transactions.\n", result.Imported)
		return nil
	})
}

type bankBalancesCmd struct{}

func (*bankBalancesCmd) Name() string             { return "balances" }
func (*bankBalancesCmd) Synopsis() string         { return "show the balance of each account" }
func (*bankBalancesCmd) Usage() string            { return "balances\n" }
func (*bankBalancesCmd) SetFlags(f *flag.FlagSet) {}

func (*bankBalancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		balances, err := a.client.BankBalances(ctx)
		if err != nil {
			return err
		}
		printMarkdown(a.renderer(ctx).Balances(balances))
		return nil
	})
}
