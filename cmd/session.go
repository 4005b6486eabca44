package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/etnz/budget/api"
	"github.com/etnz/budget/renderer"
	"github.com/google/subcommands"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the server health and the session state" }
func (*statusCmd) Usage() string {
	return `budgetctl status

  Checks that the API is up, whether a PIN is set up, whether a session token
  is held and when it expires, and the preferred currency.
`
}
func (*statusCmd) SetFlags(f *flag.FlagSet) {}

func (*statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		view := renderer.StatusView{Server: a.client.BaseURL()}
		if _, err := a.client.HealthCheck(ctx); err != nil {
			a.logger.Warn("health check failed", slog.Any("error", err))
		} else {
			view.Healthy = true
		}
		a.auth.CheckStatus(ctx)
		a.currency.Load(ctx)
		state := a.auth.Get()
		view.IsSetup, view.Authenticated = state.IsSetup, state.IsAuthenticated
		view.Currency = a.currency.Current()
		if token, ok := a.client.Session().Token(); ok {
			if exp, err := api.TokenExpiry(token); err == nil {
				view.Expiry = exp.Local().Format(time.DateTime)
				if time.Until(exp) <= 0 {
					view.Expiry += " (expired)"
				}
			}
		}
		printMarkdown(renderer.New(view.Currency).Status(view))
		return nil
	})
}

type setupCmd struct{}

func (*setupCmd) Name() string     { return "setup" }
func (*setupCmd) Synopsis() string { return "create the PIN and log in" }
func (*setupCmd) Usage() string {
	return `budgetctl setup

  Creates the PIN protecting the budget. It can only be done once.
  The PIN is 4 to 6 digits, it is asked twice.
`
}
func (*setupCmd) SetFlags(f *flag.FlagSet) {}

func (*setupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		pin, err := readPin("New PIN: ")
		if err != nil {
			return err
		}
		again, err := readSecret("Confirm PIN: ")
		if err != nil {
			return err
		}
		if again != pin {
			return usagef("PINs do not match")
		}
		if err := a.auth.Setup(ctx, pin); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "PIN set up, you are logged in.")
		return nil
	})
}

type loginCmd struct{}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "start a session" }
func (*loginCmd) Usage() string {
	return `budgetctl login

  Asks for the PIN and saves the session token in the token file.
`
}
func (*loginCmd) SetFlags(f *flag.FlagSet) {}

func (*loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		pin, err := readPin("PIN: ")
		if err != nil {
			return err
		}
		if err := a.auth.Login(ctx, pin); err != nil {
			var reqErr *api.RequestError
			if errors.As(err, &reqErr) {
				// a wrong PIN is a 401 too, there is no session to renew.
				return errors.New(reqErr.Detail)
			}
			return err
		}
		fmt.Fprintln(stdout, "Logged in.")
		return nil
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session" }
func (*logoutCmd) Usage() string {
	return `budgetctl logout

  Forgets the session token. The PIN is kept.
`
}
func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		if err := a.auth.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Logged out.")
		return nil
	})
}

type changePinCmd struct{}

func (*changePinCmd) Name() string     { return "change-pin" }
func (*changePinCmd) Synopsis() string { return "replace the PIN" }
func (*changePinCmd) Usage() string {
	return `budgetctl change-pin

  Asks for the current PIN, then twice for the new one. The session is kept.
`
}
func (*changePinCmd) SetFlags(f *flag.FlagSet) {}

func (*changePinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		current, err := readPin("Current PIN: ")
		if err != nil {
			return err
		}
		next, err := readPin("New PIN: ")
		if err != nil {
			return err
		}
		again, err := readSecret("Confirm new PIN: ")
		if err != nil {
			return err
		}
		if again != next {
			return usagef("PINs do not match")
		}
		if err := a.client.ChangePin(ctx, current, next); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "PIN changed.")
		return nil
	})
}
