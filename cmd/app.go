// Package cmd implements budgetctl, the command line client of the budgeting API.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/budget"
	"github.com/etnz/budget/api"
	"github.com/etnz/budget/config"
	"github.com/etnz/budget/renderer"
	"github.com/etnz/budget/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/subcommands"
	"golang.org/x/term"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&statusCmd{}, "session")
	c.Register(&setupCmd{}, "session")
	c.Register(&loginCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&changePinCmd{}, "session")

	c.Register(&currencyCmd{}, "currency")
	c.Register(&ratesCmd{}, "currency")
	c.Register(&convertCmd{}, "currency")

	c.Register(categoriesCmd(), "records")
	c.Register(transactionsCmd(), "records")
	c.Register(budgetsCmd(), "records")
	c.Register(recurringCmd(), "records")
	c.Register(goalsCmd(), "records")
	c.Register(importCmd(), "records")
	c.Register(bankCmd(), "records")

	c.Register(reportCmd(), "reports")
	c.Register(&dashboardCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultPath(), "Path to the YAML configuration file")
var apiURL = flag.String("api-url", "", "Address of the budgeting API, overrides the configuration")
var tokenFile = flag.String("token-file", "", "Path to the session token file, overrides the configuration")
var Verbose = flag.Bool("v", false, "Log every API call")

// envFile is the dotenv file read from the working directory.
const envFile = ".env"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var validate = validator.New()

// app is what a command needs to talk to the API.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *api.Client
	auth     *store.Auth
	currency *store.Currency

	preferenceOnce sync.Once
}

// settings returns the configuration with the global flags applied.
func settings() (*config.Config, error) {
	cfg, err := config.Load(*configFile, envFile)
	if err != nil {
		return nil, err
	}
	if *apiURL != "" {
		cfg.API.URL = *apiURL
	}
	if *tokenFile != "" {
		cfg.TokenFile = *tokenFile
	}
	if *Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// open builds the API client and the stores from the settings.
func open() (*app, error) {
	cfg, err := settings()
	if err != nil {
		return nil, err
	}
	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	session, err := api.NewSession(api.NewFileTokenStore(cfg.TokenFile))
	if err != nil {
		logger.Warn("starting without a session", slog.Any("error", err))
	}
	client := api.New(cfg.API.URL, session,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithLogger(logger))

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		auth:     store.NewAuth(client, logger),
		currency: store.NewCurrency(client, logger),
	}, nil
}

// displayCurrency returns the configured currency, or else the user's preference.
func (a *app) displayCurrency(ctx context.Context) budget.Currency {
	if a.cfg.Currency != "" {
		return a.cfg.Currency
	}
	a.preferenceOnce.Do(func() { a.currency.Load(ctx) })
	return a.currency.Current()
}

func (a *app) renderer(ctx context.Context) *renderer.Renderer {
	return renderer.New(a.displayCurrency(ctx))
}

// run opens the app and runs f, reporting its error.
func run(ctx context.Context, f func(context.Context, *app) error) subcommands.ExitStatus {
	a, err := open()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := f(ctx, a); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}

// usageError reports a command line that cannot be executed.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error { return &usageError{fmt.Sprintf(format, args...)} }

// failure prints err and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var usage *usageError
	switch {
	case errors.As(err, &usage):
		return subcommands.ExitUsageError
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(stderr, "Run 'budgetctl login' to start a new session.")
	}
	return subcommands.ExitFailure
}

// printMarkdown prints md, styled when stdout is a terminal.
func printMarkdown(md string) {
	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		out, err := glamour.Render(md, "auto")
		if err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}

// lines reads the answers to the prompts when stdin is not a terminal.
var lines *bufio.Reader

// readSecret prompts for a value without echoing it.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(stderr, prompt)
	defer fmt.Fprintln(stderr)
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		return string(secret), err
	}
	if lines == nil {
		lines = bufio.NewReader(stdin)
	}
	line, err := lines.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return trimEOL(line), nil
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// readPin prompts for a PIN and checks its shape.
func readPin(prompt string) (string, error) {
	pin, err := readSecret(prompt)
	if err != nil {
		return "", fmt.Errorf("cannot read PIN: %w", err)
	}
	if err := validate.Var(pin, "required,numeric,min=4,max=6"); err != nil {
		return "", usagef("a PIN is 4 to 6 digits")
	}
	return pin, nil
}

// check validates a payload before it is sent.
func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			f := fields[0]
			return usagef("invalid %s: must satisfy %s", f.Field(), constraint(f))
		}
		return err
	}
	return nil
}

func constraint(f validator.FieldError) string {
	if f.Param() == "" {
		return f.Tag()
	}
	return f.Tag() + " " + f.Param()
}

// argID parses the i-th argument as a record id.
func argID(f *flag.FlagSet, i int, what string) (int, error) {
	if f.NArg() <= i {
		return 0, usagef("missing %s id", what)
	}
	id, err := strconv.Atoi(f.Arg(i))
	if err != nil || id <= 0 {
		return 0, usagef("invalid %s id %q", what, f.Arg(i))
	}
	return id, nil
}

// argAmount parses the i-th argument as a positive amount.
func argAmount(f *flag.FlagSet, i int) (float64, error) {
	if f.NArg() <= i {
		return 0, usagef("missing amount")
	}
	amount, err := strconv.ParseFloat(f.Arg(i), 64)
	if err != nil || amount <= 0 {
		return 0, usagef("invalid amount %q, must be a positive number", f.Arg(i))
	}
	return amount, nil
}

// kindFlag is an optional income/expense flag.
type kindFlag struct{ kind budget.Kind }

func (k *kindFlag) String() string { return string(k.kind) }
func (k *kindFlag) Set(s string) (err error) {
	k.kind, err = budget.ParseKind(s)
	return err
}
