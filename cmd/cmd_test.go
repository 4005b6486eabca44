package cmd

import (
	"bytes"
	"context"
	"flag"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/etnz/budget/internal/fakeapi"
	"github.com/google/subcommands"
)

// harness runs budgetctl command lines against a fake API.
type harness struct {
	fake      *fakeapi.Server
	url       string
	tokenFile string
	out, err  bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	h := &harness{fake: fake, url: srv.URL + fakeapi.Prefix, tokenFile: filepath.Join(t.TempDir(), "token")}
	savedConfig, savedURL, savedToken, savedVerbose := *configFile, *apiURL, *tokenFile, *Verbose
	savedIn, savedOut, savedErr := stdin, stdout, stderr
	t.Cleanup(func() {
		*configFile, *apiURL, *tokenFile, *Verbose = savedConfig, savedURL, savedToken, savedVerbose
		stdin, stdout, stderr, lines = savedIn, savedOut, savedErr, nil
	})
	for _, key := range []string{"BUDGET_API_URL", "BUDGET_TOKEN_FILE", "BUDGET_TIMEOUT", "BUDGET_CURRENCY", "BUDGET_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	*configFile, *apiURL, *tokenFile, *Verbose = "", h.url, h.tokenFile, false
	return h
}

// run executes the command line, input answers the prompts.
func (h *harness) run(input string, args ...string) subcommands.ExitStatus {
	h.out.Reset()
	h.err.Reset()
	stdin, stdout, stderr, lines = strings.NewReader(input), &h.out, &h.err, nil

	f := flag.NewFlagSet("budgetctl", flag.ContinueOnError)
	f.Parse(args)
	commander := subcommands.NewCommander(f, "budgetctl")
	commander.Output, commander.Error = &h.out, &h.err
	Register(commander)
	return commander.Execute(context.Background())
}

// must runs the command line and fails the test if it does not succeed.
func (h *harness) must(t *testing.T, input string, args ...string) string {
	t.Helper()
	if status := h.run(input, args...); status != subcommands.ExitSuccess {
		t.Fatalf("budgetctl %s = %v, want success\nstdout: %s\nstderr: %s", strings.Join(args, " "), status, h.out.String(), h.err.String())
	}
	return h.out.String()
}

// loggedIn returns a harness with a PIN set up and a session.
func loggedIn(t *testing.T) *harness {
	h := newHarness(t)
	h.must(t, "1234\n1234\n", "setup")
	return h
}

var idPattern = regexp.MustCompile(`(?:transaction|budget|goal|rule|category|as) (\d+)`)

// createdID extracts the id printed by a create command.
func createdID(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no id in %q", out)
	}
	return m[1]
}

func TestSessionCommands(t *testing.T) {
	h := newHarness(t)

	out := h.must(t, "", "status")
	if !strings.Contains(out, "PIN set up: no") || !strings.Contains(out, "healthy: yes") {
		t.Errorf("unexpected status of a fresh server:\n%s", out)
	}

	h.must(t, "1234\n1234\n", "setup")
	if _, err := os.Stat(h.tokenFile); err != nil {
		t.Fatalf("setup did not save the token: %v", err)
	}

	out = h.must(t, "", "status")
	for _, want := range []string{"PIN set up: yes", "Logged in: yes", "Token expires:"} {
		if !strings.Contains(out, want) {
			t.Errorf("status is missing %q:\n%s", want, out)
		}
	}

	if status := h.run("0000\n", "login"); status != subcommands.ExitFailure {
		t.Errorf("login with a wrong PIN = %v, want failure", status)
	}
	if got := h.err.String(); !strings.Contains(got, "Error: Invalid PIN") || strings.Contains(got, "budgetctl login") {
		t.Errorf("unexpected error of a wrong PIN:\n%s", got)
	}

	h.must(t, "", "logout")
	if _, err := os.Stat(h.tokenFile); !os.IsNotExist(err) {
		t.Errorf("logout left the token file, stat error = %v", err)
	}
	if status := h.run("", "categories", "list"); status != subcommands.ExitFailure {
		t.Errorf("categories list after logout = %v, want failure", status)
	}
	if got := h.err.String(); !strings.Contains(got, "Not authenticated") || !strings.Contains(got, "budgetctl login") {
		t.Errorf("unexpected error after logout:\n%s", got)
	}

	h.must(t, "1234\n", "login")
	h.must(t, "1234\n4321\n4321\n", "change-pin")
	h.must(t, "4321\n", "login")
}

func TestFlagsOverrideInvalidSettings(t *testing.T) {
	h := newHarness(t)
	t.Setenv("BUDGET_API_URL", "not a url")
	t.Setenv("BUDGET_LOG_LEVEL", "loud")

	*Verbose = true
	if out := h.must(t, "", "status"); !strings.Contains(out, "healthy: yes") {
		t.Errorf("status with the -api-url and -v flags:\n%s", out)
	}

	*apiURL, *Verbose = "", false
	if status := h.run("", "status"); status == subcommands.ExitSuccess {
		t.Errorf("status with an invalid BUDGET_API_URL succeeded")
	}
	if got := h.err.String(); !strings.Contains(got, "invalid configuration") {
		t.Errorf("unexpected error of an invalid BUDGET_API_URL:\n%s", got)
	}
}

func TestPinPrompts(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		args  []string
		want  subcommands.ExitStatus
	}{
		{name: "mismatch", input: "1234\n5678\n", args: []string{"setup"}, want: subcommands.ExitUsageError},
		{name: "too short", input: "12\n12\n", args: []string{"setup"}, want: subcommands.ExitUsageError},
		{name: "not digits", input: "abcd\nabcd\n", args: []string{"setup"}, want: subcommands.ExitUsageError},
		{name: "no input", input: "", args: []string{"login"}, want: subcommands.ExitFailure},
		{name: "no trailing newline", input: "1234\n1234", args: []string{"setup"}, want: subcommands.ExitSuccess},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			if got := h.run(tc.input, tc.args...); got != tc.want {
				t.Errorf("budgetctl %v = %v, want %v\nstderr: %s", tc.args, got, tc.want, h.err.String())
			}
		})
	}
}

func TestUsageErrors(t *testing.T) {
	testCases := [][]string{
		{"transactions", "add", "-c", "1", "abc"},
		{"transactions", "add", "12"},
		{"transactions", "add", "-c", "1", "-t", "gift", "12"},
		{"transactions", "list", "-s", "2026-02-01", "-d", "2026-01-01"},
		{"transactions", "update", "3"},
		{"categories", "add", "-t", "expense"},
		{"categories", "rm", "x"},
		{"goals", "add", "-target", "0", "-deadline", "2026-12-31", "Bike"},
		{"goals", "contribute", "4"},
		{"budgets", "add", "-c", "1", "-m", "2026-13", "100"},
		{"recurring", "update", "-active", "maybe", "2"},
		{"report", "trends", "-n", "30"},
		{"bank", "connect", "-bank", "Chase Bank", "-account", "Checking", "-type", "brokerage"},
		{"import", "csv"},
		{"convert", "1", "USD"},
		{"convert", "1", "USD", "JPY"},
		{"currency", "EUR", "GBP"},
	}
	h := loggedIn(t)
	for _, args := range testCases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if got := h.run("", args...); got != subcommands.ExitUsageError {
				t.Errorf("got %v, want a usage error\nstderr: %s", got, h.err.String())
			}
		})
	}
}

func TestTransactionCommands(t *testing.T) {
	h := loggedIn(t)

	id := createdID(t, h.must(t, "", "transactions", "add", "-c", "1", "-d", "2026-01-05", "-desc", "lunch", "12.5"))
	h.must(t, "", "transactions", "add", "-c", "11", "-t", "income", "-d", "2026-01-01", "3200")
	h.must(t, "", "transactions", "add", "-c", "1", "-d", "2026-02-01", "99")

	out := h.must(t, "", "transactions", "list", "-m", "2026-01")
	for _, want := range []string{"-$12.50", "$3,200.00", "lunch", "Food & Dining"} {
		if !strings.Contains(out, want) {
			t.Errorf("list is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "$99.00") {
		t.Errorf("list -m 2026-01 shows a February transaction:\n%s", out)
	}

	out = h.must(t, "", "transactions", "list", "-t", "income")
	if strings.Contains(out, "lunch") || !strings.Contains(out, "$3,200.00") {
		t.Errorf("list -t income is wrong:\n%s", out)
	}

	h.must(t, "", "transactions", "update", "-a", "15", "-desc", "team lunch", id)
	out = h.must(t, "", "transactions", "list", "-c", "1", "-head", "5")
	if !strings.Contains(out, "team lunch") || !strings.Contains(out, "-$15.00") {
		t.Errorf("update was not applied:\n%s", out)
	}

	h.must(t, "", "transactions", "rm", id)
	if status := h.run("", "transactions", "rm", id); status != subcommands.ExitFailure {
		t.Errorf("deleting twice = %v, want failure", status)
	}
}

func TestCategoryCommands(t *testing.T) {
	h := loggedIn(t)
	id := createdID(t, h.must(t, "", "categories", "add", "-t", "expense", "-color", "#123456", "Pets"))
	h.must(t, "", "categories", "update", "-name", "Pet care", id)

	out := h.must(t, "", "categories", "list", "-t", "expense")
	if !strings.Contains(out, "Pet care") || strings.Contains(out, "Salary") {
		t.Errorf("unexpected expense categories:\n%s", out)
	}

	if status := h.run("", "categories", "rm", "1"); status != subcommands.ExitFailure {
		t.Errorf("deleting a default category = %v, want failure", status)
	}
	if !strings.Contains(h.err.String(), "Cannot delete default categories") {
		t.Errorf("unexpected error: %s", h.err.String())
	}
	h.must(t, "", "categories", "rm", id)
}

func TestBudgetAndReportCommands(t *testing.T) {
	h := loggedIn(t)
	h.must(t, "", "budgets", "add", "-c", "1", "-m", "2026-01", "10")
	h.must(t, "", "transactions", "add", "-c", "1", "-d", "2026-01-05", "12.5")
	h.must(t, "", "transactions", "add", "-c", "11", "-t", "income", "-d", "2026-01-01", "100")

	if out := h.must(t, "", "budgets", "list", "-m", "2026-01"); !strings.Contains(out, "$10.00") {
		t.Errorf("unexpected budgets:\n%s", out)
	}
	if out := h.must(t, "", "budgets", "status", "-m", "2026-01"); !strings.Contains(out, "⚠") {
		t.Errorf("the overspent budget is not flagged:\n%s", out)
	}
	if out := h.must(t, "", "report", "summary", "-m", "2026-01"); !strings.Contains(out, "$87.50") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if out := h.must(t, "", "report", "breakdown", "-m", "2026-01"); !strings.Contains(out, "Food & Dining") {
		t.Errorf("unexpected breakdown:\n%s", out)
	}
	if out := h.must(t, "", "report", "trends", "-n", "3"); !strings.Contains(out, "Trends over 3 months") {
		t.Errorf("unexpected trends:\n%s", out)
	}
}

func TestRecurringAndGoalCommands(t *testing.T) {
	h := loggedIn(t)
	id := createdID(t, h.must(t, "", "recurring", "add", "-c", "3", "-f", "monthly", "-next", "2020-01-31", "-desc", "rent", "1200"))
	if out := h.must(t, "", "recurring", "process"); !strings.Contains(out, "Processed 1 ") {
		t.Errorf("unexpected process result: %s", out)
	}
	if out := h.must(t, "", "recurring", "update", "-active", "false", id); !strings.Contains(out, "paused") {
		t.Errorf("unexpected update result: %s", out)
	}
	if out := h.must(t, "", "recurring", "list"); !strings.Contains(out, "2020-02-29") {
		t.Errorf("the next run was not moved to the end of February:\n%s", out)
	}

	goal := createdID(t, h.must(t, "", "goals", "add", "-target", "500", "-deadline", "2030-06-01", "Bike"))
	h.must(t, "", "goals", "contribute", goal, "125")
	out := h.must(t, "", "goals", "contribute", goal, "375")
	if !strings.Contains(out, "Goal reached!") {
		t.Errorf("unexpected contribution result: %s", out)
	}
	h.must(t, "", "goals", "update", "-name", "Road bike", goal)
	if out := h.must(t, "", "goals", "list"); !strings.Contains(out, "Road bike ✓") {
		t.Errorf("unexpected goals:\n%s", out)
	}
	h.must(t, "", "goals", "rm", goal)
	h.must(t, "", "recurring", "rm", id)
}

func TestCurrencyCommands(t *testing.T) {
	h := loggedIn(t)
	if out := h.must(t, "", "currency", "eur"); !strings.Contains(out, "* EUR") {
		t.Errorf("EUR is not the preference:\n%s", out)
	}
	h.must(t, "", "transactions", "add", "-c", "1", "-d", "2026-01-05", "12.5")
	if out := h.must(t, "", "transactions", "list"); !strings.Contains(out, "-12,50\u00a0€") {
		t.Errorf("amounts are not in EUR:\n%s", out)
	}
	if out := h.must(t, "", "convert", "100", "USD", "EUR"); out != "$100.00 = 92,00\u00a0€\n" {
		t.Errorf("convert = %q", out)
	}
	if out := h.must(t, "", "rates", "-refresh"); !strings.Contains(out, "USD_EUR") {
		t.Errorf("unexpected rates:\n%s", out)
	}
}

func TestBankCommands(t *testing.T) {
	h := loggedIn(t)
	if out := h.must(t, "", "bank", "banks"); !strings.Contains(out, "Wells Fargo") {
		t.Errorf("unexpected banks:\n%s", out)
	}
	conn := createdID(t, h.must(t, "", "bank", "connect", "-bank", "Chase Bank", "-account", "Checking"))
	if out := h.must(t, "", "bank", "sync", conn); !strings.Contains(out, "Synced 3 transactions") {
		t.Errorf("unexpected sync result: %s", out)
	}
	if out := h.must(t, "", "bank", "pending"); !strings.Contains(out, "Starbucks") {
		t.Errorf("unexpected pending:\n%s", out)
	}

	// the first synced transaction follows the connection.
	first, _ := strconv.Atoi(conn)
	h.must(t, "", "bank", "import", strconv.Itoa(first+1))
	h.must(t, "", "bank", "dismiss", strconv.Itoa(first+2))
	if out := h.must(t, "", "bank", "import-all"); !strings.Contains(out, "Imported 1 ") {
		t.Errorf("unexpected import-all result: %s", out)
	}
	if out := h.must(t, "", "bank", "balances"); !strings.Contains(out, "$2,450.75") {
		t.Errorf("unexpected balances:\n%s", out)
	}
	if out := h.must(t, "", "transactions", "list"); !strings.Contains(out, "Netflix") || strings.Contains(out, "Amazon") {
		t.Errorf("unexpected imported transactions:\n%s", out)
	}
	h.must(t, "", "bank", "rm", conn)
	if out := h.must(t, "", "bank", "list"); !strings.Contains(out, "No bank connected.") {
		t.Errorf("the connection was not removed:\n%s", out)
	}
}

func TestImportCSV(t *testing.T) {
	h := loggedIn(t)
	file := filepath.Join(t.TempDir(), "bank.csv")
	content := "date,amount,type,category,description\n" +
		"2026-01-02,12.50,expense,Food & Dining,lunch\n" +
		"2026-01-03,-4,expense,Shopping,\n" +
		"2026-01-04,3200,income,Salary,january\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out := h.must(t, "", "import", "csv", file)
	if !strings.Contains(out, "Row 3: Amount must be positive") {
		t.Errorf("the invalid row is not reported:\n%s", out)
	}
	if strings.Contains(out, "Imported") {
		t.Errorf("rows were imported without -confirm:\n%s", out)
	}

	if out := h.must(t, "", "import", "csv", "-confirm", file); !strings.Contains(out, "Imported 2 transactions.") {
		t.Errorf("unexpected import result:\n%s", out)
	}

	// "Café" in windows-1252.
	latin := filepath.Join(t.TempDir(), "latin.csv")
	content = "date,amount,type,category,description\n2026-01-02,3.20,expense,Food & Dining,Caf\xe9\n"
	if err := os.WriteFile(latin, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if out := h.must(t, "", "import", "csv", latin); !strings.Contains(out, "Café") {
		t.Errorf("the file was not decoded:\n%s", out)
	}
	if status := h.run("", "import", "csv", "-charset", "ebcdic", latin); status != subcommands.ExitUsageError {
		t.Errorf("unknown charset = %v, want a usage error", status)
	}
}

func TestToUTF8(t *testing.T) {
	testCases := []struct {
		data    string
		charset string
		want    string
	}{
		{data: "Café", charset: "auto", want: "Café"},
		{data: "Caf\xe9", charset: "auto", want: "Café"},
		{data: "Caf\xe9", charset: "ISO-8859-1", want: "Café"},
		{data: "\xa4", charset: "iso-8859-15", want: "€"},
		{data: "\xe4", charset: "windows-1251", want: "д"},
		{data: "Café", charset: "utf-8", want: "Café"},
	}
	for _, tc := range testCases {
		t.Run(tc.charset, func(t *testing.T) {
			got, err := toUTF8([]byte(tc.data), tc.charset)
			if err != nil {
				t.Fatalf("toUTF8(%q, %q) error: %v", tc.data, tc.charset, err)
			}
			if string(got) != tc.want {
				t.Errorf("toUTF8(%q, %q) = %q, want %q", tc.data, tc.charset, got, tc.want)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	h := loggedIn(t)
	h.must(t, "", "budgets", "add", "-c", "1", "-m", "2026-01", "10")
	h.must(t, "", "transactions", "add", "-c", "1", "-d", "2026-01-05", "12.5")
	h.must(t, "", "goals", "add", "-target", "500", "-deadline", "2030-06-01", "Bike")

	out := h.must(t, "", "dashboard", "-m", "2026-01")
	for _, want := range []string{"# Dashboard 2026-01", "1 of 1 budgets overspent", "Bike", "net **-$12.50**"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Accounts") {
		t.Errorf("dashboard shows accounts without connection:\n%s", out)
	}

	h.fake.Fail("GET", "/banking/balances", 500, "bank API down")
	if status := h.run("", "dashboard"); status != subcommands.ExitFailure || !strings.Contains(h.err.String(), "bank API down") {
		t.Errorf("dashboard = %v with %q, want the failure reported", status, h.err.String())
	}
}

func TestCompletion(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("budgetctl", flag.ContinueOnError), "budgetctl")
	Register(commander)
	root := Completion(commander)

	bank, ok := root.Sub["bank"]
	if !ok {
		t.Fatalf("no completion for bank")
	}
	if _, ok := bank.Sub["import-all"]; !ok {
		t.Errorf("no completion for bank import-all")
	}
	add := root.Sub["transactions"].Sub["add"]
	if got := add.Flags["t"].Predict(""); strings.Join(got, ",") != "income,expense" {
		t.Errorf("transactions add -t predicts %v", got)
	}
	if got := root.Sub["currency"].Args.Predict(""); strings.Join(got, ",") != "USD,EUR,GBP" {
		t.Errorf("currency predicts %v", got)
	}
	if got := root.Sub["recurring"].Sub["add"].Flags["f"]; got == nil || len(got.Predict("")) != 3 {
		t.Errorf("recurring add -f is not completed")
	}
	if root.Sub["import"].Sub["csv"].Args == nil {
		t.Errorf("import csv does not complete files")
	}
	if got := root.Flags["v"].Predict(""); len(got) != 0 {
		t.Errorf("-v predicts %v, want nothing", got)
	}
}

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	h := newHarness(t)
	dir := t.TempDir()
	script := "#!/bin/sh\necho \"url=$BUDGET_API_URL\"\necho \"token=$BUDGET_TOKEN_FILE\"\necho \"args=$*\"\nexit 3\n"
	if err := os.WriteFile(filepath.Join(dir, ExtensionPrefix+"hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	stdout, stderr = &h.out, &h.err

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found || code != 3 {
		t.Fatalf("RunExtension() = %v, %d, want true, 3", found, code)
	}
	for _, want := range []string{"url=" + h.url, "token=" + h.tokenFile, "args=a b"} {
		if !strings.Contains(h.out.String(), want) {
			t.Errorf("extension output is missing %q:\n%s", want, h.out.String())
		}
	}

	if found, _ := RunExtension("missing", nil); found {
		t.Errorf("RunExtension(missing) found an extension")
	}
}
