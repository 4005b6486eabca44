package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline is the structure of a markdown document.
type outline struct {
	headings []string
	tables   [][]int // cells per row, header included
	items    int
}

func parse(t *testing.T, doc string) outline {
	t.Helper()
	source := []byte(doc)
	root := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser().Parse(text.NewReader(source))
	var o outline
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			o.headings = append(o.headings, string(n.Text(source)))
		case *east.Table:
			o.tables = append(o.tables, nil)
		case *east.TableHeader, *east.TableRow:
			last := len(o.tables) - 1
			o.tables[last] = append(o.tables[last], n.ChildCount())
		case *ast.ListItem:
			o.items++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("Walk() unexpected error: %v", err)
	}
	return o
}

func ptr[T any](v T) *T { return &v }

func TestTemplates(t *testing.T) {
	r := New(budget.USD)
	food := budget.Category{ID: 1, Name: "Food & Dining", Type: budget.Expense, IsDefault: true}
	testCases := []struct {
		name string
		doc  string
		rows int
	}{
		{name: "categories", doc: r.Categories([]budget.Category{food, {ID: 16, Name: "Pets", Type: budget.Expense}}), rows: 2},
		{name: "transactions", doc: r.Transactions([]budget.Transaction{
			{ID: 3, Amount: 12.5, Type: budget.Expense, Date: date.New(2026, 1, 2), Category: food, Description: ptr("lunch | team")},
		}), rows: 1},
		{name: "budgets", doc: r.Budgets([]budget.Budget{{ID: 4, Amount: 300, Month: date.NewMonth(2026, 1), Category: food}}), rows: 1},
		{name: "budget status", doc: r.BudgetStatus([]budget.BudgetStatus{{CategoryName: "Food & Dining", Budgeted: 300, Spent: 320, Remaining: -20, PercentageUsed: 106.7}}), rows: 1},
		{name: "recurring", doc: r.Recurring([]budget.RecurringTransaction{{ID: 5, Amount: 1200, Frequency: date.Monthly, NextRunDate: date.New(2026, 2, 1), IsActive: true}}), rows: 1},
		{name: "goals", doc: r.Goals([]budget.Goal{{ID: 6, Name: "Bike", TargetAmount: 500, CurrentAmount: 125, ProgressPercentage: 25, Deadline: date.New(2026, 6, 1)}}), rows: 1},
		{name: "connections", doc: r.Connections([]budget.BankConnection{{ID: 7, BankName: "Chase Bank", AccountName: "Checking", AccountType: "checking", Balance: 2450.75}}), rows: 1},
		{name: "pending", doc: r.Pending([]budget.PendingTransaction{{ID: 8, MerchantName: "Starbucks", Amount: 6.45, Date: date.New(2026, 1, 3), SuggestedCategory: &food}}), rows: 1},
		{name: "balances", doc: r.Balances([]budget.BankBalance{{BankName: "Chase Bank", AccountName: "Savings", AccountType: "savings", Balance: 10250}}), rows: 1},
		{name: "rates", doc: r.Rates(&budget.ExchangeRates{Provider: "static", Rates: map[string]float64{"USD_EUR": 0.92, "EUR_USD": 1.087}}), rows: 2},
		{name: "import preview", doc: r.ImportPreview(budget.ImportPreview{Rows: []budget.ImportRow{{Date: "2026-01-01", Amount: 3, Type: budget.Expense, Category: "Food & Dining"}}}), rows: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if strings.HasPrefix(tc.doc, "error") {
				t.Fatalf("rendering failed: %s", tc.doc)
			}
			o := parse(t, tc.doc)
			if len(o.headings) == 0 {
				t.Errorf("no title in:\n%s", tc.doc)
			}
			if len(o.tables) != 1 {
				t.Fatalf("got %d tables, want 1 in:\n%s", len(o.tables), tc.doc)
			}
			table := o.tables[0]
			if got := len(table) - 1; got != tc.rows {
				t.Errorf("got %d rows, want %d in:\n%s", got, tc.rows, tc.doc)
			}
			for i, cells := range table {
				if cells != table[0] {
					t.Errorf("row %d has %d cells, want %d in:\n%s", i, cells, table[0], tc.doc)
				}
			}
		})
	}
}

func TestTransactionsAmounts(t *testing.T) {
	doc := New(budget.EUR).Transactions([]budget.Transaction{
		{ID: 1, Amount: 1234.5, Type: budget.Income, Date: date.New(2026, 1, 1)},
		{ID: 2, Amount: 12.5, Type: budget.Expense, Date: date.New(2026, 1, 2)},
	})
	for _, want := range []string{"1.234,50\u00a0€", "-12,50\u00a0€"} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %q in:\n%s", want, doc)
		}
	}
}

func TestEmptyLists(t *testing.T) {
	r := New(budget.USD)
	for _, doc := range []string{r.Transactions(nil), r.Goals(nil), r.Pending(nil), r.Balances(nil)} {
		if o := parse(t, doc); len(o.tables) != 0 {
			t.Errorf("an empty list rendered a table:\n%s", doc)
		}
	}
}

func TestImportPreviewErrors(t *testing.T) {
	doc := New(budget.USD).ImportPreview(budget.ImportPreview{Errors: []string{"Row 2: Amount must be positive", "Row 3: Type must be 'income' or 'expense'"}})
	o := parse(t, doc)
	if o.items != 2 || len(o.tables) != 0 {
		t.Errorf("got %d items and %d tables, want 2 items and no table in:\n%s", o.items, len(o.tables), doc)
	}
}

func TestReports(t *testing.T) {
	r := New(budget.GBP)
	jan := date.NewMonth(2026, 1)

	summary := r.Summary(budget.MonthlySummary{Month: jan, Income: 3200, Expenses: 1250.4, Net: 1949.6})
	if o := parse(t, summary); len(o.tables) != 1 || !strings.Contains(summary, "£1,949.60") {
		t.Errorf("unexpected summary:\n%s", summary)
	}

	breakdown := r.Breakdown(jan, []budget.CategoryBreakdown{
		{CategoryName: "Food & Dining", Type: budget.Expense, Total: 75},
		{CategoryName: "Shopping", Type: budget.Expense, Total: 25},
		{CategoryName: "Salary", Type: budget.Income, Total: 3200},
	})
	for _, want := range []string{"75.0%", "25.0%", "100.0%"} {
		if !strings.Contains(breakdown, want) {
			t.Errorf("missing share %q in:\n%s", want, breakdown)
		}
	}

	trends := r.Trends([]budget.MonthlySummary{
		{Month: jan, Income: 100, Net: 100},
		{Month: jan.Add(1), Expenses: 30, Net: -30},
	})
	if o := parse(t, trends); len(o.tables) != 1 || len(o.tables[0]) != 3 {
		t.Errorf("unexpected trends:\n%s", trends)
	}
	if !strings.Contains(trends, "£70.00") {
		t.Errorf("missing cumulated net in:\n%s", trends)
	}
}

func TestStatus(t *testing.T) {
	doc := New(budget.USD).Status(StatusView{Server: "http://localhost:8000/api", Healthy: true, IsSetup: true, Currency: budget.EUR})
	if o := parse(t, doc); o.items != 4 {
		t.Errorf("got %d items, want 4 in:\n%s", o.items, doc)
	}
	if !strings.Contains(doc, "Euro") {
		t.Errorf("missing currency name in:\n%s", doc)
	}
}

func TestDashboardSkipsEmptySections(t *testing.T) {
	doc := New(budget.USD).Dashboard(Dashboard{
		Month:   date.NewMonth(2026, 1),
		Summary: budget.MonthlySummary{Income: 10, Net: 10},
		Goals:   []budget.Goal{{Name: "Bike", TargetAmount: 500, CurrentAmount: 100, ProgressPercentage: 20}},
	})
	got := parse(t, doc).headings
	want := []string{"Dashboard 2026-01", "Goals"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("headings = %q, want %q", got, want)
	}
}
