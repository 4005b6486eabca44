// Package renderer renders budget records and reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/etnz/budget"
)

//go:embed templates/*.md
var templates embed.FS

// Renderer renders amounts in a single currency.
type Renderer struct {
	Currency budget.Currency
}

// New returns a renderer formatting amounts in currency.
func New(currency budget.Currency) *Renderer { return &Renderer{Currency: currency} }

func (r *Renderer) money(amount float64) string { return budget.FormatCurrency(amount, r.Currency) }

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"money": r.money,
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"opt": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"cell": cell,
		"join": strings.Join,
		"keys": func(m map[string]float64) []string { return slices.Sorted(maps.Keys(m)) },
	}
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// renderTemplate executes the template file with data.
func (r *Renderer) renderTemplate(file string, data any) string {
	content, err := fs.ReadFile(templates, "templates/"+file)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", file, err)
	}
	tmpl, err := template.New(file).Funcs(r.funcs()).Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", file, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", file, err)
	}
	return b.String()
}

func (r *Renderer) Categories(list []budget.Category) string {
	return r.renderTemplate("categories.md", list)
}

func (r *Renderer) Transactions(list []budget.Transaction) string {
	return r.renderTemplate("transactions.md", list)
}

func (r *Renderer) Budgets(list []budget.Budget) string {
	return r.renderTemplate("budgets.md", list)
}

// BudgetStatus renders the consumption of each budget, flagging overspent ones.
func (r *Renderer) BudgetStatus(list []budget.BudgetStatus) string {
	return r.renderTemplate("budget_status.md", list)
}

func (r *Renderer) Recurring(list []budget.RecurringTransaction) string {
	return r.renderTemplate("recurring.md", list)
}

// Goals renders the goals, flagging reached ones.
func (r *Renderer) Goals(list []budget.Goal) string {
	return r.renderTemplate("goals.md", list)
}

func (r *Renderer) Banks(list []budget.BankInfo) string {
	return r.renderTemplate("banks.md", list)
}

func (r *Renderer) Connections(list []budget.BankConnection) string {
	return r.renderTemplate("connections.md", list)
}

func (r *Renderer) Pending(list []budget.PendingTransaction) string {
	return r.renderTemplate("pending.md", list)
}

func (r *Renderer) Balances(list []budget.BankBalance) string {
	return r.renderTemplate("balances.md", list)
}

// Rates renders the exchange rates sorted by pair.
func (r *Renderer) Rates(rates *budget.ExchangeRates) string {
	if rates == nil {
		return "# Exchange rates\n\nNo rates loaded.\n"
	}
	return r.renderTemplate("rates.md", rates)
}

func (r *Renderer) ImportPreview(p budget.ImportPreview) string {
	return r.renderTemplate("import_preview.md", p)
}
