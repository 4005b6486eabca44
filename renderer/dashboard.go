package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
)

// Dashboard is the overview of a month.
type Dashboard struct {
	Month    date.Month
	Summary  budget.MonthlySummary
	Budgets  []budget.BudgetStatus
	Goals    []budget.Goal
	Balances []budget.BankBalance
	Pending  int
}

// Dashboard renders the overview, skipping the empty sections.
func (r *Renderer) Dashboard(d Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dashboard %s\n\n", d.Month)
	fmt.Fprintf(&b, "Income %s, expenses %s, net **%s**.\n\n", r.money(d.Summary.Income), r.money(d.Summary.Expenses), r.money(d.Summary.Net))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Budgets\n\n")
		over := 0
		for _, s := range d.Budgets {
			if s.Overspent() {
				over++
				fmt.Fprintf(w, "- %s: %s spent of %s\n", s.CategoryName, r.money(s.Spent), r.money(s.Budgeted))
			}
		}
		fmt.Fprintf(w, "\n%d of %d budgets overspent.\n\n", over, len(d.Budgets))
		return len(d.Budgets) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Goals\n\n")
		for _, g := range d.Goals {
			fmt.Fprintf(w, "- %s: %s of %s (%.1f%%)\n", g.Name, r.money(g.CurrentAmount), r.money(g.TargetAmount), g.ProgressPercentage)
		}
		fmt.Fprintln(w)
		return len(d.Goals) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Accounts\n\n")
		var total float64
		for _, a := range d.Balances {
			total += a.Balance
			fmt.Fprintf(w, "- %s %s: %s\n", a.BankName, a.AccountName, r.money(a.Balance))
		}
		fmt.Fprintf(w, "\nTotal: %s\n\n", r.money(total))
		return len(d.Balances) > 0
	})

	if d.Pending > 0 {
		fmt.Fprintf(&b, "%d bank transactions are waiting for review.\n", d.Pending)
	}
	return b.String()
}
