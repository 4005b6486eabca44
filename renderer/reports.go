package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	md "github.com/nao1215/markdown"
)

// Summary renders the income and expenses of a month.
func (r *Renderer) Summary(s budget.MonthlySummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Summary of %s", s.Month))
	doc.Table(md.TableSet{
		Header: []string{"Income", "Expenses", "Net"},
		Rows:   [][]string{{r.money(s.Income), r.money(s.Expenses), r.money(s.Net)}},
	})
	return doc.String()
}

// Breakdown renders the totals per category, with their share of the total of their kind.
func (r *Renderer) Breakdown(month date.Month, list []budget.CategoryBreakdown) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Breakdown of %s", month))
	if len(list) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	totals := map[budget.Kind]float64{}
	for _, b := range list {
		totals[b.Type] += b.Total
	}
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		share := 0.0
		if t := totals[b.Type]; t != 0 {
			share = b.Total / t * 100
		}
		rows = append(rows, []string{cell(b.CategoryName), string(b.Type), r.money(b.Total), fmt.Sprintf("%.1f%%", share)})
	}
	doc.Table(md.TableSet{Header: []string{"Category", "Type", "Total", "Share"}, Rows: rows})
	return doc.String()
}

// Trends renders monthly summaries, oldest first.
func (r *Renderer) Trends(list []budget.MonthlySummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Trends over %d months", len(list)))
	rows := make([][]string, 0, len(list))
	var net float64
	for _, s := range list {
		net += s.Net
		rows = append(rows, []string{s.Month.String(), r.money(s.Income), r.money(s.Expenses), r.money(s.Net)})
	}
	doc.Table(md.TableSet{Header: []string{"Month", "Income", "Expenses", "Net"}, Rows: rows})
	doc.PlainText(fmt.Sprintf("Cumulated net: %s", r.money(net)))
	return doc.String()
}

// StatusView is what the status command knows about the session.
type StatusView struct {
	Server        string
	Healthy       bool
	IsSetup       bool
	Authenticated bool
	Expiry        string // empty when unknown
	Currency      budget.Currency
}

func (r *Renderer) Status(s StatusView) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Status")
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	items := []string{
		fmt.Sprintf("Server: %s (healthy: %s)", s.Server, yesNo(s.Healthy)),
		fmt.Sprintf("PIN set up: %s", yesNo(s.IsSetup)),
		fmt.Sprintf("Logged in: %s", yesNo(s.Authenticated)),
	}
	if s.Expiry != "" {
		items = append(items, fmt.Sprintf("Token expires: %s", s.Expiry))
	}
	if d, ok := s.Currency.Descriptor(); ok {
		items = append(items, fmt.Sprintf("Currency: %s (%s, %s)", d.Name, s.Currency, d.Symbol))
	} else {
		items = append(items, fmt.Sprintf("Currency: %s", s.Currency))
	}
	doc.BulletList(items...)
	return doc.String()
}
