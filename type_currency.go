package budget

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// DefaultCurrency is used wherever no currency is given.
const DefaultCurrency = USD

// Descriptor is the immutable display configuration of a supported currency.
type Descriptor struct {
	Locale string // BCP 47 tag the formatting follows
	Symbol string
	Name   string

	fraction int    // minor unit digits
	decimal  string // decimal separator
	thousand string // grouping separator
	template string // "1" is the amount, "$" the symbol
}

var descriptors = map[Currency]Descriptor{
	USD: {Locale: "en-US", Symbol: "$", Name: "US Dollar", fraction: 2, decimal: ".", thousand: ",", template: "$1"},
	EUR: {Locale: "de-DE", Symbol: "€", Name: "Euro", fraction: 2, decimal: ",", thousand: ".", template: "1\u00a0$"},
	GBP: {Locale: "en-GB", Symbol: "£", Name: "British Pound", fraction: 2, decimal: ".", thousand: ",", template: "$1"},
}

// Currencies returns the supported currencies in their canonical order.
func Currencies() []Currency { return []Currency{USD, EUR, GBP} }

// ParseCurrency returns the supported currency for code, case insensitive.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsSupported() {
		return "", fmt.Errorf("unsupported currency %q, want one of %v", code, Currencies())
	}
	return c, nil
}

// IsSupported reports whether c is one of the supported currencies.
func (c Currency) IsSupported() bool {
	_, ok := descriptors[c]
	return ok
}

// Descriptor returns c's display configuration. ok is false for unsupported codes.
func (c Currency) Descriptor() (d Descriptor, ok bool) {
	d, ok = descriptors[c]
	return
}

func (c Currency) String() string { return string(c) }

// Format renders amount following c's locale: grouping, symbol placement and
// exactly the minor unit precision of the currency. Halves round away from zero.
//
// Codes outside the supported set fall back to the generic ISO formatting.
func (c Currency) Format(amount float64) string {
	if c == "" {
		c = DefaultCurrency
	}
	d, ok := descriptors[c]
	if !ok {
		return formatUnsupported(amount, c)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return formatSpecial(amount, d.Symbol, d.template)
	}
	return formatMinor(amount, money.NewFormatter(d.fraction, d.decimal, d.thousand, d.Symbol, d.template))
}

// FormatCurrency formats amount in currency c, USD when c is empty.
func FormatCurrency(amount float64, c Currency) string { return c.Format(amount) }

func formatUnsupported(amount float64, c Currency) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return formatSpecial(amount, string(c)+" ", "$1")
	}
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return fmt.Sprintf("%s %s", c, decimal.NewFromFloat(amount).StringFixed(2))
	}
	return formatMinor(amount, cur.Formatter())
}

// formatMinor rounds amount to f's minor unit and formats it with f.
// Amounts whose minor units do not fit an int64 are laid out the same way from their digits.
func formatMinor(amount float64, f *money.Formatter) string {
	minor := decimal.NewFromFloat(amount).Shift(int32(f.Fraction)).Round(0)
	if minor.BigInt().IsInt64() {
		return f.Format(minor.IntPart())
	}
	sa := minor.Abs().BigInt().String()
	if f.Thousand != "" {
		for i := len(sa) - f.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + f.Thousand + sa[i:]
		}
	}
	if f.Fraction > 0 {
		sa = sa[:len(sa)-f.Fraction] + f.Decimal + sa[len(sa)-f.Fraction:]
	}
	sa = strings.Replace(f.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", f.Grapheme, 1)
	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}

// formatSpecial renders NaN and infinities the way number formatters usually do.
func formatSpecial(amount float64, symbol, template string) string {
	s := "NaN"
	if math.IsInf(amount, 0) {
		s = "∞"
	}
	out := strings.Replace(template, "1", s, 1)
	out = strings.Replace(out, "$", symbol, 1)
	if math.IsInf(amount, -1) {
		out = "-" + out
	}
	return out
}
