package budget

import (
	"fmt"
	"maps"

	"github.com/etnz/budget/date"
	"github.com/shopspring/decimal"
)

// ExchangeRates is a provider's quote set as cached by the server.
// Rates are keyed "FROM_TO", e.g. "USD_EUR".
type ExchangeRates struct {
	Provider string             `json:"provider"`
	Rates    map[string]float64 `json:"rates"`
	CachedAt *date.Timestamp    `json:"cached_at"`
}

// RateKey returns the key under which the from→to rate is published.
func RateKey(from, to Currency) string { return string(from) + "_" + string(to) }

// Rate returns the rate converting one unit of from into to.
// The rate of a currency to itself is always 1.
func (r *ExchangeRates) Rate(from, to Currency) (rate float64, ok bool) {
	if from == to {
		return 1, true
	}
	if r == nil {
		return 0, false
	}
	rate, ok = r.Rates[RateKey(from, to)]
	return
}

// Convert converts amount from one currency to another, rounded to cents.
func (r *ExchangeRates) Convert(amount float64, from, to Currency) (float64, error) {
	rate, ok := r.Rate(from, to)
	if !ok {
		return 0, fmt.Errorf("no exchange rate from %s to %s", from, to)
	}
	converted := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).Round(2)
	return converted.InexactFloat64(), nil
}

// Clone returns a deep copy of r.
func (r *ExchangeRates) Clone() *ExchangeRates {
	if r == nil {
		return nil
	}
	c := *r
	c.Rates = maps.Clone(r.Rates)
	if r.CachedAt != nil {
		at := *r.CachedAt
		c.CachedAt = &at
	}
	return &c
}
