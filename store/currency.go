package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/etnz/budget"
)

// CurrencyState is the currency preference and the exchange rates.
// Current is always one of Available. Rates is nil until loaded.
//
// Every CurrencyState handed out by Currency is a copy: changing it leaves the store untouched.
type CurrencyState struct {
	Current   budget.Currency
	Available []budget.Currency
	Rates     *budget.ExchangeRates
	Loading   bool
}

// CurrencyClient is the part of the API client used by Currency.
type CurrencyClient interface {
	Status(ctx context.Context) (budget.AuthStatus, error)
	UpdateCurrency(ctx context.Context, code budget.Currency) (budget.CurrencyChange, error)
	ExchangeRates(ctx context.Context) (*budget.ExchangeRates, error)
	RefreshExchangeRates(ctx context.Context) (budget.RatesRefresh, error)
}

// ErrNoRates is returned when converting before any exchange rates were loaded.
var ErrNoRates = errors.New("no exchange rates loaded")

// Currency tracks the preferred currency and formats amounts in it.
type Currency struct {
	Value[CurrencyState]
	client CurrencyClient
	logger *slog.Logger
}

// NewCurrency returns a Currency preferring USD among all supported currencies.
func NewCurrency(client CurrencyClient, logger *slog.Logger) *Currency {
	c := &Currency{client: client, logger: orDefault(logger)}
	c.v = CurrencyState{Current: budget.DefaultCurrency, Available: budget.Currencies()}
	c.clone = CurrencyState.clone
	return c
}

func (s CurrencyState) clone() CurrencyState {
	s.Available = slices.Clone(s.Available)
	s.Rates = s.Rates.Clone()
	return s
}

// Load reads the preference from the server. A failure is logged and the
// previous preference kept.
func (c *Currency) Load(ctx context.Context) {
	c.update(func(s CurrencyState) CurrencyState {
		s.Loading = true
		return s
	})
	status, err := c.client.Status(ctx)
	if err != nil {
		c.logger.Warn("cannot load currency preference", slog.Any("error", err))
		c.update(func(s CurrencyState) CurrencyState {
			s.Loading = false
			return s
		})
		return
	}
	available := slices.Clone(status.AvailableCurrencies)
	if len(available) == 0 {
		available = budget.Currencies()
	}
	current := status.Currency
	if current == "" {
		current = budget.DefaultCurrency
	}
	if !slices.Contains(available, current) {
		available = append(available, current)
	}
	c.update(func(s CurrencyState) CurrencyState {
		s.Current, s.Available, s.Loading = current, available, false
		return s
	})
}

// SetCurrency saves code as the preference. The state changes only if the server accepted it.
func (c *Currency) SetCurrency(ctx context.Context, code budget.Currency) error {
	if !slices.Contains(c.Get().Available, code) {
		return fmt.Errorf("unsupported currency %q", code)
	}
	if _, err := c.client.UpdateCurrency(ctx, code); err != nil {
		return fmt.Errorf("cannot update currency to %s: %w", code, err)
	}
	c.update(func(s CurrencyState) CurrencyState {
		s.Current = code
		return s
	})
	return nil
}

// LoadRates reads the exchange rates. A failure is logged and the previous rates kept.
func (c *Currency) LoadRates(ctx context.Context) {
	rates, err := c.client.ExchangeRates(ctx)
	if err != nil {
		c.logger.Warn("cannot load exchange rates", slog.Any("error", err))
		return
	}
	rates = rates.Clone()
	c.update(func(s CurrencyState) CurrencyState {
		s.Rates = rates
		return s
	})
}

// RefreshRates asks the server to refetch its rates, then loads them.
func (c *Currency) RefreshRates(ctx context.Context) error {
	if _, err := c.client.RefreshExchangeRates(ctx); err != nil {
		return fmt.Errorf("cannot refresh exchange rates: %w", err)
	}
	c.LoadRates(ctx)
	return nil
}

// Current returns the preferred currency.
func (c *Currency) Current() budget.Currency { return c.Get().Current }

// Format formats amount in the preferred currency, or in override if given.
// It gives the same result as budget.FormatCurrency.
func (c *Currency) Format(amount float64, override ...budget.Currency) string {
	code := c.Current()
	if len(override) > 0 && override[0] != "" {
		code = override[0]
	}
	return budget.FormatCurrency(amount, code)
}

// Convert converts amount with the loaded exchange rates.
func (c *Currency) Convert(amount float64, from, to budget.Currency) (float64, error) {
	rates := c.Get().Rates
	if rates == nil && from != to {
		return 0, ErrNoRates
	}
	return rates.Convert(amount, from, to)
}
