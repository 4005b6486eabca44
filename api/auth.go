package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/etnz/budget"
	"github.com/golang-jwt/jwt/v5"
)

type pinBody struct {
	Pin string `json:"pin"`
}

type pinChangeBody struct {
	CurrentPin string `json:"current_pin"`
	NewPin     string `json:"new_pin"`
}

type currencyBody struct {
	Currency budget.Currency `json:"currency"`
}

// Status returns whether a PIN is set up and the preferred currency.
// It does not require a token.
func (c *Client) Status(ctx context.Context) (budget.AuthStatus, error) {
	return call[budget.AuthStatus](ctx, c, http.MethodGet, "/auth/status", nil, nil)
}

// SetupPin creates the PIN and stores the returned token in the session.
func (c *Client) SetupPin(ctx context.Context, pin string) (budget.Token, error) {
	return c.authenticate(ctx, "/auth/setup", pin)
}

// Login verifies the PIN and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, pin string) (budget.Token, error) {
	return c.authenticate(ctx, "/auth/login", pin)
}

func (c *Client) authenticate(ctx context.Context, endpoint, pin string) (budget.Token, error) {
	token, err := call[budget.Token](ctx, c, http.MethodPost, endpoint, nil, pinBody{Pin: pin})
	if err != nil {
		return token, err
	}
	// the token stays in memory even when it cannot be saved.
	if err := c.session.SetToken(token.AccessToken); err != nil {
		c.logger.Warn("session token not persisted", slog.Any("error", err))
	}
	return token, nil
}

// ChangePin replaces the PIN. The session token is left untouched.
func (c *Client) ChangePin(ctx context.Context, current, next string) error {
	return exec(ctx, c, http.MethodPost, "/auth/change-pin", pinChangeBody{CurrentPin: current, NewPin: next})
}

// UpdateCurrency sets the preferred currency.
func (c *Client) UpdateCurrency(ctx context.Context, code budget.Currency) (budget.CurrencyChange, error) {
	return call[budget.CurrencyChange](ctx, c, http.MethodPut, "/auth/currency", nil, currencyBody{Currency: code})
}

// ExchangeRates returns the server's cached exchange rates.
func (c *Client) ExchangeRates(ctx context.Context) (*budget.ExchangeRates, error) {
	rates, err := call[budget.ExchangeRates](ctx, c, http.MethodGet, "/auth/exchange-rates", nil, nil)
	if err != nil {
		return nil, err
	}
	return &rates, nil
}

// RefreshExchangeRates asks the server to refetch rates from its provider.
func (c *Client) RefreshExchangeRates(ctx context.Context) (budget.RatesRefresh, error) {
	return call[budget.RatesRefresh](ctx, c, http.MethodPost, "/auth/exchange-rates/refresh", nil, nil)
}

// HealthCheck returns the server health.
func (c *Client) HealthCheck(ctx context.Context) (budget.Health, error) {
	return call[budget.Health](ctx, c, http.MethodGet, "/health", nil, nil)
}

// TokenExpiry reads the expiry of a token without verifying its signature.
// It is informative only: the server remains the authority on validity.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("cannot parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
