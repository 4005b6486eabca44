package budget

import "github.com/etnz/budget/date"

// AuthStatus is the server-side account status. It is readable without a token.
type AuthStatus struct {
	Currency            Currency   `json:"currency"`
	IsSetup             bool       `json:"is_setup"`
	AvailableCurrencies []Currency `json:"available_currencies"`
}

// Token is the bearer credential issued on setup and login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CurrencyChange is the acknowledgement of a currency preference update.
type CurrencyChange struct {
	Message  string   `json:"message"`
	Currency Currency `json:"currency"`
}

// RatesRefresh is the acknowledgement of an exchange rate refresh.
type RatesRefresh struct {
	Message  string          `json:"message"`
	Provider string          `json:"provider"`
	CachedAt *date.Timestamp `json:"cached_at"`
}

// Health is the server liveness report.
type Health struct {
	Status string `json:"status"`
}
