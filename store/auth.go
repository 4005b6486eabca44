package store

import (
	"context"
	"log/slog"

	"github.com/etnz/budget"
)

// AuthState is the authentication status shown to the user.
type AuthState struct {
	IsAuthenticated bool
	IsSetup         bool
	Loading         bool
}

// AuthClient is the part of the API client used by Auth.
type AuthClient interface {
	Status(ctx context.Context) (budget.AuthStatus, error)
	SetupPin(ctx context.Context, pin string) (budget.Token, error)
	Login(ctx context.Context, pin string) (budget.Token, error)
	IsAuthenticated() bool
	ClearToken() error
}

// Auth tracks whether the user is set up and logged in.
//
// IsAuthenticated reflects the presence of a local token, not its validity:
// an expired token is only discovered when a call fails with a 401.
type Auth struct {
	Value[AuthState]
	client AuthClient
	logger *slog.Logger
}

// NewAuth returns an Auth in the loading state, until CheckStatus is called.
func NewAuth(client AuthClient, logger *slog.Logger) *Auth {
	a := &Auth{client: client, logger: orDefault(logger)}
	a.v = AuthState{Loading: true}
	return a
}

// CheckStatus refreshes the state from the server. A failure is logged and
// leaves the user neither set up nor authenticated.
func (a *Auth) CheckStatus(ctx context.Context) {
	a.update(func(s AuthState) AuthState {
		s.Loading = true
		return s
	})
	status, err := a.client.Status(ctx)
	if err != nil {
		a.logger.Warn("cannot check auth status", slog.Any("error", err))
		a.set(AuthState{})
		return
	}
	a.set(AuthState{IsAuthenticated: a.client.IsAuthenticated(), IsSetup: status.IsSetup})
}

// Login authenticates with pin. On failure the state is unchanged.
func (a *Auth) Login(ctx context.Context, pin string) error {
	if _, err := a.client.Login(ctx, pin); err != nil {
		return err
	}
	a.update(func(s AuthState) AuthState {
		s.IsAuthenticated = true
		return s
	})
	return nil
}

// Setup creates the PIN and authenticates. On failure the state is unchanged.
func (a *Auth) Setup(ctx context.Context, pin string) error {
	if _, err := a.client.SetupPin(ctx, pin); err != nil {
		return err
	}
	a.update(func(s AuthState) AuthState {
		s.IsAuthenticated, s.IsSetup = true, true
		return s
	})
	return nil
}

// Logout forgets the token. The user stays set up.
// The returned error only reports a failure to clear the persisted token.
func (a *Auth) Logout() error {
	err := a.client.ClearToken()
	a.set(AuthState{IsSetup: true})
	return err
}
