package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/etnz/budget"
	"github.com/gin-gonic/gin"
)

type pinRequest struct {
	Pin string `json:"pin" validate:"required,min=4,max=6,numeric"`
}

type pinChangeRequest struct {
	CurrentPin string `json:"current_pin" validate:"required"`
	NewPin     string `json:"new_pin" validate:"required,min=4,max=6,numeric"`
}

type currencyRequest struct {
	Currency budget.Currency `json:"currency" validate:"required"`
}

func jsonString(v any) (string, error) {
	data, err := json.Marshal(v)
	return string(data), err
}

func (s *Server) status(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinHash == nil {
		c.JSON(http.StatusOK, budget.AuthStatus{Currency: budget.DefaultCurrency, IsSetup: false})
		return
	}
	c.JSON(http.StatusOK, budget.AuthStatus{Currency: s.currency, IsSetup: true})
}

func (s *Server) setup(c *gin.Context) {
	var req pinRequest
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinHash != nil {
		abort(c, http.StatusBadRequest, "PIN already set up")
		return
	}
	hash, err := s.hashPin(req.Pin)
	if err != nil {
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.pinHash = hash
	s.respondToken(c)
}

func (s *Server) login(c *gin.Context) {
	var req pinRequest
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinHash == nil {
		abort(c, http.StatusBadRequest, "PIN not set up")
		return
	}
	if !s.checkPin(req.Pin) {
		abort(c, http.StatusUnauthorized, "Invalid PIN")
		return
	}
	s.respondToken(c)
}

func (s *Server) respondToken(c *gin.Context) {
	token, err := s.issue()
	if err != nil {
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, token)
}

func (s *Server) changePin(c *gin.Context) {
	var req pinChangeRequest
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinHash == nil {
		abort(c, http.StatusBadRequest, "PIN not set up")
		return
	}
	if !s.checkPin(req.CurrentPin) {
		abort(c, http.StatusUnauthorized, "Invalid current PIN")
		return
	}
	hash, err := s.hashPin(req.NewPin)
	if err != nil {
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.pinHash = hash
	c.JSON(http.StatusOK, gin.H{"message": "PIN changed successfully"})
}

func (s *Server) updateCurrency(c *gin.Context) {
	var req currencyRequest
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinHash == nil {
		abort(c, http.StatusBadRequest, "User not set up")
		return
	}
	s.currency = req.Currency
	c.JSON(http.StatusOK, budget.CurrencyChange{Message: "Currency updated", Currency: req.Currency})
}

func (s *Server) exchangeRates(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.rates)
}

func (s *Server) refreshRates(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := now()
	s.rates.CachedAt = &at
	c.JSON(http.StatusOK, budget.RatesRefresh{
		Message:  "Using cached/static rates",
		Provider: s.rates.Provider,
		CachedAt: s.rates.CachedAt,
	})
}
