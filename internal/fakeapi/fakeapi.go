// Package fakeapi is an in-memory implementation of the budgeting API.
//
// It serves the same routes, payloads and error bodies as the real server
// and is used to test the client end to end with httptest.
package fakeapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Prefix is the path under which the API is served.
const Prefix = "/api"

// Server is the state of a fake API. It is safe for concurrent use.
type Server struct {
	// Today is the server's current day, it defaults to date.Today.
	Today func() date.Date
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration

	secret   []byte
	validate *validator.Validate

	mu           sync.Mutex
	pinHash      []byte
	currency     budget.Currency
	rates        budget.ExchangeRates
	lastID       int
	categories   []budget.Category
	transactions []budget.Transaction
	budgets      []budget.Budget
	recurring    []budget.RecurringTransaction
	goals        []budget.Goal
	connections  []budget.BankConnection
	pending      []budget.PendingTransaction
	syncs        int
	failures     map[string][]failure
	calls        []string
}

type failure struct {
	status int
	body   string
}

// New returns a fake API with the default categories and no PIN.
func New() *Server {
	s := &Server{
		Today:    date.Today,
		TokenTTL: 24 * time.Hour,
		secret:   []byte("fakeapi-secret"),
		validate: validator.New(),
		currency: budget.DefaultCurrency,
		failures: make(map[string][]failure),
	}
	s.rates = budget.ExchangeRates{
		Provider: "static",
		Rates: map[string]float64{
			"USD_EUR": 0.92, "USD_GBP": 0.79,
			"EUR_USD": 1.087, "EUR_GBP": 0.86,
			"GBP_USD": 1.266, "GBP_EUR": 1.163,
		},
	}
	s.seed()
	return s
}

// Handler returns the http handler serving the API under Prefix.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.inject)

	api := r.Group(Prefix)
	api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, budget.Health{Status: "healthy"}) })
	api.GET("/auth/status", s.status)
	api.POST("/auth/setup", s.setup)
	api.POST("/auth/login", s.login)

	auth := api.Group("", s.requireAuth)
	auth.POST("/auth/change-pin", s.changePin)
	auth.PUT("/auth/currency", s.updateCurrency)
	auth.GET("/auth/exchange-rates", s.exchangeRates)
	auth.POST("/auth/exchange-rates/refresh", s.refreshRates)

	auth.GET("/categories", s.listCategories)
	auth.POST("/categories", s.createCategory)
	auth.PUT("/categories/:id", s.updateCategory)
	auth.DELETE("/categories/:id", s.deleteCategory)

	auth.GET("/transactions", s.listTransactions)
	auth.POST("/transactions", s.createTransaction)
	auth.PUT("/transactions/:id", s.updateTransaction)
	auth.DELETE("/transactions/:id", s.deleteTransaction)

	auth.GET("/budgets", s.listBudgets)
	auth.GET("/budgets/status", s.budgetStatus)
	auth.POST("/budgets", s.createBudget)
	auth.DELETE("/budgets/:id", s.deleteBudget)

	auth.GET("/recurring", s.listRecurring)
	auth.POST("/recurring", s.createRecurring)
	auth.POST("/recurring/process", s.processRecurring)
	auth.PUT("/recurring/:id", s.updateRecurring)
	auth.DELETE("/recurring/:id", s.deleteRecurring)

	auth.GET("/goals", s.listGoals)
	auth.POST("/goals", s.createGoal)
	auth.PUT("/goals/:id", s.updateGoal)
	auth.POST("/goals/:id/contribute", s.contributeGoal)
	auth.DELETE("/goals/:id", s.deleteGoal)

	auth.GET("/reports/monthly-summary", s.monthlySummary)
	auth.GET("/reports/category-breakdown", s.categoryBreakdown)
	auth.GET("/reports/trends", s.trends)

	auth.POST("/import/csv", s.uploadCSV)
	auth.POST("/import/confirm", s.confirmImport)

	auth.GET("/banking/banks", s.listBanks)
	auth.GET("/banking/connections", s.listConnections)
	auth.POST("/banking/connections", s.createConnection)
	auth.DELETE("/banking/connections/:id", s.deleteConnection)
	auth.POST("/banking/connections/:id/sync", s.syncConnection)
	auth.GET("/banking/pending", s.listPending)
	auth.POST("/banking/pending/import-all", s.importAllPending)
	auth.POST("/banking/pending/:id/import", s.importPending)
	auth.POST("/banking/pending/:id/dismiss", s.dismissPending)
	auth.GET("/banking/balances", s.balances)
	return r
}

// Fail makes the next call to method endpoint (relative to Prefix) answer
// status with a {"detail": detail} body.
func (s *Server) Fail(method, endpoint string, status int, detail string) {
	body, _ := jsonString(gin.H{"detail": detail})
	s.FailRaw(method, endpoint, status, body)
}

// FailRaw makes the next call to method endpoint answer status with body as is.
func (s *Server) FailRaw(method, endpoint string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + endpoint
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// Calls returns the "METHOD endpoint" of every call received so far.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Token issues a valid token, as a successful login would.
func (s *Server) Token() string {
	token, err := s.issue()
	if err != nil {
		panic(err)
	}
	return token.AccessToken
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.calls = append(s.calls, c.Request.Method+" "+strings.TrimPrefix(c.Request.URL.Path, Prefix))
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	key := c.Request.Method + " " + strings.TrimPrefix(c.Request.URL.Path, Prefix)
	s.mu.Lock()
	queue := s.failures[key]
	var f *failure
	if len(queue) > 0 {
		f, s.failures[key] = &queue[0], queue[1:]
	}
	s.mu.Unlock()
	if f != nil {
		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		abort(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		slog.Debug("rejected token", slog.Any("error", err))
		abort(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	c.Next()
}

func (s *Server) issue() (budget.Token, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.TokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return budget.Token{}, err
	}
	return budget.Token{AccessToken: signed, TokenType: "bearer"}, nil
}

func (s *Server) hashPin(pin string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
}

func (s *Server) checkPin(pin string) bool {
	return bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)) == nil
}

// nextID returns a fresh identifier. It must be called with mu held.
func (s *Server) nextID() int {
	s.lastID++
	return s.lastID
}

func now() date.Timestamp { return date.Timestamp{Time: time.Now().UTC()} }

// abort answers a {"detail": detail} error body.
func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// invalid answers a request validation failure, shaped as a list of problems.
func invalid(c *gin.Context, err error) {
	var problems []gin.H
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			problems = append(problems, gin.H{
				"loc":  []string{"body", fe.Field()},
				"msg":  "Invalid value for " + fe.Field() + ": " + fe.Tag(),
				"type": "value_error",
			})
		}
	} else {
		problems = append(problems, gin.H{"loc": []string{"body"}, "msg": err.Error(), "type": "value_error"})
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": problems})
}

// bind decodes and validates the JSON body into v, answering the error if any.
func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		invalid(c, err)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		invalid(c, err)
		return false
	}
	return true
}

// pathID reads the :id path parameter.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		invalid(c, err)
		return 0, false
	}
	return id, true
}

// queryMonth reads the mandatory month query parameter.
func queryMonth(c *gin.Context) (date.Month, bool) {
	m, err := date.ParseMonth(c.Query("month"))
	if err != nil {
		invalid(c, err)
		return date.Month{}, false
	}
	return m, true
}

// find returns the index of the record with id, or -1.
func find[T any](list []T, id int, idOf func(T) int) int {
	for i, v := range list {
		if idOf(v) == id {
			return i
		}
	}
	return -1
}

func remove[T any](list []T, i int) []T { return append(list[:i:i], list[i+1:]...) }
