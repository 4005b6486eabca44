package fakeapi

import (
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/gin-gonic/gin"
)

func categoryID(c budget.Category) int              { return c.ID }
func transactionID(t budget.Transaction) int        { return t.ID }
func budgetID(b budget.Budget) int                  { return b.ID }
func recurringID(r budget.RecurringTransaction) int { return r.ID }
func goalID(g budget.Goal) int                      { return g.ID }
func connectionID(b budget.BankConnection) int      { return b.ID }
func pendingID(p budget.PendingTransaction) int     { return p.ID }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// round1 rounds a percentage to one decimal.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.categories)
}

func (s *Server) createCategory(c *gin.Context) {
	var req budget.NewCategory
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := budget.Category{
		ID:        s.nextID(),
		Name:      req.Name,
		Type:      req.Type,
		Icon:      optional(req.Icon),
		Color:     optional(req.Color),
		CreatedAt: now(),
	}
	s.categories = append(s.categories, cat)
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch budget.CategoryPatch
	if !s.bind(c, &patch) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.categories, id, categoryID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Category not found")
		return
	}
	cat := &s.categories[i]
	if patch.Name != nil {
		cat.Name = *patch.Name
	}
	if patch.Icon != nil {
		cat.Icon = patch.Icon
	}
	if patch.Color != nil {
		cat.Color = patch.Color
	}
	c.JSON(http.StatusOK, *cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.categories, id, categoryID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Category not found")
		return
	}
	if s.categories[i].IsDefault {
		abort(c, http.StatusBadRequest, "Cannot delete default categories")
		return
	}
	s.categories = remove(s.categories, i)
	c.Status(http.StatusNoContent)
}

// withCategory embeds the current category of t. It must be called with mu held.
func (s *Server) withCategory(t budget.Transaction) budget.Transaction {
	t.Category, _ = s.category(t.CategoryID)
	return t
}

func (s *Server) listTransactions(c *gin.Context) {
	var f budget.TransactionFilter
	var err error
	if v := c.Query("start_date"); v != "" {
		if f.StartDate, err = date.Parse(v); err != nil {
			invalid(c, err)
			return
		}
	}
	if v := c.Query("end_date"); v != "" {
		if f.EndDate, err = date.Parse(v); err != nil {
			invalid(c, err)
			return
		}
	}
	if v := c.Query("category_id"); v != "" {
		if f.CategoryID, err = strconv.Atoi(v); err != nil {
			invalid(c, err)
			return
		}
	}
	f.Type = budget.Kind(c.Query("type"))

	s.mu.Lock()
	defer s.mu.Unlock()
	list := []budget.Transaction{}
	for _, t := range s.transactions {
		switch {
		case !f.StartDate.IsZero() && t.Date.Before(f.StartDate):
		case !f.EndDate.IsZero() && t.Date.After(f.EndDate):
		case f.CategoryID != 0 && t.CategoryID != f.CategoryID:
		case f.Type != "" && t.Type != f.Type:
		default:
			list = append(list, s.withCategory(t))
		}
	}
	slices.SortStableFunc(list, func(a, b budget.Transaction) int { return b.Date.Compare(a.Date) })
	c.JSON(http.StatusOK, list)
}

// addTransaction stores a new transaction. It must be called with mu held.
func (s *Server) addTransaction(amount float64, kind budget.Kind, categoryID int, description *string, on date.Date) budget.Transaction {
	t := budget.Transaction{
		ID:          s.nextID(),
		Amount:      amount,
		Type:        kind,
		CategoryID:  categoryID,
		Description: description,
		Date:        on,
		CreatedAt:   now(),
	}
	s.transactions = append(s.transactions, t)
	return s.withCategory(t)
}

func (s *Server) createTransaction(c *gin.Context) {
	var req budget.NewTransaction
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.addTransaction(req.Amount, req.Type, req.CategoryID, optional(req.Description), req.Date)
	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch budget.TransactionPatch
	if !s.bind(c, &patch) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.transactions, id, transactionID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Transaction not found")
		return
	}
	t := &s.transactions[i]
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.CategoryID != nil {
		t.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	c.JSON(http.StatusOK, s.withCategory(*t))
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.transactions, id, transactionID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Transaction not found")
		return
	}
	s.transactions = remove(s.transactions, i)
	c.Status(http.StatusNoContent)
}

// total sums the transactions of kind in month, restricted to categoryID when not zero.
// It must be called with mu held.
func (s *Server) total(month date.Month, kind budget.Kind, categoryID int) float64 {
	var sum float64
	for _, t := range s.transactions {
		if t.Type == kind && month.Contains(t.Date) && (categoryID == 0 || t.CategoryID == categoryID) {
			sum += t.Amount
		}
	}
	return sum
}

func (s *Server) budgetsOf(month date.Month) []budget.Budget {
	list := []budget.Budget{}
	for _, b := range s.budgets {
		if b.Month == month {
			b.Category, _ = s.category(b.CategoryID)
			list = append(list, b)
		}
	}
	return list
}

func (s *Server) listBudgets(c *gin.Context) {
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.budgetsOf(month))
}

func (s *Server) budgetStatus(c *gin.Context) {
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []budget.BudgetStatus{}
	for _, b := range s.budgetsOf(month) {
		spent := s.total(month, budget.Expense, b.CategoryID)
		var pct float64
		if b.Amount > 0 {
			pct = spent / b.Amount * 100
		}
		list = append(list, budget.BudgetStatus{
			CategoryID:     b.CategoryID,
			CategoryName:   b.Category.Name,
			Budgeted:       b.Amount,
			Spent:          spent,
			Remaining:      b.Amount - spent,
			PercentageUsed: round1(pct),
		})
	}
	c.JSON(http.StatusOK, list)
}

// createBudget replaces the amount of an existing budget of the same category and month.
func (s *Server) createBudget(c *gin.Context) {
	var req budget.NewBudget
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budgets {
		if b.CategoryID == req.CategoryID && b.Month == req.Month {
			s.budgets[i].Amount = req.Amount
			b = s.budgets[i]
			b.Category, _ = s.category(b.CategoryID)
			c.JSON(http.StatusCreated, b)
			return
		}
	}
	b := budget.Budget{
		ID:         s.nextID(),
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      req.Month,
		CreatedAt:  now(),
	}
	s.budgets = append(s.budgets, b)
	b.Category, _ = s.category(b.CategoryID)
	c.JSON(http.StatusCreated, b)
}

func (s *Server) deleteBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.budgets, id, budgetID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Budget not found")
		return
	}
	s.budgets = remove(s.budgets, i)
	c.Status(http.StatusNoContent)
}

func (s *Server) recurringView(r budget.RecurringTransaction) budget.RecurringTransaction {
	r.Category, _ = s.category(r.CategoryID)
	return r
}

func (s *Server) listRecurring(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []budget.RecurringTransaction{}
	for _, r := range s.recurring {
		list = append(list, s.recurringView(r))
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createRecurring(c *gin.Context) {
	var req budget.NewRecurring
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := budget.RecurringTransaction{
		ID:          s.nextID(),
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: optional(req.Description),
		Frequency:   req.Frequency,
		NextRunDate: req.NextRunDate,
		IsActive:    true,
		CreatedAt:   now(),
	}
	s.recurring = append(s.recurring, r)
	c.JSON(http.StatusCreated, s.recurringView(r))
}

func (s *Server) updateRecurring(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch budget.RecurringPatch
	if !s.bind(c, &patch) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.recurring, id, recurringID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Recurring transaction not found")
		return
	}
	r := &s.recurring[i]
	if patch.Amount != nil {
		r.Amount = *patch.Amount
	}
	if patch.Type != nil {
		r.Type = *patch.Type
	}
	if patch.CategoryID != nil {
		r.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		r.Description = patch.Description
	}
	if patch.Frequency != nil {
		r.Frequency = *patch.Frequency
	}
	if patch.NextRunDate != nil {
		r.NextRunDate = *patch.NextRunDate
	}
	if patch.IsActive != nil {
		r.IsActive = *patch.IsActive
	}
	c.JSON(http.StatusOK, s.recurringView(*r))
}

func (s *Server) deleteRecurring(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.recurring, id, recurringID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Recurring transaction not found")
		return
	}
	s.recurring = remove(s.recurring, i)
	c.Status(http.StatusNoContent)
}

// processRecurring creates one transaction per due active rule and advances it once.
func (s *Server) processRecurring(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.Today()
	processed := 0
	for i := range s.recurring {
		r := &s.recurring[i]
		if !r.IsActive || r.NextRunDate.After(today) {
			continue
		}
		s.addTransaction(r.Amount, r.Type, r.CategoryID, r.Description, r.NextRunDate)
		r.NextRunDate = r.Frequency.Next(r.NextRunDate)
		processed++
	}
	c.JSON(http.StatusOK, budget.ProcessResult{Processed: processed})
}

// goalView computes the derived fields of g. It must be called with mu held.
func (s *Server) goalView(g budget.Goal) budget.Goal {
	if g.TargetAmount > 0 {
		g.ProgressPercentage = round1(g.CurrentAmount / g.TargetAmount * 100)
	}
	g.DaysRemaining = max(0, s.Today().DaysUntil(g.Deadline))
	return g
}

func (s *Server) listGoals(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []budget.Goal{}
	for _, g := range s.goals {
		list = append(list, s.goalView(g))
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createGoal(c *gin.Context) {
	var req budget.NewGoal
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g := budget.Goal{
		ID:           s.nextID(),
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		CreatedAt:    now(),
	}
	s.goals = append(s.goals, g)
	c.JSON(http.StatusCreated, s.goalView(g))
}

func (s *Server) updateGoal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch budget.GoalPatch
	if !s.bind(c, &patch) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.goals, id, goalID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Goal not found")
		return
	}
	g := &s.goals[i]
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.TargetAmount != nil {
		g.TargetAmount = *patch.TargetAmount
	}
	if patch.CurrentAmount != nil {
		g.CurrentAmount = *patch.CurrentAmount
	}
	if patch.Deadline != nil {
		g.Deadline = *patch.Deadline
	}
	c.JSON(http.StatusOK, s.goalView(*g))
}

func (s *Server) contributeGoal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Amount float64 `json:"amount" validate:"gt=0"`
	}
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.goals, id, goalID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Goal not found")
		return
	}
	s.goals[i].CurrentAmount += req.Amount
	c.JSON(http.StatusOK, s.goalView(s.goals[i]))
}

func (s *Server) deleteGoal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.goals, id, goalID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Goal not found")
		return
	}
	s.goals = remove(s.goals, i)
	c.Status(http.StatusNoContent)
}
