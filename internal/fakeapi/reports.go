package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/gin-gonic/gin"
)

func (s *Server) summary(month date.Month) budget.MonthlySummary {
	income := s.total(month, budget.Income, 0)
	expenses := s.total(month, budget.Expense, 0)
	return budget.MonthlySummary{Month: month, Income: income, Expenses: expenses, Net: income - expenses}
}

func (s *Server) monthlySummary(c *gin.Context) {
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.summary(month))
}

// categoryBreakdown totals the month's transactions per category, in category order.
func (s *Server) categoryBreakdown(c *gin.Context) {
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []budget.CategoryBreakdown{}
	for _, cat := range s.categories {
		var total float64
		found := false
		for _, t := range s.transactions {
			if t.CategoryID == cat.ID && month.Contains(t.Date) {
				total += t.Amount
				found = true
			}
		}
		if found {
			list = append(list, budget.CategoryBreakdown{CategoryID: cat.ID, CategoryName: cat.Name, Type: cat.Type, Total: total})
		}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) trends(c *gin.Context) {
	months := budget.DefaultTrendMonths
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid(c, err)
			return
		}
		if n < 1 || n > budget.MaxTrendMonths {
			invalid(c, fmt.Errorf("months must be between 1 and %d", budget.MaxTrendMonths))
			return
		}
		months = n
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.Today().MonthOf()
	list := make([]budget.MonthlySummary, 0, months)
	for i := months - 1; i >= 0; i-- {
		list = append(list, s.summary(current.Add(-i)))
	}
	c.JSON(http.StatusOK, list)
}
