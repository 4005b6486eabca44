package fakeapi

import (
	"fmt"
	"net/http"

	"github.com/etnz/budget"
	"github.com/gin-gonic/gin"
)

func (s *Server) listBanks(c *gin.Context) { c.JSON(http.StatusOK, banks) }

func (s *Server) activeConnections() []budget.BankConnection {
	list := []budget.BankConnection{}
	for _, b := range s.connections {
		if b.IsActive {
			list = append(list, b)
		}
	}
	return list
}

func (s *Server) listConnections(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.activeConnections())
}

func (s *Server) createConnection(c *gin.Context) {
	var req budget.NewBankConnection
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := budget.BankConnection{
		ID:          s.nextID(),
		BankName:    req.BankName,
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		Balance:     balances[req.AccountType],
		IsActive:    true,
		CreatedAt:   now(),
	}
	s.connections = append(s.connections, b)
	c.JSON(http.StatusCreated, b)
}

func (s *Server) deleteConnection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.connections, id, connectionID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Connection not found")
		return
	}
	s.connections = remove(s.connections, i)
	c.Status(http.StatusNoContent)
}

// syncConnection fetches the next merchants in turn as pending transactions dated today.
func (s *Server) syncConnection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.connections, id, connectionID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Connection not found")
		return
	}
	today := s.Today()
	for range syncSize {
		m := merchants[s.syncs%len(merchants)]
		s.syncs++
		p := budget.PendingTransaction{
			ID:                s.nextID(),
			BankConnectionID:  id,
			ExternalID:        fmt.Sprintf("ext-%d-%d", id, s.syncs),
			Amount:            m.amount,
			MerchantName:      m.name,
			Date:              today,
			SuggestedCategory: s.suggest(m.name),
			Status:            "pending",
			CreatedAt:         now(),
		}
		if p.SuggestedCategory != nil {
			p.SuggestedCategoryID = &p.SuggestedCategory.ID
		}
		s.pending = append(s.pending, p)
	}
	at := now()
	conn := &s.connections[i]
	conn.LastSynced = &at
	c.JSON(http.StatusOK, budget.SyncResult{Synced: syncSize, Balance: conn.Balance})
}

func (s *Server) listPending(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []budget.PendingTransaction{}
	for _, p := range s.pending {
		if p.Status == "pending" {
			list = append(list, p)
		}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) importPending(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		CategoryID int `json:"category_id" validate:"gt=0"`
	}
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.pending, id, pendingID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Pending transaction not found")
		return
	}
	p := &s.pending[i]
	if p.Status != "pending" {
		abort(c, http.StatusBadRequest, "Transaction already processed")
		return
	}
	cat, ok := s.category(req.CategoryID)
	if !ok {
		abort(c, http.StatusBadRequest, "Invalid category")
		return
	}
	t := s.addTransaction(p.Amount, cat.Type, cat.ID, optional(p.MerchantName), p.Date)
	p.Status = "imported"
	c.JSON(http.StatusOK, budget.PendingImport{Message: "Transaction imported", TransactionID: t.ID})
}

func (s *Server) dismissPending(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.pending, id, pendingID)
	if i < 0 {
		abort(c, http.StatusNotFound, "Pending transaction not found")
		return
	}
	s.pending[i].Status = "dismissed"
	c.Status(http.StatusNoContent)
}

func (s *Server) importAllPending(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	imported := 0
	for i := range s.pending {
		p := &s.pending[i]
		if p.Status != "pending" || p.SuggestedCategoryID == nil {
			continue
		}
		cat, ok := s.category(*p.SuggestedCategoryID)
		if !ok {
			continue
		}
		s.addTransaction(p.Amount, cat.Type, cat.ID, optional(p.MerchantName), p.Date)
		p.Status = "imported"
		imported++
	}
	c.JSON(http.StatusOK, budget.BulkImport{Imported: imported})
}

func (s *Server) balances(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []budget.BankBalance{}
	for _, b := range s.activeConnections() {
		list = append(list, budget.BankBalance{
			BankConnectionID: b.ID,
			BankName:         b.BankName,
			AccountName:      b.AccountName,
			AccountType:      b.AccountType,
			Balance:          b.Balance,
		})
	}
	c.JSON(http.StatusOK, list)
}
