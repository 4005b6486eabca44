package fakeapi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/gin-gonic/gin"
)

var requiredColumns = []string{"date", "amount", "type", "category"}

func (s *Server) uploadCSV(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		invalid(c, err)
		return
	}
	if !strings.HasSuffix(header.Filename, ".csv") {
		abort(c, http.StatusBadRequest, "File must be CSV")
		return
	}
	f, err := header.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	r := csv.NewReader(f)
	columns, err := r.Read()
	if err != nil {
		abort(c, http.StatusBadRequest, "File must be CSV")
		return
	}
	var missing []string
	for _, col := range requiredColumns {
		if !slices.Contains(columns, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		abort(c, http.StatusBadRequest, fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
		return
	}

	preview := budget.ImportPreview{Rows: []budget.ImportRow{}, Errors: []string{}}
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			preview.Errors = append(preview.Errors, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}
		field := func(name string) string {
			if i := slices.Index(columns, name); i >= 0 && i < len(record) {
				return record[i]
			}
			return ""
		}
		row, err := parseRow(field)
		if err != nil {
			preview.Errors = append(preview.Errors, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}
		preview.Rows = append(preview.Rows, row)
	}
	c.JSON(http.StatusOK, preview)
}

func parseRow(field func(string) string) (budget.ImportRow, error) {
	if _, err := date.Parse(field("date")); err != nil {
		return budget.ImportRow{}, err
	}
	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil {
		return budget.ImportRow{}, err
	}
	if amount <= 0 {
		return budget.ImportRow{}, errors.New("Amount must be positive")
	}
	kind, err := budget.ParseKind(field("type"))
	if err != nil {
		return budget.ImportRow{}, errors.New("Type must be 'income' or 'expense'")
	}
	return budget.ImportRow{
		Date:        field("date"),
		Amount:      amount,
		Type:        kind,
		Category:    field("category"),
		Description: optional(field("description")),
	}, nil
}

func (s *Server) confirmImport(c *gin.Context) {
	var req struct {
		Rows []budget.ImportRow `json:"rows"`
	}
	if !s.bind(c, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := budget.ImportResult{Errors: []string{}}
	for i, row := range req.Rows {
		cat, ok := s.categoryNamed(row.Category)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Unknown category '%s'", i+1, row.Category))
			continue
		}
		on, err := date.Parse(row.Date)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		s.addTransaction(row.Amount, row.Type, cat.ID, row.Description, on)
		result.Created++
	}
	c.JSON(http.StatusOK, result)
}
