package api

import (
	"context"
	"io"
	"net/http"

	"github.com/etnz/budget"
)

type confirmBody struct {
	Rows []budget.ImportRow `json:"rows"`
}

// UploadCSV sends a CSV file for validation. Nothing is imported yet: the
// returned preview lists the valid rows and one message per rejected row.
func (c *Client) UploadCSV(ctx context.Context, filename string, r io.Reader) (budget.ImportPreview, error) {
	var preview budget.ImportPreview
	err := c.Upload(ctx, "/import/csv", filename, r, &preview)
	return preview, err
}

// ConfirmImport creates a transaction for each row whose category is known.
func (c *Client) ConfirmImport(ctx context.Context, rows []budget.ImportRow) (budget.ImportResult, error) {
	return call[budget.ImportResult](ctx, c, http.MethodPost, "/import/confirm", nil, confirmBody{Rows: rows})
}
