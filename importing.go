package budget

// ImportRow is a CSV line the server accepted for import.
type ImportRow struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Type        Kind    `json:"type"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

// ImportPreview lists the rows parsed from an uploaded CSV and the lines rejected.
type ImportPreview struct {
	Rows   []ImportRow `json:"rows"`
	Errors []string    `json:"errors"`
}

// ImportResult reports a confirmed import.
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}
