package dto

// RowDiagnostic reports a problem with a single spreadsheet row.
// Row numbers are 1-based and include the header row, so the first
// data row is row 2.
type RowDiagnostic struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
	Warning bool   `json:"warning"`
}

// ImportSummary is the outcome of an Excel import
type ImportSummary struct {
	Imported   int             `json:"imported"`
	Total      int             `json:"total"`
	Skipped    int             `json:"skipped"`
	Duplicates int             `json:"duplicates"`
	Errors     []RowDiagnostic `json:"errors"`
	Tickets    []TicketDTO     `json:"tickets"`
}
