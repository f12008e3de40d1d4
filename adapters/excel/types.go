package excel

// RawRow represents a row of raw table data as header → cell pairs
type RawRow map[string]string

// TableData represents a complete uploaded or on-disk table
type TableData struct {
	Headers     []string // Column headers
	Rows        []RawRow // Data rows
	SkippedRows int      // Rows dropped for a column-count mismatch
}

// Format identifies the table encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)
