package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gocrop/internal"
)

// DataReader handles reading Excel and CSV tables
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger}
}

// DetectFormat picks the table format from a file name; anything that is not
// .xlsx is read as CSV
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// ReadFile reads a table from disk
func (r *DataReader) ReadFile(path string) (*TableData, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("data file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	return r.Read(f, DetectFormat(path))
}

// Read reads a table in the given format
func (r *DataReader) Read(src io.Reader, format Format) (*TableData, error) {
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSVRows(src)
	case FormatXLSX:
		rows, err = readExcelRows(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", format)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("[DataReader] %s read in %.2fms (%d raw rows)",
		strings.ToUpper(string(format)), float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows, format)
}

func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // mismatched rows are skipped in processRows
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// readExcelRows reads the first sheet of a workbook
func readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// processRows converts raw string rows into TableData, dropping blank rows and
// rows whose width does not match the header
func (r *DataReader) processRows(rows [][]string, format Format) (*TableData, error) {
	rows = dropBlankRows(rows)
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(string(format)))
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	data := &TableData{Headers: headers}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		// excelize trims trailing empty cells, so only CSV rows must match exactly
		if len(row) > len(headers) || (format == FormatCSV && len(row) != len(headers)) {
			r.logger.Warn("[DataReader] Skipping row %d: column count mismatch (%d vs %d)", i+1, len(row), len(headers))
			data.SkippedRows++
			continue
		}

		rowData := make(RawRow, len(headers))
		for j, cell := range row {
			rowData[headers[j]] = strings.TrimSpace(cell)
		}
		data.Rows = append(data.Rows, rowData)
	}

	r.logger.Info("[DataReader] %s table processed (%d columns, %d rows, %d skipped)",
		strings.ToUpper(string(format)), len(headers), len(data.Rows), data.SkippedRows)

	return data, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
