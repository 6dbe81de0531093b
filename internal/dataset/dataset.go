package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Column names required in the source table, in canonical order.
var RequiredColumns = []string{
	"Date",
	"Transaction ID",
	"Region",
	"Product Category",
	"Product Name",
	"Payment Method",
	"Units Sold",
	"Unit Price",
	"Total Revenue",
}

// Row is one normalized sales record.
type Row struct {
	Date          time.Time
	HasDate       bool // false when the source date was missing or unparseable
	TransactionID string
	Region        string
	Category      string
	ProductName   string
	PaymentMethod string
	UnitsSold     int
	UnitPrice     float64
	TotalRevenue  float64
}

// Table is the loaded dataset. Immutable after Load; filtering produces
// new row slices, never mutates.
type Table struct {
	Columns []string
	Rows    []Row
}

// Load reads the dataset at path, dispatching on extension (.xlsx or CSV),
// validates required columns and normalizes types. Missing files return
// ErrNotFound; schema mismatches return a MissingColumnsError.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(ErrNotFound, "dataset: %s (set SALES_DATASET_PATH to override)", path)
		}
		return nil, eris.Wrap(err, "dataset: stat file")
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, eris.New("dataset: file has no header row")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		date, hasDate := parseDate(getCol(rec, colIdx, "Date"))
		rows = append(rows, Row{
			Date:          date,
			HasDate:       hasDate,
			TransactionID: getCol(rec, colIdx, "Transaction ID"),
			Region:        getCol(rec, colIdx, "Region"),
			Category:      getCol(rec, colIdx, "Product Category"),
			ProductName:   getCol(rec, colIdx, "Product Name"),
			PaymentMethod: getCol(rec, colIdx, "Payment Method"),
			UnitsSold:     parseUnits(getCol(rec, colIdx, "Units Sold")),
			UnitPrice:     parseMoney(getCol(rec, colIdx, "Unit Price")),
			TotalRevenue:  parseMoney(getCol(rec, colIdx, "Total Revenue")),
		})
	}

	cols := make([]string, len(RequiredColumns))
	copy(cols, RequiredColumns)

	return &Table{Columns: cols, Rows: rows}, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("dataset: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		records = append(records, cells)
	}
	return records, nil
}

// getCol safely retrieves a column value from a record.
func getCol(rec []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// parseDate coerces a date string. Unparseable values become "no date"
// rather than an error.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseUnits coerces a unit count to a non-negative integer; invalid → 0.
func parseUnits(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || n < 0 {
		return 0
	}
	return int(n)
}

// parseMoney coerces a price or revenue value to a non-negative float64;
// invalid → 0.
func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
