package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/xuri/excelize/v2"
)

// Row is one data row of an inventory sheet, cells still as text.
type Row struct {
	// Line is the 1-based sheet row number, header included.
	Line              int
	Type              string
	Manufacturer      string
	Model             string
	Description       string
	SumDescription    string
	Qty               string
	HeadConfiguration string
	Dept              string
	Status            string
	Area              string
	Location          string
	Site              string
}

// RowError is a row-level parse failure. Any RowError aborts the whole batch.
type RowError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

var (
	// ErrInvalidSheet wraps every failure caused by the uploaded file itself,
	// as opposed to a data-access fault.
	ErrInvalidSheet       = errors.New("invalid inventory sheet")
	ErrMissingModelColumn = errors.New("sheet has no model column")
	ErrEmptySheet         = errors.New("sheet has no header row")
	ErrUnsupportedFormat  = errors.New("unsupported file type (want .xlsx or .csv)")
	errNegativeQty        = errors.New("quantity cannot be negative")
	errFractionalQty      = errors.New("quantity must be a whole number")
)

// columnAliases maps case-folded, trimmed header text to a Row field.
var columnAliases = map[string]string{
	"type":                "type",
	"manufacturer":        "manufacturer",
	"model":               "model",
	"description":         "description",
	"sum-description":     "sum_description",
	"sum description":     "sum_description",
	"summary description": "sum_description",
	"qty":                 "qty",
	"quantity":            "qty",
	"head configuration":  "head_configuration",
	"dept":                "dept",
	"department":          "dept",
	"status":              "status",
	"area":                "area",
	"location":            "location",
	"site":                "site",
}

// ReadFile reads the first sheet of an .xlsx workbook or a .csv file into a
// table of cells. The file type is taken from name's extension.
func ReadFile(name string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

// ParseRows maps a table whose first row is the header onto Rows. Unknown
// columns are ignored and missing optional columns stay empty; rows with an
// empty model are dropped.
func ParseRows(table [][]string) ([]Row, error) {
	if len(table) == 0 {
		return nil, ErrEmptySheet
	}

	index := make(map[string]int)
	for i, h := range table[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := columnAliases[key]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	if _, ok := index["model"]; !ok {
		return nil, ErrMissingModelColumn
	}

	var rows []Row
	for n, record := range table[1:] {
		cell := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		model := normalizeModel(cell("model"))
		if model == "" {
			continue
		}
		rows = append(rows, Row{
			Line:              n + 2,
			Type:              cell("type"),
			Manufacturer:      cell("manufacturer"),
			Model:             model,
			Description:       cell("description"),
			SumDescription:    cell("sum_description"),
			Qty:               cell("qty"),
			HeadConfiguration: cell("head_configuration"),
			Dept:              cell("dept"),
			Status:            cell("status"),
			Area:              cell("area"),
			Location:          cell("location"),
			Site:              cell("site"),
		})
	}
	return rows, nil
}

// normalizeModel trims the model and treats a spreadsheet "nan" as empty.
func normalizeModel(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// parseQty accepts blank (0), integers and whole-number floats such as "10.0".
func parseQty(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, ferr
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return 0, errFractionalQty
		}
		n = int(f)
	}
	if n < 0 {
		return 0, errNegativeQty
	}
	return n, nil
}

// Item converts r into the stored item shape.
func (r Row) Item() (models.InventoryItem, error) {
	qty, err := parseQty(r.Qty)
	if err != nil {
		return models.InventoryItem{}, &RowError{Line: r.Line, Field: "quantity", Value: r.Qty, Err: err}
	}
	return models.InventoryItem{
		Type:              r.Type,
		Manufacturer:      r.Manufacturer,
		Model:             r.Model,
		Description:       r.Description,
		SumDescription:    r.SumDescription,
		Qty:               qty,
		HeadConfiguration: r.HeadConfiguration,
		Dept:              r.Dept,
		Status:            r.Status,
		Area:              r.Area,
		Location:          r.Location,
		Site:              r.Site,
	}, nil
}
