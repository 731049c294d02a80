// Package tabular maps the company collection to and from CSV and XLSX
// files.
package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-tracker/internal/fetcher"
	"github.com/sells-group/lead-tracker/internal/model"
	"github.com/sells-group/lead-tracker/internal/validate"
)

// Columns is the header written on export, in order.
var Columns = []string{
	"company", "country", "state", "city", "zipcode", "employees", "revenue",
	"website", "sales_rep", "last_contacted", "purchased", "notes",
}

// SheetName is the worksheet written on XLSX export.
const SheetName = "Companies"

// ErrUnsupportedFormat is returned for a file extension other than .csv or
// .xlsx.
var ErrUnsupportedFormat = eris.New("tabular: unsupported file format")

// ToRow renders c in Columns order.
func ToRow(c model.CompanyData) []string {
	return []string{
		c.Company,
		c.Country,
		c.State,
		c.City,
		c.Zipcode,
		strconv.Itoa(c.Employees),
		strconv.FormatFloat(c.Revenue, 'f', -1, 64),
		c.Website,
		c.SalesRep,
		c.LastContacted,
		strconv.FormatBool(c.Purchased),
		c.Notes,
	}
}

// Header maps normalized column names to their position in a header row.
type Header map[string]int

// ParseHeader reads a header row. Names are matched case-insensitively and
// spaces or dashes count as underscores, so "Sales Rep" finds sales_rep.
func ParseHeader(row []string) (Header, error) {
	h := Header{}
	for i, name := range row {
		key := normalize(name)
		if key == "" {
			continue
		}
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	for _, col := range Columns {
		if _, ok := h[col]; ok {
			return h, nil
		}
	}
	return nil, eris.New("tabular: header has no known columns")
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

func (h Header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// FromRow reads a data row into a form. Missing columns are left empty and
// fail validation later.
func (h Header) FromRow(row []string) validate.CompanyForm {
	return validate.CompanyForm{
		Company:       h.get(row, "company"),
		Country:       h.get(row, "country"),
		State:         h.get(row, "state"),
		City:          h.get(row, "city"),
		Zipcode:       h.get(row, "zipcode"),
		Employees:     validate.Number(h.get(row, "employees")),
		Revenue:       validate.Number(h.get(row, "revenue")),
		Website:       h.get(row, "website"),
		SalesRep:      h.get(row, "sales_rep"),
		LastContacted: h.get(row, "last_contacted"),
		Purchased:     ParseBool(h.get(row, "purchased")),
		Notes:         h.get(row, "notes"),
	}
}

// ParseBool accepts the spellings spreadsheets commonly use for yes.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "✓", "x":
		return true
	}
	return false
}

// Forms turns raw rows, header first, into forms. Blank rows are skipped.
func Forms(rows [][]string) ([]validate.CompanyForm, error) {
	if len(rows) == 0 {
		return nil, eris.New("tabular: file is empty")
	}
	h, err := ParseHeader(rows[0])
	if err != nil {
		return nil, err
	}
	var forms []validate.CompanyForm
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		forms = append(forms, h.FromRow(row))
	}
	return forms, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadFile reads forms from a .csv or .xlsx file.
func ReadFile(ctx context.Context, path string) ([]validate.CompanyForm, error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "tabular: open")
		}
		defer f.Close() //nolint:errcheck
		rows, err = fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
		if err != nil {
			return nil, err
		}
	case ".xlsx":
		var err error
		rows, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{TrimSpace: true})
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%s", filepath.Ext(path))
	}
	return Forms(rows)
}

// WriteCSV writes the header and one row per company.
func WriteCSV(w io.Writer, companies []model.CompanyData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "tabular: write csv header")
	}
	for _, c := range companies {
		if err := cw.Write(ToRow(c)); err != nil {
			return eris.Wrap(err, "tabular: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "tabular: flush csv")
}

// WriteXLSX saves the companies to a single-sheet workbook at path.
func WriteXLSX(path string, companies []model.CompanyData) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "tabular: add sheet")
	}
	addRow(sheet, Columns)
	for _, c := range companies {
		addRow(sheet, ToRow(c))
	}
	return eris.Wrap(f.Save(path), "tabular: save xlsx")
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// WriteFile exports to path, choosing the format by extension.
func WriteFile(path string, companies []model.CompanyData) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "tabular: create")
		}
		if err := WriteCSV(f, companies); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		return eris.Wrap(f.Close(), "tabular: close")
	case ".xlsx":
		return WriteXLSX(path, companies)
	}
	return eris.Wrapf(ErrUnsupportedFormat, "%s", filepath.Ext(path))
}
