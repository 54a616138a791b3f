// Package export renders assembled tables to spreadsheet files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rowboat/internal/core/rowset"
	perr "rowboat/internal/platform/errors"
)

// Format selects the output encoding
type Format string

// Supported formats
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// SheetName is the worksheet tables are written to
const SheetName = "Results"

// FormatForPath picks a format from the file extension, defaulting to xlsx
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	default:
		return FormatXLSX
	}
}

// DefaultFilename names an export file for a run started at ts
func DefaultFilename(ts time.Time) string {
	return "rowboat_export_" + ts.UTC().Format("20060102_150405") + ".xlsx"
}

// Write renders t to w in the given format
func Write(w io.Writer, t rowset.Table, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return perr.InvalidArgf("unknown export format %q", f)
	}
}

// WriteXLSX renders t as a single-sheet workbook
func WriteXLSX(w io.Writer, t rowset.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "rename sheet")
	}

	for col, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "header cell name")
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "write header")
		}
	}

	for i, row := range t.Rows {
		for col, name := range t.Columns {
			v, ok := row[name]
			if !ok || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnknown, "cell name")
			}
			if err := f.SetCellValue(SheetName, cell, cellValue(v)); err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnknown, "write cell")
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write workbook")
	}
	return nil
}

// WriteCSV renders t with a header line followed by one line per row
func WriteCSV(w io.Writer, t rowset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write header")
	}

	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, name := range t.Columns {
			rec[i] = cellString(row[name])
		}
		if err := cw.Write(rec); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "write record")
		}
	}

	cw.Flush()
	return cw.Error()
}

// cellValue keeps native scalar types so the workbook stores numbers and
// booleans rather than their string forms
func cellValue(v any) any {
	switch v.(type) {
	case string, bool, float64, int, int64:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		// integral JSON numbers print without a decimal point
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	default:
		return fmt.Sprint(x)
	}
}
