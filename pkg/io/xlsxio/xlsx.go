// Package xlsxio reads the first (or a named) worksheet of an Excel workbook
// into a frame and writes frames as single-sheet workbooks.
package xlsxio

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/csvio"
)

type Options struct {
	Sheet      string // default: first sheet
	NullValues []string
}

// Read decodes a workbook. The first row of the sheet is the header; cell
// text is inferred like CSV.
func Read(r io.Reader, opt Options) (*ds.Frame, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", csvio.ErrMalformed, err)
	}
	defer func() { _ = wb.Close() }()
	return decode(wb, opt)
}

func ReadAll(path string, opt Options) (*ds.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()
	return decode(wb, opt)
}

func decode(wb *excelize.File, opt Options) (*ds.Frame, error) {
	sheet := opt.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, csvio.ErrEmpty
		}
		sheet = sheets[0]
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, csvio.ErrEmpty
	}
	header, body := rows[0], rows[1:]
	// trailing empty cells are trimmed by excelize
	width := len(header)
	for _, rec := range body {
		width = max(width, len(rec))
	}
	header = padRow(header, width)
	for i := range body {
		body[i] = padRow(body[i], width)
	}
	return csvio.Decode(header, body, csvio.ReaderOptions{NullValues: opt.NullValues})
}

func padRow(rec []string, n int) []string {
	if len(rec) >= n {
		return rec
	}
	return append(rec, make([]string, n-len(rec))...)
}

// Write encodes f as a workbook with one sheet.
func Write(w io.Writer, f *ds.Frame, sheet string) error {
	wb, err := build(f, sheet)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	return wb.Write(w)
}

func WriteAll(path string, f *ds.Frame, sheet string) error {
	wb, err := build(f, sheet)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	return wb.SaveAs(path)
}

func build(f *ds.Frame, sheet string) (*excelize.File, error) {
	wb := excelize.NewFile()
	name := wb.GetSheetName(0)
	if sheet != "" && sheet != name {
		if err := wb.SetSheetName(name, sheet); err != nil {
			_ = wb.Close()
			return nil, err
		}
		name = sheet
	}
	header := make([]any, f.Cols())
	for i, n := range f.Names() {
		header[i] = n
	}
	if err := wb.SetSheetRow(name, "A1", &header); err != nil {
		_ = wb.Close()
		return nil, err
	}
	cols := f.Columns()
	row := make([]any, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c] = cellValue(col, r)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			_ = wb.Close()
			return nil, err
		}
		if err := wb.SetSheetRow(name, cell, &row); err != nil {
			_ = wb.Close()
			return nil, err
		}
	}
	return wb, nil
}

func cellValue(c ds.Column, r int) any {
	if c.IsNull(r) {
		return nil
	}
	switch col := c.(type) {
	case *ds.IntColumn:
		v, _ := col.Get(r)
		return v
	case *ds.FloatColumn:
		v, _ := col.Get(r)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return ds.FormatFloat(v)
		}
		return v
	case *ds.BoolColumn:
		v, _ := col.Get(r)
		return v
	}
	return ds.Format(c, r)
}
