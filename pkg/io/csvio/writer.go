package csvio

import (
	"encoding/csv"
	"io"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
	BOM       bool // prefix a UTF-8 byte order mark for spreadsheet tools
	NoHeader  bool
}

func newCSVWriter(w io.Writer, opt WriterOptions) (*csv.Writer, error) {
	if opt.BOM {
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return nil, err
		}
	}
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	return cw, nil
}

// Write encodes f with a header row. Missing cells are written empty.
func Write(w io.Writer, f *ds.Frame, opt WriterOptions) error {
	cw, err := newCSVWriter(w, opt)
	if err != nil {
		return err
	}
	if !opt.NoHeader {
		if err := cw.Write(f.Names()); err != nil {
			return err
		}
	}
	if err := writeRows(cw, f); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteAll writes a Frame to a CSV file (or stdout for "-"); a .gz path is
// compressed.
func WriteAll(path string, f *ds.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeRows(cw *csv.Writer, f *ds.Frame) error {
	cols := f.Columns()
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c] = ds.Format(col, r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
