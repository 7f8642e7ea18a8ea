// Package parquetio writes frames with xitongsys/parquet-go and reads them
// back with segmentio/parquet-go. Every column is optional; time values are
// stored as UTF8 text.
package parquetio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

var tagEscaper = strings.NewReplacer(",", "_", "=", "_")

// columnTags builds the writer metadata, one tag per column.
func columnTags(s ds.Schema) []string {
	md := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		tag := "name=" + tagEscaper.Replace(cs.Name) + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case ds.KindFloat:
			tag += "DOUBLE"
		case ds.KindInt:
			tag += "INT64"
		case ds.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		md[i] = tag
	}
	return md
}

// WriteAll writes a Frame to a Parquet file. Missing and non-finite cells
// are stored as nulls.
func WriteAll(path string, f *ds.Frame) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewCSVWriter(columnTags(f.Schema()), fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	cols := f.Columns()
	rec := make([]*string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			rec[c] = cellText(col, r)
		}
		if err := writer.WriteString(rec); err != nil {
			_ = writer.WriteStop()
			_ = fw.Close()
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet flush: %w", err)
	}
	return fw.Close()
}

func cellText(c ds.Column, r int) *string {
	if c.IsNull(r) {
		return nil
	}
	var s string
	switch col := c.(type) {
	case *ds.FloatColumn:
		v, _ := col.Get(r)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		s = strconv.FormatFloat(v, 'g', -1, 64)
	default:
		s = ds.Format(c, r)
	}
	return &s
}
