package jsonlio

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"strconv"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
)

// Write emits one object per row with keys in column order. Missing and
// non-finite cells are written as null.
func Write(w io.Writer, f *ds.Frame) error {
	bw := bufio.NewWriter(w)
	if err := writeRows(bw, f); err != nil {
		return err
	}
	return bw.Flush()
}

func WriteAll(path string, f *ds.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeRows(bw *bufio.Writer, f *ds.Frame) error {
	cols := f.Columns()
	keys := make([][]byte, len(cols))
	for i, c := range cols {
		keys[i], _ = json.Marshal(c.Name())
	}
	for r := 0; r < f.Rows(); r++ {
		bw.WriteByte('{')
		for i, c := range cols {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.Write(keys[i])
			bw.WriteByte(':')
			bw.WriteString(cellJSON(c, r))
		}
		if _, err := bw.WriteString("}\n"); err != nil {
			return err
		}
	}
	return nil
}

func cellJSON(c ds.Column, r int) string {
	if c.IsNull(r) {
		return "null"
	}
	switch col := c.(type) {
	case *ds.IntColumn:
		v, _ := col.Get(r)
		return strconv.FormatInt(v, 10)
	case *ds.FloatColumn:
		v, _ := col.Get(r)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "null"
		}
		return ds.FormatFloat(v)
	case *ds.BoolColumn:
		v, _ := col.Get(r)
		return strconv.FormatBool(v)
	}
	b, _ := json.Marshal(ds.Format(c, r))
	return string(b)
}
