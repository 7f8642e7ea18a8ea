package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	parquet "github.com/segmentio/parquet-go"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/csvio"
)

// Reader holds an open Parquet file. Only flat schemas are supported; each
// leaf column becomes one frame column.
type Reader struct {
	closer io.Closer
	file   *parquet.File
	names  []string
}

// OpenReader opens a Parquet file on disk.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r, err := NewReader(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads Parquet from any random-access source, such as an upload
// held in memory.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	pf, err := parquet.OpenFile(ra, size)
	if err != nil {
		return nil, fmt.Errorf("parquet open: %w", err)
	}
	var names []string
	for _, path := range pf.Schema().Columns() {
		if len(path) != 1 {
			return nil, fmt.Errorf("parquet: nested column %v is not supported", path)
		}
		names = append(names, path[0])
	}
	return &Reader{file: pf, names: names}, nil
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) NumRows() int64 { return r.file.NumRows() }

// ReadAll decodes every row. Boolean, integer and floating point leaves keep
// their kind; text leaves are inferred like CSV cells.
func (r *Reader) ReadAll() (*ds.Frame, error) {
	pr := parquet.NewReader(r.file)
	defer func() { _ = pr.Close() }()

	var records [][]string
	typed := make([]ds.Kind, len(r.names))
	buf := make([]parquet.Row, 256)
	for {
		n, err := pr.ReadRows(buf)
		for _, row := range buf[:n] {
			rec := make([]string, len(r.names))
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(rec) || v.IsNull() {
					continue
				}
				rec[c], typed[c] = valueText(v, typed[c])
			}
			records = append(records, rec)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parquet read: %w", err)
		}
		if n == 0 {
			break
		}
	}

	opt := csvio.ReaderOptions{NullValues: []string{""}}
	schema := csvio.SchemaOf(r.names, records, opt)
	for i, k := range typed {
		if k != ds.KindInvalid {
			schema.Columns[i].Type = k
		}
	}
	return csvio.DecodeSchema(schema, records, opt)
}

func valueText(v parquet.Value, k ds.Kind) (string, ds.Kind) {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean()), ds.KindBool
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10), ds.KindInt
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10), ds.KindInt
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32), ds.KindFloat
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64), ds.KindFloat
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray()), k
	}
	return v.String(), k
}
