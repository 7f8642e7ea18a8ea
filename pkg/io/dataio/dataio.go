// Package dataio loads and saves frames in any supported format, picked
// explicitly or from the file extension.
package dataio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/csvio"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
	"github.com/wdm0006/tidykit/pkg/io/jsonlio"
	"github.com/wdm0006/tidykit/pkg/io/parquetio"
	"github.com/wdm0006/tidykit/pkg/io/xlsxio"
)

type Format string

const (
	FormatAuto    Format = ""
	FormatCSV     Format = "csv"
	FormatJSONL   Format = "jsonl"
	FormatParquet Format = "parquet"
	FormatXLSX    Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown data format")

// ParseFormat accepts a format name or a file extension with or without
// the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "":
		return FormatAuto, nil
	case "csv", "tsv", "txt":
		return FormatCSV, nil
	case "jsonl", "ndjson", "json":
		return FormatJSONL, nil
	case "parquet", "pq":
		return FormatParquet, nil
	case "xlsx", "xlsm":
		return FormatXLSX, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Detect resolves the format of path from its extension; stdin and
// extensionless paths are CSV.
func Detect(path string) (Format, error) {
	ext := iox.Ext(path)
	if ext == "" || path == iox.Stdio {
		return FormatCSV, nil
	}
	return ParseFormat(ext)
}

type Options struct {
	Format    Format
	NoHeader  bool // CSV input whose first line is data
	CSV       csvio.ReaderOptions
	Delimiter rune   // CSV output
	BOM       bool   // CSV output
	Sheet     string // XLSX
}

func (o Options) resolve(path string) (Format, error) {
	if o.Format != FormatAuto {
		return o.Format, nil
	}
	return Detect(path)
}

func csvOptions(path string, opt csvio.ReaderOptions) csvio.ReaderOptions {
	opt.HasHeader = true
	if opt.Delimiter == 0 && iox.Ext(path) == ".tsv" {
		opt.Delimiter = '\t'
	}
	return opt
}

// Load reads a whole file ("-" for stdin) into memory.
func Load(path string, opt Options) (*ds.Frame, error) {
	format, err := opt.resolve(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatParquet:
		r, err := parquetio.OpenReader(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll()
	case FormatXLSX:
		return xlsxio.ReadAll(path, xlsxio.Options{Sheet: opt.Sheet, NullValues: opt.CSV.NullValues})
	}
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	opt.Format = format
	opt.CSV = csvOptions(path, opt.CSV)
	return Decode(rc, opt)
}

// Decode reads a stream such as an upload body. Options.Format must not be
// FormatAuto.
func Decode(r io.Reader, opt Options) (*ds.Frame, error) {
	switch opt.Format {
	case FormatCSV:
		if opt.NoHeader {
			return csvio.LoadHeaderless(r, opt.CSV)
		}
		return csvio.Load(r, opt.CSV)
	case FormatJSONL:
		return jsonlio.Read(r, jsonlio.ReaderOptions{NullValues: opt.CSV.NullValues, Strict: opt.CSV.Strict})
	case FormatXLSX:
		return xlsxio.Read(r, xlsxio.Options{Sheet: opt.Sheet, NullValues: opt.CSV.NullValues})
	case FormatParquet:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		pr, err := parquetio.NewReader(bytes.NewReader(b), int64(len(b)))
		if err != nil {
			return nil, err
		}
		return pr.ReadAll()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opt.Format)
}

// Save writes f to path ("-" for stdout). CSV and JSONL paths ending in
// .gz are compressed.
func Save(path string, f *ds.Frame, opt Options) error {
	format, err := opt.resolve(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		wo := csvio.WriterOptions{Delimiter: opt.Delimiter, BOM: opt.BOM}
		if wo.Delimiter == 0 && iox.Ext(path) == ".tsv" {
			wo.Delimiter = '\t'
		}
		return csvio.WriteAll(path, f, wo)
	case FormatJSONL:
		return jsonlio.WriteAll(path, f)
	case FormatParquet:
		return parquetio.WriteAll(path, f)
	case FormatXLSX:
		return xlsxio.WriteAll(path, f, opt.Sheet)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// OpenStream returns a chunked reader for CSV or JSONL input. The caller
// closes the returned Closer.
func OpenStream(path string, opt Options, chunkSize int) (ds.ChunkSource, io.Closer, error) {
	format, err := opt.resolve(path)
	if err != nil {
		return nil, nil, err
	}
	switch format {
	case FormatCSV:
		co := csvOptions(path, opt.CSV)
		co.HasHeader = !opt.NoHeader
		sr, rc, err := csvio.NewStreamReader(path, co, chunkSize)
		if err != nil {
			return nil, nil, err
		}
		return sr, rc, nil
	case FormatJSONL:
		jo := jsonlio.ReaderOptions{SampleRows: opt.CSV.SampleRows, NullValues: opt.CSV.NullValues, Strict: opt.CSV.Strict}
		sr, rc, err := jsonlio.NewStreamReader(path, jo, chunkSize)
		if err != nil {
			return nil, nil, err
		}
		return sr, rc, nil
	}
	return nil, nil, fmt.Errorf("%w: %s cannot be streamed", ErrUnknownFormat, format)
}

// CreateStream returns a chunked writer for CSV or JSONL output.
func CreateStream(path string, opt Options) (ds.ChunkSink, error) {
	format, err := opt.resolve(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		wo := csvio.WriterOptions{Delimiter: opt.Delimiter, BOM: opt.BOM}
		if wo.Delimiter == 0 && iox.Ext(path) == ".tsv" {
			wo.Delimiter = '\t'
		}
		sw, err := csvio.NewStreamWriter(path, wo)
		if err != nil {
			return nil, err
		}
		return sw, nil
	case FormatJSONL:
		sw, err := jsonlio.NewStreamWriter(path)
		if err != nil {
			return nil, err
		}
		return sw, nil
	}
	return nil, fmt.Errorf("%w: %s cannot be streamed", ErrUnknownFormat, format)
}
