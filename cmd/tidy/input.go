package main

import (
	"flag"
	"fmt"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/csvio"
	"github.com/wdm0006/tidykit/pkg/io/dataio"
)

type inputFlags struct {
	path      string
	format    string
	delimiter string
	noHeader  bool
	sheet     string
}

func (o *inputFlags) register(fs *flag.FlagSet, name string) {
	fs.StringVar(&o.path, name, "", "input file, - for stdin")
	fs.StringVar(&o.format, "format", "", "input format: csv, tsv, jsonl, parquet or xlsx (default from extension)")
	fs.StringVar(&o.delimiter, "delimiter", "", `CSV delimiter, \t for tab (default sniffed)`)
	fs.BoolVar(&o.noHeader, "no-header", false, "CSV input has no header row")
	fs.StringVar(&o.sheet, "sheet", "", "XLSX sheet (default the first)")
}

func (o *inputFlags) load() (*ds.Frame, error) {
	if o.path == "" {
		return nil, usagef("an input file is required")
	}
	format, err := dataio.ParseFormat(o.format)
	if err != nil {
		return nil, usagef("%v", err)
	}
	opt := dataio.Options{Format: format, NoHeader: o.noHeader, Sheet: o.sheet}
	switch o.delimiter {
	case "":
	case `\t`:
		opt.CSV = csvio.ReaderOptions{Delimiter: '\t'}
	default:
		opt.CSV = csvio.ReaderOptions{Delimiter: []rune(o.delimiter)[0]}
	}
	f, err := dataio.Load(o.path, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", o.path, err)
	}
	return f, nil
}
