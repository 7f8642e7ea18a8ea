// Package jsonlio reads and writes newline-delimited JSON objects, one row
// per object. Keys become columns in order of first appearance.
package jsonlio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/csvio"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
)

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("malformed jsonl")

type ReaderOptions struct {
	SampleRows int      // rows used for inference when streaming; default 100
	NullValues []string // nil = csvio.DefaultNullValues
	Strict     bool
}

func (o ReaderOptions) csv() csvio.ReaderOptions {
	return csvio.ReaderOptions{NullValues: o.NullValues, Strict: o.Strict}
}

type decoder struct {
	dec  *json.Decoder
	keys []string
	pos  map[string]int
	n    int
}

func newDecoder(r io.Reader) *decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &decoder{dec: dec, pos: map[string]int{}}
}

// next decodes one object into a record aligned with the keys seen so far.
// New keys are appended when grow is set and dropped otherwise.
func (d *decoder) next(grow bool) ([]string, error) {
	tok, err := d.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, d.n+1, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: record %d: expected object, got %v", ErrMalformed, d.n+1, tok)
	}
	rec := make([]string, len(d.keys))
	for d.dec.More() {
		kt, err := d.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, d.n+1, err)
		}
		key, _ := kt.(string)
		var v any
		if err := d.dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: record %d key %q: %v", ErrMalformed, d.n+1, key, err)
		}
		i, ok := d.pos[key]
		if !ok {
			if !grow {
				continue
			}
			i = len(d.keys)
			d.pos[key] = i
			d.keys = append(d.keys, key)
			rec = append(rec, "")
		}
		rec[i] = cellText(v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, d.n+1, err)
	}
	d.n++
	return rec, nil
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	}
	b, _ := json.Marshal(v)
	return string(bytes.TrimSpace(b))
}

// Read decodes every object from r. Kinds are inferred over all rows the
// same way as CSV cells.
func Read(r io.Reader, opt ReaderOptions) (*ds.Frame, error) {
	d := newDecoder(r)
	var rows [][]string
	for {
		rec, err := d.next(true)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(d.keys) == 0 {
		return nil, csvio.ErrEmpty
	}
	return csvio.Decode(d.keys, pad(rows, len(d.keys)), opt.csv())
}

// pad extends records read before later keys appeared.
func pad(rows [][]string, n int) [][]string {
	for i, rec := range rows {
		if len(rec) < n {
			rows[i] = append(rec, make([]string, n-len(rec))...)
		}
	}
	return rows
}

// ReadAll reads a JSONL file (or stdin for "-"), gzip aware.
func ReadAll(path string, opt ReaderOptions) (*ds.Frame, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Read(rc, opt)
}
