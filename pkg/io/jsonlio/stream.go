package jsonlio

import (
	"bufio"
	"errors"
	"io"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/csvio"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
)

// StreamReader yields chunks of up to chunkSize rows. Columns and kinds come
// from the first SampleRows objects; keys first seen later are dropped.
type StreamReader struct {
	d         *decoder
	opt       ReaderOptions
	schema    ds.Schema
	pending   [][]string
	chunkSize int
}

// NewStreamReader opens path and infers the schema. The caller closes the
// returned Closer.
func NewStreamReader(path string, opt ReaderOptions, chunkSize int) (*StreamReader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := NewStreamReaderFrom(rc, opt, chunkSize)
	if err != nil {
		_ = rc.Close()
		return nil, nil, err
	}
	return s, rc, nil
}

func NewStreamReaderFrom(r io.Reader, opt ReaderOptions, chunkSize int) (*StreamReader, error) {
	if opt.SampleRows <= 0 {
		opt.SampleRows = 100
	}
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	d := newDecoder(r)
	var sample [][]string
	for len(sample) < opt.SampleRows {
		rec, err := d.next(true)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		sample = append(sample, rec)
	}
	if len(d.keys) == 0 {
		return nil, csvio.ErrEmpty
	}
	sample = pad(sample, len(d.keys))
	schema := csvio.SchemaOf(d.keys, sample, opt.csv())
	return &StreamReader{d: d, opt: opt, schema: schema, pending: sample, chunkSize: chunkSize}, nil
}

func (s *StreamReader) Schema() ds.Schema { return s.schema }

// Next returns the next chunk or io.EOF when complete.
func (s *StreamReader) Next() (*ds.Frame, error) {
	var rows [][]string
	for len(s.pending) > 0 && len(rows) < s.chunkSize {
		rows = append(rows, s.pending[0])
		s.pending = s.pending[1:]
	}
	for len(rows) < s.chunkSize {
		rec, err := s.d.next(false)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, io.EOF
	}
	return csvio.DecodeSchema(s.schema, rows, s.opt.csv())
}

// StreamWriter appends frames as JSONL.
type StreamWriter struct {
	out io.WriteCloser
	bw  *bufio.Writer
}

func NewStreamWriter(path string) (*StreamWriter, error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{out: out, bw: bufio.NewWriter(out)}, nil
}

func (s *StreamWriter) Write(f *ds.Frame) error {
	if err := writeRows(s.bw, f); err != nil {
		return err
	}
	return s.bw.Flush()
}

func (s *StreamWriter) Close() error {
	if err := s.bw.Flush(); err != nil {
		_ = s.out.Close()
		return err
	}
	return s.out.Close()
}
