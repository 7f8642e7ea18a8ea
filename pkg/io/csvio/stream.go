package csvio

import (
	"encoding/csv"
	"errors"
	"io"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
)

// StreamReader reads CSV into Frame chunks of up to chunkSize rows. Kinds
// are inferred from the first SampleRows records only.
type StreamReader struct {
	r         *Reader
	schema    ds.Schema
	chunkSize int
}

// NewStreamReader opens the file, infers schema (respecting options), and
// returns a StreamReader. The caller closes the returned Closer.
func NewStreamReader(path string, opt ReaderOptions, chunkSize int) (*StreamReader, io.Closer, error) {
	rr, rc, err := Open(path, opt)
	if err != nil {
		return nil, nil, err
	}
	sr, err := NewStreamReaderFrom(rr, chunkSize)
	if err != nil {
		_ = rc.Close()
		return nil, nil, err
	}
	return sr, rc, nil
}

func NewStreamReaderFrom(rr *Reader, chunkSize int) (*StreamReader, error) {
	schema, _, err := rr.InferSchema()
	if err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	return &StreamReader{r: rr, schema: schema, chunkSize: chunkSize}, nil
}

// Next returns the next chunk frame or io.EOF when complete.
func (s *StreamReader) Next() (*ds.Frame, error) {
	f := ds.NewFrame(s.schema)
	for len(s.r.buf) > 0 && f.Rows() < s.chunkSize {
		rec := s.r.buf[0]
		s.r.buf = s.r.buf[1:]
		if err := s.r.appendRecord(f, rec); err != nil {
			return nil, err
		}
	}
	for f.Rows() < s.chunkSize {
		rec, err := s.r.read()
		if errors.Is(err, io.EOF) {
			if f.Rows() == 0 {
				return nil, io.EOF
			}
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.r.appendRecord(f, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *StreamReader) Schema() ds.Schema { return s.schema }

// Warnings reports repairs made so far.
func (s *StreamReader) Warnings() string { return s.r.Warnings() }

// StreamWriter appends frames to a CSV output with a header written once.
type StreamWriter struct {
	w           *csv.Writer
	out         io.WriteCloser
	wroteHeader bool
	opt         WriterOptions
}

func NewStreamWriter(path string, opt WriterOptions) (*StreamWriter, error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	cw, err := newCSVWriter(out, opt)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	return &StreamWriter{w: cw, out: out, opt: opt}, nil
}

func (s *StreamWriter) Write(fr *ds.Frame) error {
	if !s.wroteHeader && !s.opt.NoHeader {
		if err := s.w.Write(fr.Names()); err != nil {
			return err
		}
	}
	s.wroteHeader = true
	if err := writeRows(s.w, fr); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *StreamWriter) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.out.Close()
		return err
	}
	return s.out.Close()
}
