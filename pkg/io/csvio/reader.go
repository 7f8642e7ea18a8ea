package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
)

var (
	// ErrMalformed wraps every parse failure.
	ErrMalformed = errors.New("malformed csv")
	// ErrEmpty is returned when the input has no header row.
	ErrEmpty = errors.New("no columns to parse")
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune     // 0 = sniff, default ','
	SampleRows int      // for inference; default 100, negative = every row
	Strict     bool     // if true, error on short/long records
	NullValues []string // cells read as missing; nil = DefaultNullValues plus TypedNullValues
}

// DefaultNullValues are the tokens read as missing in every column, matched
// after trimming. None of them is lower-case text, so a normalized string
// column reads back unchanged.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
}

// TypedNullValues are read as missing only in int, float, bool and time
// columns; a string column keeps them as text. They apply when
// ReaderOptions.NullValues is nil.
var TypedNullValues = []string{"-nan", "n/a", "nan", "null"}

type Reader struct {
	r     *csv.Reader
	opt   ReaderOptions
	buf   [][]string
	nulls nullTokens
	// repair/warning counters
	shortRecords int
	longRecords  int
	badCells     int
}

// Open opens a CSV file (or stdin for "-"), transparently decompressing
// gzip. The caller closes the returned Closer.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe,
// upload).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReader(r)
	rr := csv.NewReader(br)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	if !opt.Strict {
		rr.FieldsPerRecord = -1
	}
	return &Reader{r: rr, opt: opt, nulls: nullSet(opt.NullValues)}
}

// nullTokens holds the cells read as missing everywhere and those read as
// missing only outside string columns.
type nullTokens struct {
	all   map[string]struct{}
	typed map[string]struct{}
}

func nullSet(vals []string) nullTokens {
	nt := nullTokens{typed: map[string]struct{}{}}
	if vals == nil {
		vals = DefaultNullValues
		for _, v := range TypedNullValues {
			nt.typed[v] = struct{}{}
		}
	}
	nt.all = make(map[string]struct{}, len(vals))
	for _, v := range vals {
		nt.all[v] = struct{}{}
	}
	return nt
}

// missing reports whether trimmed text v is a missing cell in a column of
// kind k.
func (nt nullTokens) missing(v string, k ds.Kind) bool {
	if _, ok := nt.all[v]; ok {
		return true
	}
	if k == ds.KindString {
		return false
	}
	_, ok := nt.typed[v]
	return ok
}

func (r *Reader) read() ([]string, error) {
	rec, err := r.r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return rec, err
}

// InferSchema reads header (if present) and samples rows to determine column kinds.
func (r *Reader) InferSchema() (ds.Schema, []string, error) {
	rec, err := r.read()
	if errors.Is(err, io.EOF) {
		return ds.Schema{}, nil, ErrEmpty
	}
	if err != nil {
		return ds.Schema{}, nil, err
	}
	var names []string
	if r.opt.HasHeader {
		names = HeaderNames(rec)
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
		r.buf = append(r.buf, append([]string(nil), rec...))
	}

	limit := r.opt.SampleRows
	if limit == 0 {
		limit = 100
	}
	for limit < 0 || len(r.buf) < limit {
		rec, err := r.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ds.Schema{}, nil, err
		}
		r.buf = append(r.buf, rec)
	}

	kinds := inferKinds(r.buf, len(names), r.nulls)
	schema := ds.Schema{Columns: make([]ds.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = ds.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	return schema, names, nil
}

// HeaderNames cleans a header row: the BOM is stripped, invalid UTF-8 is
// replaced, blank names become "Unnamed: i" and repeated names get a ".n"
// suffix.
func HeaderNames(rec []string) []string {
	names := make([]string, len(rec))
	used := map[string]bool{}
	counts := map[string]int{}
	for i := range rec {
		n := strings.ToValidUTF8(rec[i], "?")
		if i == 0 {
			n = strings.TrimPrefix(n, "\ufeff")
		}
		if strings.TrimSpace(n) == "" {
			n = "Unnamed: " + strconv.Itoa(i)
		}
		base := n
		for used[n] {
			counts[base]++
			n = base + "." + strconv.Itoa(counts[base])
		}
		used[n] = true
		names[i] = n
	}
	return names
}

// ReadAll loads the rest of the CSV into a Frame.
func (r *Reader) ReadAll(schema ds.Schema) (*ds.Frame, error) {
	f := ds.NewFrame(schema)
	// drain buffered records from inference (if any)
	for len(r.buf) > 0 {
		rec := r.buf[0]
		r.buf = r.buf[1:]
		if err := r.appendRecord(f, rec); err != nil {
			return nil, err
		}
	}
	for {
		rec, err := r.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Load reads a whole CSV with a header row, inferring kinds from every row.
func Load(src io.Reader, opt ReaderOptions) (*ds.Frame, error) {
	opt.HasHeader = true
	return load(src, opt)
}

// LoadHeaderless reads a whole CSV whose first line is data. Columns are
// named col_0, col_1 and so on.
func LoadHeaderless(src io.Reader, opt ReaderOptions) (*ds.Frame, error) {
	opt.HasHeader = false
	return load(src, opt)
}

func load(src io.Reader, opt ReaderOptions) (*ds.Frame, error) {
	if opt.SampleRows == 0 {
		opt.SampleRows = -1
	}
	r := NewReaderFrom(src, opt)
	schema, _, err := r.InferSchema()
	if err != nil {
		return nil, err
	}
	return r.ReadAll(schema)
}

// Decode builds a frame from a header and string records, as read from a
// spreadsheet. Kinds are inferred from every record.
func Decode(header []string, rows [][]string, opt ReaderOptions) (*ds.Frame, error) {
	if len(header) == 0 {
		return nil, ErrEmpty
	}
	return DecodeSchema(SchemaOf(header, rows, opt), rows, opt)
}

// SchemaOf cleans header names and infers column kinds from rows.
func SchemaOf(header []string, rows [][]string, opt ReaderOptions) ds.Schema {
	names := HeaderNames(header)
	kinds := inferKinds(rows, len(names), nullSet(opt.NullValues))
	schema := ds.Schema{Columns: make([]ds.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = ds.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	return schema
}

// DecodeSchema parses string records against a fixed schema. Cells that do
// not fit their column's kind are left missing unless opt.Strict is set.
func DecodeSchema(schema ds.Schema, rows [][]string, opt ReaderOptions) (*ds.Frame, error) {
	r := &Reader{opt: opt, nulls: nullSet(opt.NullValues)}
	f := ds.NewFrame(schema)
	for _, rec := range rows {
		if err := r.appendRecord(f, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *ds.Frame, rec []string) error {
	schema := f.Schema()
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("%w: long record at row %d: need %d fields, got %d", ErrMalformed, f.Rows()+1, len(schema.Columns), len(rec))
		}
	}
	if len(rec) < len(schema.Columns) {
		r.shortRecords++
		if r.opt.Strict {
			return fmt.Errorf("%w: short record at row %d: need %d fields, got %d", ErrMalformed, f.Rows()+1, len(schema.Columns), len(rec))
		}
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			continue
		}
		v, ok := parseCell(rec[i], cs.Type, r.nulls)
		if !ok {
			r.badCells++
			if r.opt.Strict {
				return fmt.Errorf("%w: row %d column %s: cannot parse %q as %s", ErrMalformed, row+1, cs.Name, rec[i], cs.Type)
			}
			continue
		}
		if v == nil {
			continue
		}
		if err := f.SetCell(row, cs.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	var parts []string
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	if r.badCells > 0 {
		parts = append(parts, fmt.Sprintf("unparsed_cells=%d", r.badCells))
	}
	return strings.Join(parts, ", ")
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// only the first line decides; quoted text below it can hold anything
	line := sample
	if i := strings.IndexByte(string(sample), '\n'); i >= 0 {
		line = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range line {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	// odd counts only mean stray quotes when the whole input was sampled
	lazy := quoteCount%2 != 0 && len(sample) < 4096
	return rune(best), lazy
}
