package csvio

import (
	"errors"
	"math"
	"strings"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

const sample = "id,price,name,active,seen\n" +
	"1,2.5,  Alice ,true,2024-01-02\n" +
	"2,,Bob,false,2024-01-03\n" +
	"3,4,NA,TRUE,\n"

func TestLoadInfersKinds(t *testing.T) {
	f, err := Load(strings.NewReader(sample), ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []ds.Kind{ds.KindInt, ds.KindFloat, ds.KindString, ds.KindBool, ds.KindTime}
	for i, cs := range f.Schema().Columns {
		if cs.Type != want[i] {
			t.Fatalf("column %s: got %s want %s", cs.Name, cs.Type, want[i])
		}
	}
	if f.Rows() != 3 {
		t.Fatalf("rows = %d", f.Rows())
	}
	name, _ := f.Value(0, "name")
	if name != "  Alice " {
		t.Fatalf("string cells keep whitespace, got %q", name)
	}
	if v, _ := f.Value(2, "name"); v != nil {
		t.Fatalf("NA should be missing, got %v", v)
	}
	if v, _ := f.Value(1, "price"); v != nil {
		t.Fatalf("empty price should be missing, got %v", v)
	}
	if v, _ := f.Value(2, "seen"); v != nil {
		t.Fatalf("empty date should be missing, got %v", v)
	}
}

func TestRaggedRowsPadded(t *testing.T) {
	in := "a,b,c\n1,2\n3,4,5,6\n"
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 2 || f.Cols() != 3 {
		t.Fatalf("shape %dx%d", f.Rows(), f.Cols())
	}
	if v, _ := f.Value(0, "c"); v != nil {
		t.Fatalf("short row should pad with missing, got %v", v)
	}
	if w := r.Warnings(); w != "short_records=1, long_records=1" {
		t.Fatalf("warnings = %q", w)
	}
}

func TestStrictRejectsRagged(t *testing.T) {
	_, err := Load(strings.NewReader("a,b\n1\n"), ReaderOptions{Strict: true})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestMalformedQuotes(t *testing.T) {
	in := "a,b\n\"x\"y,2\n" + strings.Repeat("1,2\n", 2000)
	_, err := Load(strings.NewReader(in), ReaderOptions{})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := Load(strings.NewReader(""), ReaderOptions{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestHeaderNames(t *testing.T) {
	got := HeaderNames([]string{"\ufeffid", "", "x", "x", "x.1"})
	want := []string{"id", "Unnamed: 1", "x", "x.1", "x.1.1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestSniffDelimiter(t *testing.T) {
	f, err := Load(strings.NewReader("a;b\n1;x\n"), ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if f.Cols() != 2 {
		t.Fatalf("cols = %d", f.Cols())
	}
}

func TestSampledInferenceLeavesBadCellsMissing(t *testing.T) {
	in := "n\n1\n2\nthree\n"
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true, SampleRows: 2})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	if schema.Columns[0].Type != ds.KindInt {
		t.Fatalf("kind = %s", schema.Columns[0].Type)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Value(2, "n"); v != nil {
		t.Fatalf("got %v", v)
	}
	if r.Warnings() != "unparsed_cells=1" {
		t.Fatalf("warnings = %q", r.Warnings())
	}
}

func TestInferKinds(t *testing.T) {
	rows := [][]string{
		{"1", "1.5", "inf", "yes", ""},
		{"-2", "3", "2", "no", "NA"},
	}
	got := InferKinds(rows, 5, nil)
	want := []ds.Kind{ds.KindInt, ds.KindFloat, ds.KindFloat, ds.KindString, ds.KindString}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestTypedNullTokens(t *testing.T) {
	f, err := Load(strings.NewReader("score,name\nnan,nan\n1.5,Bob\nnull,null\n"), ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	score, _ := f.ColumnByName("score")
	if score.Kind() != ds.KindFloat || !score.IsNull(0) || !score.IsNull(2) {
		t.Fatalf("score kind %s, nulls %v %v", score.Kind(), score.IsNull(0), score.IsNull(2))
	}
	if v, _ := f.Value(0, "name"); v != "nan" {
		t.Fatalf("text token should stay text, got %v", v)
	}
	if v, _ := f.Value(2, "name"); v != "null" {
		t.Fatalf("text token should stay text, got %v", v)
	}

	f, err = Load(strings.NewReader("name\nnan\nBob\n"), ReaderOptions{NullValues: []string{"", "nan"}})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Value(0, "name"); v != nil {
		t.Fatalf("explicit null token should be missing, got %v", v)
	}
}

func TestOutOfRangeFloats(t *testing.T) {
	r := NewReaderFrom(strings.NewReader("x\n0.0\n-0.0\n1e400\n-1e400\n"), ReaderOptions{HasHeader: true})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if n := f.NullCount(); n != 0 {
		t.Fatalf("NullCount = %d, want 0", n)
	}
	if v, _ := f.Value(2, "x"); v != math.Inf(1) {
		t.Fatalf("1e400 = %v", v)
	}
	if v, _ := f.Value(3, "x"); v != math.Inf(-1) {
		t.Fatalf("-1e400 = %v", v)
	}
	if r.Warnings() != "" {
		t.Fatalf("warnings = %q", r.Warnings())
	}
}
