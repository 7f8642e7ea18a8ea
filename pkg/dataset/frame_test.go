package dataset

import (
	"errors"
	"math"
	"testing"
	"time"
)

func sample() *Frame {
	f := NewFrame(Schema{Columns: []ColumnSchema{
		{Name: "x", Type: KindFloat, Nullable: true},
		{Name: "s", Type: KindString, Nullable: true},
	}})
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
	}
	_ = f.SetCell(0, "x", 1.5)
	_ = f.SetCell(0, "s", "a")
	_ = f.SetCell(2, "x", 3)
	return f
}

func TestFrameBasics(t *testing.T) {
	f := sample()
	if f.Rows() != 3 || f.Cols() != 2 {
		t.Fatalf("shape %dx%d", f.Rows(), f.Cols())
	}
	if n := f.NullCount(); n != 3 {
		t.Fatalf("NullCount = %d, want 3", n)
	}
	v, err := f.Value(2, "x")
	if err != nil || v != 3.0 {
		t.Fatalf("Value = %v %v", v, err)
	}
	if v, _ := f.Value(1, "s"); v != nil {
		t.Fatalf("missing cell should be nil, got %v", v)
	}
	if _, err := f.Value(0, "nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	if _, err := f.Value(5, "x"); !errors.Is(err, ErrRowOutOfRange) {
		t.Fatalf("expected ErrRowOutOfRange, got %v", err)
	}
	if err := f.SetCell(0, "s", 7); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

func TestTakeHeadClone(t *testing.T) {
	f := sample()
	tk := f.Take([]int{2, 0})
	if v, _ := tk.Value(0, "x"); v != 3.0 {
		t.Fatalf("Take order: %v", v)
	}
	if h := f.Head(10); h.Rows() != 3 {
		t.Fatalf("Head clamps to Rows, got %d", h.Rows())
	}
	if h := f.Head(-1); h.Rows() != 0 || h.Cols() != 2 {
		t.Fatalf("Head(-1) = %dx%d", h.Rows(), h.Cols())
	}
	c := f.Clone()
	_ = c.SetCell(0, "s", "changed")
	if v, _ := f.Value(0, "s"); v != "a" {
		t.Fatal("Clone shares cells")
	}
}

func TestAddAndReplaceColumn(t *testing.T) {
	f := sample()
	if err := f.AddColumn(NewIntColumn("x", 3)); !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}
	if err := f.AddColumn(NewIntColumn("n", 2)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if err := f.AddColumn(NewBoolColumn("b", 3)); err != nil {
		t.Fatal(err)
	}
	if err := f.ReplaceColumn(NewStringColumn("x", 3)); err != nil {
		t.Fatal(err)
	}
	if k := f.Schema().Columns[0].Type; k != KindString {
		t.Fatalf("schema kind not updated: %v", k)
	}
	if err := f.ReplaceColumn(NewStringColumn("zz", 3)); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	names := f.Names()
	if len(names) != 3 || names[2] != "b" {
		t.Fatalf("names %v", names)
	}
}

func TestSelect(t *testing.T) {
	f := sample()
	all, err := f.Select("")
	if err != nil || len(all) != 2 {
		t.Fatalf("Select all: %d %v", len(all), err)
	}
	if _, err := f.Select("y"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		3:            "3.0",
		-0.5:         "-0.5",
		1e20:         "1e+20",
		math.Inf(-1): "-Inf",
		0:            "0.0",
	}
	for v, want := range cases {
		if got := FormatFloat(v); got != want {
			t.Fatalf("FormatFloat(%v) = %q, want %q", v, got, want)
		}
	}
	if got := FormatTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)); got != "2024-03-01" {
		t.Fatalf("date: %q", got)
	}
	if got := FormatTime(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)); got != "2024-03-01T09:30:00Z" {
		t.Fatalf("datetime: %q", got)
	}
	f := sample()
	x, _ := f.ColumnByName("x")
	if Format(x, 1) != "" || Format(x, 0) != "1.5" {
		t.Fatalf("Format: %q %q", Format(x, 1), Format(x, 0))
	}
}

func TestKinds(t *testing.T) {
	if !KindInt.Numeric() || KindString.Numeric() {
		t.Fatal("Numeric")
	}
	if _, err := NewColumn("bad", KindInvalid); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	ic := NewIntColumn("i", 0)
	ic.Append(4)
	ic.AppendNull()
	if v, ok := Float(ic, 0); !ok || v != 4 {
		t.Fatalf("Float int: %v %v", v, ok)
	}
	if _, ok := Float(ic, 1); ok {
		t.Fatal("Float of missing cell")
	}
	if _, ok := Float(NewStringColumn("s", 1), 0); ok {
		t.Fatal("Float of text column")
	}
}

func TestMedian(t *testing.T) {
	vals := []float64{4, 1, 3, 2}
	if m := Median(vals); m != 2.5 {
		t.Fatalf("even median = %v", m)
	}
	if vals[0] != 4 {
		t.Fatal("Median sorted its input")
	}
	if m := Median([]float64{5, -1, 2}); m != 2 {
		t.Fatalf("odd median = %v", m)
	}
	if !math.IsNaN(Median(nil)) {
		t.Fatal("want NaN")
	}
}
