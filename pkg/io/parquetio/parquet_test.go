package parquetio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func makeFrame(rows int) *ds.Frame {
	s := ds.Schema{Columns: []ds.ColumnSchema{
		{Name: "a", Type: ds.KindFloat, Nullable: true},
		{Name: "b", Type: ds.KindInt, Nullable: true},
		{Name: "c", Type: ds.KindString, Nullable: true},
	}}
	f := ds.NewFrame(s)
	for i := 0; i < rows; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "a", float64(i%100)+0.5)
		_ = f.SetCell(i, "b", int64(i%10))
		if i%3 != 0 {
			_ = f.SetCell(i, "c", "v")
		}
	}
	return f
}

func TestWriteReadRoundTrip(t *testing.T) {
	in := makeFrame(50)
	_ = in.SetCell(1, "a", math.Inf(1))
	p := filepath.Join(t.TempDir(), "out.parquet")
	if err := WriteAll(p, in); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(raw, []byte("PAR1")) || !bytes.HasSuffix(raw, []byte("PAR1")) {
		t.Fatal("missing parquet magic")
	}
	r, err := OpenReader(p)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	if r.NumRows() != 50 {
		t.Fatalf("rows = %d", r.NumRows())
	}
	out, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 50 || out.Cols() != 3 {
		t.Fatalf("shape %dx%d", out.Rows(), out.Cols())
	}
	want := []ds.Kind{ds.KindFloat, ds.KindInt, ds.KindString}
	for i, cs := range out.Schema().Columns {
		if cs.Type != want[i] {
			t.Fatalf("%s: kind %s", cs.Name, cs.Type)
		}
	}
	if v, _ := out.Value(1, "a"); v != nil {
		t.Fatalf("infinite cell should read back missing, got %v", v)
	}
	if v, _ := out.Value(4, "a"); v != 4.5 {
		t.Fatalf("a[4] = %v", v)
	}
	if v, _ := out.Value(3, "c"); v != nil {
		t.Fatalf("c[3] = %v", v)
	}
}

func BenchmarkParquetWrite(b *testing.B) {
	f := makeFrame(50000)
	path := filepath.Join(b.TempDir(), "bench.parquet")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteAll(path, f); err != nil {
			b.Fatal(err)
		}
	}
}
