package explore

import (
	"errors"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// city: b a b c b a ; sales: 1 2 3 null 5 6
func salesFrame() *ds.Frame {
	city := ds.NewStringColumn("city", 0)
	sales := ds.NewFloatColumn("sales", 0)
	for _, c := range []string{"b", "a", "b", "c", "b", "a"} {
		city.Append(c)
	}
	for i, v := range []float64{1, 2, 3, 0, 5, 6} {
		if i == 3 {
			sales.AppendNull()
			continue
		}
		sales.Append(v)
	}
	f, _ := ds.FromColumns(city, sales)
	return f
}

func TestFilterAndUnique(t *testing.T) {
	f := salesFrame()
	out, err := Filter(f, "city", "a")
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 2 {
		t.Fatalf("got %d rows", out.Rows())
	}
	if v, _ := out.Value(1, "sales"); v != 6.0 {
		t.Fatalf("got %v", v)
	}
	out, err = Filter(f, "sales", "5.0")
	if err != nil || out.Rows() != 1 {
		t.Fatalf("numeric filter: %v %d", err, out.Rows())
	}
	u, err := UniqueValues(f, "city")
	if err != nil {
		t.Fatal(err)
	}
	if len(u) != 3 || u[0] != "b" || u[1] != "a" || u[2] != "c" {
		t.Fatalf("got %v", u)
	}
	if _, err := Filter(f, "nope", "x"); !errors.Is(err, ds.ErrUnknownColumn) {
		t.Fatalf("got %v", err)
	}
}

func TestFilterRange(t *testing.T) {
	f := salesFrame()
	lo := 2.0
	out, err := FilterRange(f, "sales", &lo, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 4 {
		t.Fatalf("got %d rows", out.Rows())
	}
	if _, err := FilterRange(f, "city", &lo, nil); !errors.Is(err, ds.ErrNotNumeric) {
		t.Fatalf("got %v", err)
	}
}

func TestAggregate(t *testing.T) {
	f := salesFrame()

	s, err := Aggregate(f, "city", "", AggCount)
	if err != nil {
		t.Fatal(err)
	}
	if s.Labels[0] != "b" || s.Values[0] != 3 || s.Labels[1] != "a" || s.Labels[2] != "c" {
		t.Fatalf("count: %+v", s)
	}

	s, err = Aggregate(f, "city", "sales", AggSum)
	if err != nil {
		t.Fatal(err)
	}
	want := Series{Labels: []string{"a", "b", "c"}, Values: []float64{8, 9, 0}}
	for i := range want.Labels {
		if s.Labels[i] != want.Labels[i] || s.Values[i] != want.Values[i] {
			t.Fatalf("sum: got %+v", s)
		}
	}

	s, err = Aggregate(f, "city", "sales", AggMean)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.Values[0] != 4 || s.Values[1] != 3 {
		t.Fatalf("mean: got %+v", s)
	}

	s, err = Aggregate(f, "city", "sales", AggMedian)
	if err != nil {
		t.Fatal(err)
	}
	if s.Values[1] != 3 {
		t.Fatalf("median: got %+v", s)
	}

	if _, err := Aggregate(f, "sales", "city", AggSum); !errors.Is(err, ds.ErrNotNumeric) {
		t.Fatalf("got %v", err)
	}
}

func TestNumericCategoriesSortByValue(t *testing.T) {
	k := ds.NewIntColumn("k", 0)
	v := ds.NewIntColumn("v", 0)
	for _, x := range []int64{10, 9, 100} {
		k.Append(x)
		v.Append(1)
	}
	f, _ := ds.FromColumns(k, v)
	s, err := Aggregate(f, "k", "v", AggSum)
	if err != nil {
		t.Fatal(err)
	}
	if s.Labels[0] != "9" || s.Labels[1] != "10" || s.Labels[2] != "100" {
		t.Fatalf("got %v", s.Labels)
	}
}

func TestShares(t *testing.T) {
	got := Shares(Series{Labels: []string{"a", "b"}, Values: []float64{1, 3}})
	if got[0] != 25 || got[1] != 75 {
		t.Fatalf("got %v", got)
	}
	if z := Shares(Series{Values: []float64{0}}); z[0] != 0 {
		t.Fatalf("got %v", z)
	}
}

func TestScatterAndHistogram(t *testing.T) {
	f := salesFrame()
	idx := ds.NewIntColumn("idx", 0)
	for i := 0; i < f.Rows(); i++ {
		idx.Append(int64(i))
	}
	if err := f.AddColumn(idx); err != nil {
		t.Fatal(err)
	}
	pts, err := Scatter(f, "idx", "sales")
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 5 || pts[3] != (Point{X: 4, Y: 5}) {
		t.Fatalf("got %v", pts)
	}

	bins, err := Histogram(f, "sales", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(bins) != 5 {
		t.Fatalf("got %d bins", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 5 {
		t.Fatalf("binned %d values", total)
	}
	if bins[4].Count != 2 || bins[4].Hi != 6 {
		t.Fatalf("top bin %+v", bins[4])
	}
}
