package outliers

import (
	"context"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func TestCap(t *testing.T) {
	x := ds.NewFloatColumn("x", 0)
	x.Append(-5)
	x.Append(3)
	x.AppendNull()
	n := ds.NewIntColumn("n", 0)
	n.Append(100)
	n.Append(1)
	n.Append(2)
	f, _ := ds.FromColumns(x, n)
	lo, hi := 0.0, 10.0
	if _, err := (&Cap{Min: &lo, Max: &hi}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if v, _ := x.Get(0); v != 0 {
		t.Fatalf("got %v", v)
	}
	if !x.IsNull(2) {
		t.Fatal("null was filled")
	}
	if v, _ := n.Get(0); v != 10 {
		t.Fatalf("got %v", v)
	}
	if v, _ := n.Get(1); v != 1 {
		t.Fatalf("got %v", v)
	}
}
