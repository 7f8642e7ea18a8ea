package impute

import (
	"context"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func makeFloatFrame() *ds.Frame {
	s := ds.Schema{Columns: []ds.ColumnSchema{{Name: "x", Type: ds.KindFloat, Nullable: true}}}
	f := ds.NewFrame(s)
	for i := 0; i < 5; i++ {
		f.AppendNullRow()
	}
	col, _ := f.ColumnByName("x")
	c := col.(*ds.FloatColumn)
	c.Set(0, 1.0)
	c.Set(2, 4.0)
	// rows 1,3,4 remain null
	return f
}

func floatAt(t *testing.T, f *ds.Frame, name string, row int) float64 {
	t.Helper()
	col, _ := f.ColumnByName(name)
	v, ok := col.(*ds.FloatColumn).Get(row)
	if !ok {
		t.Fatalf("row %d of %s is null", row, name)
	}
	return v
}

func TestConstant(t *testing.T) {
	f := makeFloatFrame()
	out, err := (&Constant{Column: "x", Value: 2.5}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if got := floatAt(t, out, "x", 3); got != 2.5 {
		t.Fatalf("got %v", got)
	}
}

func TestConstantCoercionError(t *testing.T) {
	f := makeFloatFrame()
	if _, err := (&Constant{Column: "x", Value: "abc"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected coercion error")
	}
}

func TestMean(t *testing.T) {
	f := makeFloatFrame()
	out, err := (&Mean{Column: "x"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []int{1, 3, 4} {
		if got := floatAt(t, out, "x", r); got != 2.5 {
			t.Fatalf("row %d: got %v want 2.5", r, got)
		}
	}
}

func TestMedian(t *testing.T) {
	f := makeFloatFrame()
	col, _ := f.ColumnByName("x")
	col.(*ds.FloatColumn).Set(4, 10.0)
	out, err := (&Median{Column: "x"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if got := floatAt(t, out, "x", 1); got != 4.0 {
		t.Fatalf("got %v want 4", got)
	}
}

func TestIntMeanRounds(t *testing.T) {
	c := ds.NewIntColumn("n", 0)
	c.Append(1)
	c.Append(2)
	c.AppendNull()
	f, _ := ds.FromColumns(c)
	if _, err := (&Mean{}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get(2); !ok || v != 2 {
		t.Fatalf("got %v %v want 2", v, ok)
	}
}

func TestModeTieBreak(t *testing.T) {
	c := ds.NewStringColumn("s", 0)
	for _, v := range []string{"b", "a", "b", "a"} {
		c.Append(v)
	}
	c.AppendNull()
	f, _ := ds.FromColumns(c)
	if _, err := (&Mode{Column: "s"}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Get(4); v != "a" {
		t.Fatalf("got %q want a", v)
	}
}

func TestModeAllMissing(t *testing.T) {
	c := ds.NewStringColumn("s", 0)
	c.AppendNull()
	c.AppendNull()
	f, _ := ds.FromColumns(c)
	if _, err := (&Mode{Column: "s"}).Apply(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if !c.IsNull(0) || !c.IsNull(1) {
		t.Fatal("all-missing column should stay missing")
	}
}

func TestDropRows(t *testing.T) {
	f := makeFloatFrame()
	out, err := (&DropRows{}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 2 {
		t.Fatalf("got %d rows want 2", out.Rows())
	}
	if f.Rows() != 5 {
		t.Fatal("input frame changed")
	}
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"mean":             StrategyMean,
		"Fill with Median": StrategyMedian,
		" mode ":           StrategyMode,
		"Drop Rows":        StrategyDrop,
		"auto":             StrategyAuto,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %v %v", in, got, err)
		}
	}
	if _, err := ParseStrategy("interpolate"); err == nil {
		t.Fatal("expected error")
	}
}
