package explore

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scatter pairs the numeric columns x and y over rows where both are
// present.
func Scatter(f *ds.Frame, x, y string) ([]Point, error) {
	xc, err := numericColumn(f, x)
	if err != nil {
		return nil, err
	}
	yc, err := numericColumn(f, y)
	if err != nil {
		return nil, err
	}
	var pts []Point
	for i := 0; i < f.Rows(); i++ {
		xv, ok1 := ds.Float(xc, i)
		yv, ok2 := ds.Float(yc, i)
		if ok1 && ok2 {
			pts = append(pts, Point{X: xv, Y: yv})
		}
	}
	return pts, nil
}

// Bin counts values in [Lo, Hi); the last bin also holds Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram bins the present, finite values of a numeric column. bins <= 0
// picks Sturges' rule.
func Histogram(f *ds.Frame, column string, bins int) ([]Bin, error) {
	c, err := numericColumn(f, column)
	if err != nil {
		return nil, err
	}
	var vals []float64
	for i := 0; i < c.Len(); i++ {
		if v, ok := ds.Float(c, i); ok && !math.IsInf(v, 0) && !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, nil
	}
	sort.Float64s(vals)
	lo, hi := vals[0], vals[len(vals)-1]
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}, nil
	}
	if bins <= 0 {
		bins = int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	edges := append([]float64(nil), dividers...)
	// the top divider must exceed the largest value
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, vals, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return out, nil
}

func numericColumn(f *ds.Frame, name string) (ds.Column, error) {
	c, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, name)
	}
	if !c.Kind().Numeric() {
		return nil, fmt.Errorf("%w: %s", ds.ErrNotNumeric, name)
	}
	return c, nil
}
