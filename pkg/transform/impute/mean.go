// Package impute fills or drops missing values. Statistics are taken over
// the non-missing cells of each column at the time Apply runs.
package impute

import (
	"context"
	"math"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// Mean fills numeric columns with the mean of their present values. Int
// columns receive the rounded mean. Non-numeric columns are skipped.
type Mean struct{ Column string }

func (t *Mean) Name() string { return "impute_mean" }

func (t *Mean) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, col := range gapColumns(f, t.Column) {
		fillMean(col)
	}
	return f, nil
}

func fillMean(col ds.Column) {
	switch c := col.(type) {
	case *ds.FloatColumn:
		var sum float64
		var n int
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return
		}
		mean := sum / float64(n)
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, mean)
			}
		}
	case *ds.IntColumn:
		var sum float64
		var n int
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				sum += float64(v)
				n++
			}
		}
		if n == 0 {
			return
		}
		mean := int64(math.Round(sum / float64(n)))
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, mean)
			}
		}
	}
}

// Median fills numeric columns with the median of their present values.
type Median struct{ Column string }

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, col := range gapColumns(f, t.Column) {
		fillMedian(col)
	}
	return f, nil
}

func fillMedian(col ds.Column) {
	switch c := col.(type) {
	case *ds.FloatColumn:
		vals := make([]float64, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			return
		}
		med := ds.Median(vals)
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, med)
			}
		}
	case *ds.IntColumn:
		vals := make([]float64, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				vals = append(vals, float64(v))
			}
		}
		if len(vals) == 0 {
			return
		}
		med := int64(math.Round(ds.Median(vals)))
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, med)
			}
		}
	}
}

// gapColumns resolves the scope: the named column, or every column with at
// least one missing value. Unknown names resolve to nothing.
func gapColumns(f *ds.Frame, name string) []ds.Column {
	cols, err := f.Select(name)
	if err != nil {
		return nil
	}
	out := cols[:0]
	for _, c := range cols {
		if ds.NullCount(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}
