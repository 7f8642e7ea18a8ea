package impute

import (
	"cmp"
	"context"
	"time"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// Mode fills any column with its most frequent present value. Ties go to
// the smallest value. A column with no present values is left alone.
type Mode struct{ Column string }

func (t *Mode) Name() string { return "impute_mode" }

func (t *Mode) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, col := range gapColumns(f, t.Column) {
		fillMode(col)
	}
	return f, nil
}

func fillMode(col ds.Column) {
	switch c := col.(type) {
	case *ds.StringColumn:
		fillWith(c, c.Get, c.Set, cmp.Less[string])
	case *ds.IntColumn:
		fillWith(c, c.Get, c.Set, cmp.Less[int64])
	case *ds.FloatColumn:
		fillWith(c, c.Get, c.Set, cmp.Less[float64])
	case *ds.BoolColumn:
		fillWith(c, c.Get, c.Set, func(a, b bool) bool { return !a && b })
	case *ds.TimeColumn:
		// keyed by instant so equal times in different zones count together
		counts := map[int64]int{}
		firstSeen := map[int64]time.Time{}
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				k := v.UnixNano()
				counts[k]++
				if _, seen := firstSeen[k]; !seen {
					firstSeen[k] = v
				}
			}
		}
		best, ok := pickMode(counts, cmp.Less[int64])
		if !ok {
			return
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, firstSeen[best])
			}
		}
	}
}

func fillWith[T comparable](c ds.Column, get func(int) (T, bool), set func(int, T), less func(a, b T) bool) {
	counts := map[T]int{}
	for i := 0; i < c.Len(); i++ {
		if v, ok := get(i); ok {
			counts[v]++
		}
	}
	best, ok := pickMode(counts, less)
	if !ok {
		return
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			set(i, best)
		}
	}
}

// pickMode returns the highest-count key, the smallest such key on ties.
func pickMode[T comparable](counts map[T]int, less func(a, b T) bool) (T, bool) {
	var best T
	bestc := 0
	for v, n := range counts {
		if n > bestc || (n == bestc && less(v, best)) {
			best, bestc = v, n
		}
	}
	return best, bestc > 0
}
