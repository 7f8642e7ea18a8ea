// Package outliers clamps numeric values into a range.
package outliers

import (
	"context"
	"math"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// Cap clamps present values of numeric columns into [Min, Max]. A nil bound
// is open. An empty Column caps every numeric column.
type Cap struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Cap) Name() string { return "cap_range" }

func (t *Cap) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	cols, err := f.Select(t.Column)
	if err != nil {
		return f, nil
	}
	for _, col := range cols {
		switch c := col.(type) {
		case *ds.FloatColumn:
			for i := 0; i < c.Len(); i++ {
				if v, ok := c.Get(i); ok {
					c.Set(i, t.clamp(v))
				}
			}
		case *ds.IntColumn:
			for i := 0; i < c.Len(); i++ {
				if v, ok := c.Get(i); ok {
					if cv := t.clamp(float64(v)); cv != float64(v) {
						c.Set(i, int64(math.Round(cv)))
					}
				}
			}
		}
	}
	return f, nil
}

func (t *Cap) clamp(v float64) float64 {
	if t.Min != nil && v < *t.Min {
		v = *t.Min
	}
	if t.Max != nil && v > *t.Max {
		v = *t.Max
	}
	return v
}
