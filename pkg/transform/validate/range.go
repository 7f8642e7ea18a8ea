// Package validate holds checks that fail a pipeline instead of changing
// data.
package validate

import (
	"context"
	"errors"
	"fmt"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

var ErrOutOfRange = errors.New("values out of range")

// Range fails when a present value of a numeric column lies outside
// [Min, Max]. A nil bound is open. An empty Column checks every numeric
// column; text columns are ignored.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	cols, err := f.Select(t.Column)
	if err != nil {
		return f, nil
	}
	for _, c := range cols {
		if !c.Kind().Numeric() {
			continue
		}
		bad, first := 0, -1
		for i := 0; i < c.Len(); i++ {
			v, ok := ds.Float(c, i)
			if !ok || !t.outside(v) {
				continue
			}
			if first < 0 {
				first = i
			}
			bad++
		}
		if bad > 0 {
			return f, fmt.Errorf("%w: column %s has %d, first at row %d", ErrOutOfRange, c.Name(), bad, first)
		}
	}
	return f, nil
}

func (t *Range) outside(v float64) bool {
	return (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max)
}
