// Package explore backs the data explorer: row filters, distinct values and
// the aggregations behind bar, pie, scatter and histogram charts.
package explore

import (
	"fmt"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// Filter keeps the rows whose cell in column renders exactly as value.
// Missing cells never match.
func Filter(f *ds.Frame, column, value string) (*ds.Frame, error) {
	c, ok := f.ColumnByName(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, column)
	}
	var rows []int
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) && ds.Format(c, i) == value {
			rows = append(rows, i)
		}
	}
	return f.Take(rows), nil
}

// UniqueValues lists the distinct present values of column in order of
// first appearance.
func UniqueValues(f *ds.Frame, column string) ([]string, error) {
	c, ok := f.ColumnByName(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, column)
	}
	seen := map[string]struct{}{}
	var out []string
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := ds.Format(c, i)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// FilterRange keeps rows whose numeric value lies in [lo, hi]. A nil
// bound is open. Missing cells are dropped.
func FilterRange(f *ds.Frame, column string, lo, hi *float64) (*ds.Frame, error) {
	c, ok := f.ColumnByName(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, column)
	}
	if !c.Kind().Numeric() {
		return nil, fmt.Errorf("%w: %s", ds.ErrNotNumeric, column)
	}
	var rows []int
	for i := 0; i < c.Len(); i++ {
		v, ok := ds.Float(c, i)
		if !ok {
			continue
		}
		if lo != nil && v < *lo {
			continue
		}
		if hi != nil && v > *hi {
			continue
		}
		rows = append(rows, i)
	}
	return f.Take(rows), nil
}
