// Package standardize holds text and numeric clean-up transforms. Every
// transform takes a Column; an empty Column means every eligible column and
// an unknown name is a no-op.
package standardize

import (
	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func stringColumns(f *ds.Frame, name string) []*ds.StringColumn {
	cols, err := f.Select(name)
	if err != nil {
		return nil
	}
	var out []*ds.StringColumn
	for _, c := range cols {
		if sc, ok := c.(*ds.StringColumn); ok {
			out = append(out, sc)
		}
	}
	return out
}

func floatColumns(f *ds.Frame, name string) []*ds.FloatColumn {
	cols, err := f.Select(name)
	if err != nil {
		return nil
	}
	var out []*ds.FloatColumn
	for _, c := range cols {
		if fc, ok := c.(*ds.FloatColumn); ok {
			out = append(out, fc)
		}
	}
	return out
}

// mapStrings rewrites every present value of c with fn.
func mapStrings(c *ds.StringColumn, fn func(string) string) {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v, _ := c.Get(i)
		c.Set(i, fn(v))
	}
}
