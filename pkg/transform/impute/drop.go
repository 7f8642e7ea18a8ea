package impute

import (
	"context"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// DropRows removes every row with a missing value in the scoped columns.
// It returns a new frame when rows are removed.
type DropRows struct{ Column string }

func (t *DropRows) Name() string { return "drop_missing" }

func (t *DropRows) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	cols := gapColumns(f, t.Column)
	if len(cols) == 0 {
		return f, nil
	}
	keep := make([]int, 0, f.Rows())
	for r := 0; r < f.Rows(); r++ {
		missing := false
		for _, c := range cols {
			if c.IsNull(r) {
				missing = true
				break
			}
		}
		if !missing {
			keep = append(keep, r)
		}
	}
	return f.Take(keep), nil
}
