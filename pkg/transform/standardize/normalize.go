package standardize

import (
	"context"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// NormalizeColumn returns a normalized copy of col. Text is trimmed, empty
// text becomes missing, non-ASCII characters become spaces and the result
// is lower-cased. Infinite floats become missing. Other kinds are returned
// unchanged. The input is never modified.
func NormalizeColumn(col ds.Column) ds.Column {
	switch c := col.(type) {
	case *ds.StringColumn:
		out := ds.NewStringColumn(c.Name(), c.Len())
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Get(i)
			if !ok {
				out.SetNull(i)
				continue
			}
			v = strings.TrimSpace(v)
			if v == "" {
				out.SetNull(i)
				continue
			}
			out.Set(i, strings.ToLower(StripNonASCII(v)))
		}
		return out
	case *ds.FloatColumn:
		out := ds.NewFloatColumn(c.Name(), c.Len())
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Get(i)
			if !ok || math.IsInf(v, 0) {
				out.SetNull(i)
				continue
			}
			out.Set(i, v)
		}
		return out
	}
	return col
}

// Normalize runs NormalizeColumn over the scoped columns on a bounded
// worker pool. Results are written back in column order.
type Normalize struct {
	Column  string
	Workers int
}

func (t *Normalize) Name() string { return "normalize" }

func (t *Normalize) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	cols, err := f.Select(t.Column)
	if err != nil {
		return f, nil
	}
	out := make([]ds.Column, len(cols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers(len(cols)))
	for i, c := range cols {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = NormalizeColumn(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, c := range out {
		if err := f.ReplaceColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (t *Normalize) workers(n int) int {
	w := t.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}
