// Package profile summarizes a frame: per-column statistics, missing
// values, non-ASCII text and duplicate counts.
package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/transform/dedupe"
	std "github.com/wdm0006/tidykit/pkg/transform/standardize"
)

// NumStats describes the finite present values of a numeric column.
// Std is the sample standard deviation, 0 with fewer than two values.
type NumStats struct {
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	Min       float64 `json:"min"`
	Q25       float64 `json:"q25"`
	Q50       float64 `json:"q50"`
	Q75       float64 `json:"q75"`
	Max       float64 `json:"max"`
	NonFinite int     `json:"non_finite,omitempty"`
}

// CatStats describes a text, bool or time column.
type CatStats struct {
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

type ColumnProfile struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Count   int       `json:"count"`
	Missing int       `json:"missing"`
	Num     *NumStats `json:"num,omitempty"`
	Cat     *CatStats `json:"cat,omitempty"`
}

// Describe profiles every column in order.
func Describe(f *ds.Frame) []ColumnProfile {
	out := make([]ColumnProfile, 0, f.Cols())
	for _, c := range f.Columns() {
		missing := ds.NullCount(c)
		cp := ColumnProfile{Name: c.Name(), Kind: c.Kind().String(), Count: c.Len() - missing, Missing: missing}
		if c.Kind().Numeric() {
			cp.Num = numStats(c)
		} else if cp.Count > 0 {
			cp.Cat = catStats(c)
		}
		out = append(out, cp)
	}
	return out
}

func numStats(c ds.Column) *NumStats {
	vals := make([]float64, 0, c.Len())
	s := &NumStats{}
	for i := 0; i < c.Len(); i++ {
		v, ok := ds.Float(c, i)
		if !ok {
			continue
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			s.NonFinite++
			continue
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return s
	}
	sort.Float64s(vals)
	if len(vals) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	} else {
		s.Mean = vals[0]
	}
	s.Min, s.Max = floats.Min(vals), floats.Max(vals)
	s.Q25 = Quantile(vals, 0.25)
	s.Q50 = Quantile(vals, 0.50)
	s.Q75 = Quantile(vals, 0.75)
	return s
}

// Quantile interpolates linearly between the closest ranks of sorted.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func catStats(c ds.Column) *CatStats {
	counts := map[string]int{}
	s := &CatStats{}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v := ds.Format(c, i)
		counts[v]++
		if counts[v] > s.Freq {
			s.Top, s.Freq = v, counts[v]
		}
	}
	s.Unique = len(counts)
	return s
}

// MissingColumn is a column holding at least one missing value.
type MissingColumn struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Missing int    `json:"missing"`
}

func Missing(f *ds.Frame) []MissingColumn {
	var out []MissingColumn
	for _, c := range f.Columns() {
		if n := ds.NullCount(c); n > 0 {
			out = append(out, MissingColumn{Name: c.Name(), Kind: c.Kind().String(), Missing: n})
		}
	}
	return out
}

// Report is the full data-quality summary of a frame.
type Report struct {
	Rows          int                  `json:"rows"`
	Cols          int                  `json:"cols"`
	Columns       []ColumnProfile      `json:"columns"`
	Missing       []MissingColumn      `json:"missing"`
	NonASCII      []std.NonASCIIRows   `json:"non_ascii"`
	Duplicates    []dedupe.ColumnCount `json:"duplicates"`
	DuplicateRows int                  `json:"duplicate_rows"`
}

func Build(f *ds.Frame) Report {
	dupRows, _ := dedupe.Count(f, "")
	return Report{
		Rows:          f.Rows(),
		Cols:          f.Cols(),
		Columns:       Describe(f),
		Missing:       Missing(f),
		NonASCII:      std.FindNonASCII(f),
		Duplicates:    dedupe.ColumnSummary(f),
		DuplicateRows: dupRows,
	}
}
