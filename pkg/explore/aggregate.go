package explore

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

var ErrUnknownAgg = errors.New("unknown aggregation")

// Agg is the aggregation behind a bar or pie chart.
type Agg int

const (
	AggInvalid Agg = iota
	AggCount
	AggSum
	AggMean
	AggMedian
)

func (a Agg) String() string {
	switch a {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggMedian:
		return "median"
	}
	return "invalid"
}

func ParseAgg(s string) (Agg, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "count":
		return AggCount, nil
	case "sum":
		return AggSum, nil
	case "mean", "avg", "average":
		return AggMean, nil
	case "median":
		return AggMedian, nil
	}
	return AggInvalid, fmt.Errorf("%w: %q", ErrUnknownAgg, s)
}

// Series is a labelled list of values, one per category.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (s Series) Len() int { return len(s.Labels) }

// Aggregate groups rows by the category column. Count ignores value and
// orders categories by descending frequency, ties in order of first
// appearance. Sum, Mean and Median aggregate the numeric value column per
// category with categories in ascending order; groups without a present
// value are left out of Mean and Median. Missing categories are ignored.
func Aggregate(f *ds.Frame, category, value string, agg Agg) (Series, error) {
	cat, ok := f.ColumnByName(category)
	if !ok {
		return Series{}, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, category)
	}
	if agg == AggCount {
		return valueCounts(cat), nil
	}
	if agg < AggCount || agg > AggMedian {
		return Series{}, fmt.Errorf("%w: %d", ErrUnknownAgg, agg)
	}
	val, ok := f.ColumnByName(value)
	if !ok {
		return Series{}, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, value)
	}
	if !val.Kind().Numeric() {
		return Series{}, fmt.Errorf("%w: %s", ds.ErrNotNumeric, value)
	}

	groups := map[string][]float64{}
	var order []string
	keyRow := map[string]int{}
	for i := 0; i < cat.Len(); i++ {
		if cat.IsNull(i) {
			continue
		}
		k := ds.Format(cat, i)
		if _, seen := groups[k]; !seen {
			groups[k] = nil
			keyRow[k] = i
			order = append(order, k)
		}
		if v, ok := ds.Float(val, i); ok {
			groups[k] = append(groups[k], v)
		}
	}
	sortCategories(order, cat, keyRow)

	var s Series
	for _, k := range order {
		vals := groups[k]
		var v float64
		switch agg {
		case AggSum:
			v = floats.Sum(vals)
		case AggMean:
			if len(vals) == 0 {
				continue
			}
			v = stat.Mean(vals, nil)
		case AggMedian:
			if len(vals) == 0 {
				continue
			}
			v = ds.Median(vals)
		}
		s.Labels = append(s.Labels, k)
		s.Values = append(s.Values, v)
	}
	return s, nil
}

func valueCounts(c ds.Column) Series {
	counts := map[string]int{}
	var order []string
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		k := ds.Format(c, i)
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	sort.SliceStable(order, func(a, b int) bool { return counts[order[a]] > counts[order[b]] })
	s := Series{Labels: order, Values: make([]float64, len(order))}
	for i, k := range order {
		s.Values[i] = float64(counts[k])
	}
	return s
}

// sortCategories orders numeric and time categories by value, the rest
// lexically.
func sortCategories(keys []string, cat ds.Column, keyRow map[string]int) {
	switch cat.Kind() {
	case ds.KindInt, ds.KindFloat:
		sort.Slice(keys, func(a, b int) bool {
			x, _ := ds.Float(cat, keyRow[keys[a]])
			y, _ := ds.Float(cat, keyRow[keys[b]])
			return x < y
		})
	case ds.KindTime:
		tc := cat.(*ds.TimeColumn)
		sort.Slice(keys, func(a, b int) bool {
			x, _ := tc.Get(keyRow[keys[a]])
			y, _ := tc.Get(keyRow[keys[b]])
			return x.Before(y)
		})
	case ds.KindBool:
		// false before true
		sort.Slice(keys, func(a, b int) bool { return keys[a] == "false" && keys[b] == "true" })
	default:
		sort.Strings(keys)
	}
}

// Shares converts a series into percentages of its total. An empty or
// zero-sum series yields zeros.
func Shares(s Series) []float64 {
	out := make([]float64, len(s.Values))
	total := floats.Sum(s.Values)
	if total == 0 || math.IsNaN(total) {
		return out
	}
	for i, v := range s.Values {
		out[i] = v / total * 100
	}
	return out
}
