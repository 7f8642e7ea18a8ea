package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/explore"
	"github.com/wdm0006/tidykit/pkg/io/dataio"
	"github.com/wdm0006/tidykit/pkg/report"
)

type exploreFlags struct {
	in          inputFlags
	filter      string
	rangeColumn string
	min, max    string
	unique      string
	bar, pie    string
	value       string
	agg         string
	hist        string
	bins        int
	scatter     string
	preview     int
	out         string
}

// optionalFloat parses s unless it is empty.
func optionalFloat(name, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return nil, usagef("-%s: %v", name, err)
	}
	return &v, nil
}

// narrow applies the row filters in order: equality, then range.
func (o *exploreFlags) narrow(f *ds.Frame) (*ds.Frame, error) {
	var err error
	if o.filter != "" {
		col, val, ok := strings.Cut(o.filter, "=")
		if !ok {
			return nil, usagef("-filter wants column=value, got %q", o.filter)
		}
		if f, err = explore.Filter(f, col, val); err != nil {
			return nil, err
		}
	}
	if o.rangeColumn != "" {
		lo, err := optionalFloat("min", o.min)
		if err != nil {
			return nil, err
		}
		hi, err := optionalFloat("max", o.max)
		if err != nil {
			return nil, err
		}
		if f, err = explore.FilterRange(f, o.rangeColumn, lo, hi); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func runExplore(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "explore")
	var o exploreFlags
	o.in.register(fs, "in")
	fs.StringVar(&o.filter, "filter", "", "keep rows where column=value")
	fs.StringVar(&o.rangeColumn, "range", "", "keep rows whose numeric column lies within -min and -max")
	fs.StringVar(&o.min, "min", "", "lower bound for -range (inclusive)")
	fs.StringVar(&o.max, "max", "", "upper bound for -range (inclusive)")
	fs.StringVar(&o.unique, "unique", "", "list the distinct values of a column")
	fs.StringVar(&o.bar, "bar", "", "bar chart over this category column")
	fs.StringVar(&o.pie, "pie", "", "pie shares over this category column")
	fs.StringVar(&o.value, "value", "", "numeric value column for -bar and -pie")
	fs.StringVar(&o.agg, "agg", "count", "aggregation for -bar and -pie: count, sum, mean or median")
	fs.StringVar(&o.hist, "hist", "", "histogram of a numeric column")
	fs.IntVar(&o.bins, "bins", 0, "histogram bins (default by Sturges' rule)")
	fs.StringVar(&o.scatter, "scatter", "", "plot two numeric columns given as x,y")
	fs.IntVar(&o.preview, "preview", 10, "print the first n rows of the filtered data (at most 100); 0 disables")
	fs.StringVar(&o.out, "out", "", "save the filtered rows to this file")
	if err := parse(fs, args); err != nil {
		return err
	}
	agg, err := explore.ParseAgg(o.agg)
	if err != nil {
		return usagef("%v", err)
	}
	if agg != explore.AggCount && o.value == "" && (o.bar != "" || o.pie != "") {
		return usagef("-agg %s needs -value", agg)
	}

	f, err := o.in.load()
	if err != nil {
		return err
	}
	if f, err = o.narrow(f); err != nil {
		return err
	}
	if o.preview > 0 {
		report.Preview(e.stdout, f, o.preview)
	}
	if o.out != "" {
		if err := dataio.Save(o.out, f, dataio.Options{}); err != nil {
			return fmt.Errorf("save %s: %w", o.out, err)
		}
	}
	if o.unique != "" {
		vals, err := explore.UniqueValues(f, o.unique)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "%d distinct values in %s\n", len(vals), o.unique)
		for _, v := range vals {
			fmt.Fprintln(e.stdout, v)
		}
	}
	for _, chart := range []struct {
		column string
		draw   func(s explore.Series)
	}{
		{o.bar, func(s explore.Series) { report.Bars(e.stdout, s) }},
		{o.pie, func(s explore.Series) { report.Pie(e.stdout, s) }},
	} {
		if chart.column == "" {
			continue
		}
		s, err := explore.Aggregate(f, chart.column, o.value, agg)
		if err != nil {
			return err
		}
		chart.draw(s)
	}
	if o.hist != "" {
		bins, err := explore.Histogram(f, o.hist, o.bins)
		if err != nil {
			return err
		}
		report.Histogram(e.stdout, o.hist, bins)
	}
	if o.scatter != "" {
		x, y, ok := strings.Cut(o.scatter, ",")
		if !ok {
			return usagef("-scatter wants x,y, got %q", o.scatter)
		}
		pts, err := explore.Scatter(f, x, y)
		if err != nil {
			return err
		}
		report.Line(e.stdout, x, y, pts)
	}
	return nil
}
