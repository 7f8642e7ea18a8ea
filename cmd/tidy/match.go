package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wdm0006/tidykit/pkg/io/dataio"
	"github.com/wdm0006/tidykit/pkg/report"
	"github.com/wdm0006/tidykit/pkg/transform/lookup"
)

func runMatch(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "match")
	var in, ref inputFlags
	in.register(fs, "in")
	fs.StringVar(&ref.path, "ref", "", "reference file")
	column := fs.String("column", "", "column to check")
	refColumn := fs.String("ref-column", "", "reference column (default -column)")
	output := fs.String("output", lookup.DefaultOutput, "name of the added column")
	out := fs.String("out", "", "save the result to this file")
	preview := fs.Int("preview", 10, "print the first n rows of the result (at most 100); 0 disables")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *column == "" || ref.path == "" {
		return usagef("match: -column and -ref are required")
	}
	if *refColumn == "" {
		*refColumn = *column
	}
	f, err := in.load()
	if err != nil {
		return err
	}
	if _, ok := f.ColumnByName(*column); !ok {
		return fmt.Errorf("match: unknown column %q in %s", *column, in.path)
	}
	rf, err := ref.load()
	if err != nil {
		return err
	}
	set, err := lookup.SetFromColumn(rf, *refColumn)
	if err != nil {
		return fmt.Errorf("match: reference %s: %w", ref.path, err)
	}
	f, err = (&lookup.Membership{Column: *column, Reference: set, Output: *output}).Apply(ctx, f)
	if err != nil {
		return err
	}
	sum, err := lookup.Summarize(f, *output)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Processed %d rows: %d matched, %d not found\n", sum.Processed, sum.Matched, sum.Missing)
	if *preview > 0 {
		report.Preview(e.stdout, f, *preview)
	}
	if *out != "" {
		if err := dataio.Save(*out, f, dataio.Options{}); err != nil {
			return fmt.Errorf("save %s: %w", *out, err)
		}
	}
	e.logger.Info("match finished", zap.Int("rows", sum.Processed), zap.Int("matched", sum.Matched))
	return nil
}
