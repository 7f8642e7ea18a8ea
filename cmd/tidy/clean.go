package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/dataio"
	"github.com/wdm0006/tidykit/pkg/recipe"
	"github.com/wdm0006/tidykit/pkg/report"
)

// DefaultOutput is where clean writes when neither the recipe nor -out
// names a file.
const DefaultOutput = "cleaned_data.csv"

type cleanFlags struct {
	recipe          string
	in, out         string
	format          string
	outFormat       string
	delimiter       string
	noHeader        bool
	strict          bool
	bom             bool
	normalize       bool
	normalizeColumn string
	workers         int
	missing         string
	missingColumn   string
	dedupe          string
	dedupeColumn    string
	chunkSize       int
	preview         int
	quiet           bool
}

func (o *cleanFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.recipe, "recipe", "", "cleaning recipe (JSON, YAML or TOML); the step flags are ignored")
	fs.StringVar(&o.in, "in", "", "input file, - for stdin (overrides the recipe)")
	fs.StringVar(&o.out, "out", "", "output file, - for stdout (overrides the recipe; default "+DefaultOutput+")")
	fs.StringVar(&o.format, "format", "", "input format: csv, tsv, jsonl, parquet or xlsx (default from extension)")
	fs.StringVar(&o.outFormat, "out-format", "", "output format (default from extension)")
	fs.StringVar(&o.delimiter, "delimiter", "", `CSV input delimiter, \t for tab (default sniffed)`)
	fs.BoolVar(&o.noHeader, "no-header", false, "CSV input has no header row")
	fs.BoolVar(&o.strict, "strict", false, "reject ragged CSV rows instead of padding them")
	fs.BoolVar(&o.bom, "bom", false, "prefix CSV output with a UTF-8 byte order mark")
	fs.BoolVar(&o.normalize, "normalize", false, "trim, lower-case and strip non-ASCII text; blank text and infinities become missing")
	fs.StringVar(&o.normalizeColumn, "normalize-column", "", "normalize only this column")
	fs.IntVar(&o.workers, "workers", 0, "normalize workers (default GOMAXPROCS)")
	fs.StringVar(&o.missing, "missing", "", "missing values: mean, median, mode, drop or auto")
	fs.StringVar(&o.missingColumn, "missing-column", "", "resolve missing values only in this column")
	fs.StringVar(&o.dedupe, "dedupe", "", "duplicates: first, last or none")
	fs.StringVar(&o.dedupeColumn, "dedupe-column", "", "compare duplicates on this column only")
	fs.IntVar(&o.chunkSize, "chunk-size", 0, "stream rows in chunks of this size (row-local steps only); 0 loads the whole file")
	fs.IntVar(&o.preview, "preview", 0, "print the first n rows of the result (at most 100)")
	fs.BoolVar(&o.quiet, "quiet", false, "do not print the step report")
}

// buildRecipe loads the recipe file, or assembles one from the step flags
// in the order normalize, missing, dedupe.
func (o *cleanFlags) buildRecipe() (*recipe.Recipe, error) {
	var r *recipe.Recipe
	if o.recipe != "" {
		var err error
		if r, err = recipe.Load(o.recipe); err != nil {
			return nil, err
		}
		if o.in != "" {
			r.Input.Path = o.in
		}
		if o.out != "" {
			r.Output.Path = o.out
		}
		return r, nil
	}
	r = &recipe.Recipe{
		Input: recipe.Input{
			Path:      o.in,
			Type:      o.format,
			Delimiter: o.delimiter,
			Strict:    o.strict,
		},
		Output: recipe.Output{Path: o.out, Type: o.outFormat, BOM: o.bom},
	}
	if r.Output.Path == "" {
		r.Output.Path = DefaultOutput
	}
	if o.noHeader {
		header := false
		r.Input.HasHeader = &header
	}
	if o.normalize {
		r.Steps = append(r.Steps, recipe.Step{"normalize": map[string]any{"column": o.normalizeColumn, "workers": o.workers}})
	}
	if o.missing != "" {
		r.Steps = append(r.Steps, recipe.Step{"missing": map[string]any{"strategy": o.missing, "column": o.missingColumn}})
	}
	if o.dedupe != "" {
		r.Steps = append(r.Steps, recipe.Step{"dedupe": map[string]any{"action": o.dedupe, "column": o.dedupeColumn}})
	}
	if r.Input.Path == "" {
		return nil, usagef("clean: -in or -recipe is required")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func runClean(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "clean")
	var o cleanFlags
	o.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	r, err := o.buildRecipe()
	if err != nil {
		return err
	}
	p, err := r.Pipeline()
	if err != nil {
		return err
	}
	p.WithLogger(e.logger)

	if o.chunkSize > 0 {
		return cleanStream(ctx, e, r, p, o.chunkSize)
	}

	f, err := dataio.Load(r.Input.Path, r.LoadOptions())
	if err != nil {
		return fmt.Errorf("load %s: %w", r.Input.Path, err)
	}
	if err := r.CheckColumns(f.Names()); err != nil {
		return err
	}
	out, reports, err := p.RunReport(ctx, f)
	if err != nil {
		return err
	}
	if err := dataio.Save(r.Output.Path, out, r.SaveOptions()); err != nil {
		return fmt.Errorf("save %s: %w", r.Output.Path, err)
	}
	if !o.quiet {
		report.Steps(e.stderr, reports)
	}
	if o.preview > 0 {
		report.Preview(e.stdout, out, o.preview)
	}
	e.logger.Info("clean finished",
		zap.String("input", r.Input.Path),
		zap.String("output", r.Output.Path),
		zap.Int("rows_in", f.Rows()),
		zap.Int("rows_out", out.Rows()))
	return nil
}

type schemaSource interface {
	Schema() ds.Schema
}

func cleanStream(ctx context.Context, e *env, r *recipe.Recipe, p *ds.Pipeline, chunkSize int) error {
	if err := r.Streamable(); err != nil {
		return usagef("clean: %v", err)
	}
	src, closer, err := dataio.OpenStream(r.Input.Path, r.LoadOptions(), chunkSize)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.Input.Path, err)
	}
	defer func() { _ = closer.Close() }()
	if ss, ok := src.(schemaSource); ok {
		if err := r.CheckColumns(ss.Schema().Names()); err != nil {
			return err
		}
	}
	sink, err := dataio.CreateStream(r.Output.Path, r.SaveOptions())
	if err != nil {
		return fmt.Errorf("create %s: %w", r.Output.Path, err)
	}
	rows, err := ds.RunStream(ctx, p, src, sink)
	if err != nil {
		return err
	}
	e.logger.Info("stream finished",
		zap.String("input", r.Input.Path),
		zap.String("output", r.Output.Path),
		zap.Int("chunk_size", chunkSize),
		zap.Int("rows", rows))
	return nil
}
