package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/dataio"
	"github.com/wdm0006/tidykit/pkg/transform/dedupe"
	imp "github.com/wdm0006/tidykit/pkg/transform/impute"
	"github.com/wdm0006/tidykit/pkg/transform/lookup"
	outl "github.com/wdm0006/tidykit/pkg/transform/outliers"
	std "github.com/wdm0006/tidykit/pkg/transform/standardize"
	val "github.com/wdm0006/tidykit/pkg/transform/validate"
)

type columnArgs struct {
	Column string `json:"column"`
}

type normalizeArgs struct {
	Column  string `json:"column"`
	Workers int    `json:"workers" validate:"gte=0"`
}

type regexArgs struct {
	Column  string `json:"column"`
	Pattern string `json:"pattern" validate:"required"`
	Replace string `json:"replace"`
}

type mapArgs struct {
	Column string            `json:"column"`
	Map    map[string]string `json:"map" validate:"required"`
}

type constantArgs struct {
	Column string `json:"column"`
	Value  any    `json:"value" validate:"required"`
}

type missingArgs struct {
	Strategy string `json:"strategy" validate:"required"`
	Column   string `json:"column"`
}

type dedupeArgs struct {
	Action string `json:"action" validate:"required"`
	Column string `json:"column"`
}

type capArgs struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

type inArgs struct {
	Column string   `json:"column" validate:"required"`
	Values []string `json:"values" validate:"required,min=1"`
}

type matchArgs struct {
	Column          string `json:"column" validate:"required"`
	Reference       string `json:"reference" validate:"required"`
	ReferenceColumn string `json:"reference_column"`
	Output          string `json:"output"`
}

// builders maps step names to constructors. Every constructor decodes its
// arguments strictly.
var builders = map[string]func(raw []byte) (ds.Transform, error){
	"normalize": func(raw []byte) (ds.Transform, error) {
		var a normalizeArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &std.Normalize{Column: a.Column, Workers: a.Workers}, nil
	},
	"trim":              column(func(c string) ds.Transform { return &std.Trim{Column: c} }),
	"lower":             column(func(c string) ds.Transform { return &std.Lower{Column: c} }),
	"empty_to_null":     column(func(c string) ds.Transform { return &std.EmptyToNull{Column: c} }),
	"replace_non_ascii": column(func(c string) ds.Transform { return &std.ReplaceNonASCII{Column: c} }),
	"inf_to_null":       column(func(c string) ds.Transform { return &std.InfToNull{Column: c} }),
	"impute_mean":       column(func(c string) ds.Transform { return &imp.Mean{Column: c} }),
	"impute_median":     column(func(c string) ds.Transform { return &imp.Median{Column: c} }),
	"impute_mode":       column(func(c string) ds.Transform { return &imp.Mode{Column: c} }),
	"impute_auto":       column(func(c string) ds.Transform { return &imp.Auto{Column: c} }),
	"drop_missing":      column(func(c string) ds.Transform { return &imp.DropRows{Column: c} }),
	"regex_replace": func(raw []byte) (ds.Transform, error) {
		var a regexArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &std.RegexReplace{Column: a.Column, Pattern: a.Pattern, Replace: a.Replace}, nil
	},
	"map_values": func(raw []byte) (ds.Transform, error) {
		var a mapArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &std.MapValues{Column: a.Column, Map: a.Map}, nil
	},
	"impute_constant": func(raw []byte) (ds.Transform, error) {
		var a constantArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &imp.Constant{Column: a.Column, Value: a.Value}, nil
	},
	"missing": func(raw []byte) (ds.Transform, error) {
		var a missingArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		s, err := imp.ParseStrategy(a.Strategy)
		if err != nil {
			return nil, err
		}
		return &imp.Resolve{Strategy: s, Column: a.Column}, nil
	},
	"dedupe": func(raw []byte) (ds.Transform, error) {
		var a dedupeArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		act, err := dedupe.ParseAction(a.Action)
		if err != nil {
			return nil, err
		}
		return &dedupe.Resolve{Action: act, Column: a.Column}, nil
	},
	"cap_range": func(raw []byte) (ds.Transform, error) {
		var a capArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &outl.Cap{Column: a.Column, Min: a.Min, Max: a.Max}, nil
	},
	"validate_range": func(raw []byte) (ds.Transform, error) {
		var a capArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &val.Range{Column: a.Column, Min: a.Min, Max: a.Max}, nil
	},
	"validate_in": func(raw []byte) (ds.Transform, error) {
		var a inArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &lookup.Require{Column: a.Column, Allowed: lookup.NewSet(a.Values)}, nil
	},
	"match": func(raw []byte) (ds.Transform, error) {
		var a matchArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return &matchStep{args: a}, nil
	},
}

// StepNames lists every known step, sorted.
func StepNames() []string {
	out := make([]string, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func column(fn func(string) ds.Transform) func([]byte) (ds.Transform, error) {
	return func(raw []byte) (ds.Transform, error) {
		var a columnArgs
		if err := args(raw, &a); err != nil {
			return nil, err
		}
		return fn(a.Column), nil
	}
}

func args(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func decodeStep(s Step) (ds.Transform, error) {
	kind := s.Kind()
	if kind == "" {
		return nil, fmt.Errorf("%w: a step holds exactly one key, got %d", ErrInvalid, len(s))
	}
	build, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, kind)
	}
	raw, err := json.Marshal(s[kind])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, kind, err)
	}
	t, err := build(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return t, nil
}

// Build turns steps into a pipeline in order.
func Build(steps []Step) (*ds.Pipeline, error) {
	p := ds.NewPipeline()
	for i, s := range steps {
		t, err := decodeStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		p.Add(t)
	}
	return p, nil
}

// Pipeline builds the recipe's steps.
func (r *Recipe) Pipeline() (*ds.Pipeline, error) { return Build(r.Steps) }

// CheckColumns reports the first step naming a column that is neither in
// names nor added by an earlier match step.
func (r *Recipe) CheckColumns(names []string) error {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for i, s := range r.Steps {
		kind := s.Kind()
		a, _ := s[kind].(map[string]any)
		if col, _ := a["column"].(string); col != "" && !known[col] {
			return fmt.Errorf("step %d (%s): %w: %s", i+1, kind, ds.ErrUnknownColumn, col)
		}
		if kind == "match" {
			out, _ := a["output"].(string)
			if out == "" {
				out = lookup.DefaultOutput
			}
			known[out] = true
		}
	}
	return nil
}

// matchStep loads its reference file on first use.
type matchStep struct {
	args matchArgs
	m    *lookup.Membership
}

func (t *matchStep) Name() string { return "match" }

func (t *matchStep) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	if t.m == nil {
		ref, err := dataio.Load(t.args.Reference, dataio.Options{})
		if err != nil {
			return f, fmt.Errorf("load reference: %w", err)
		}
		col := t.args.ReferenceColumn
		if col == "" {
			col = t.args.Column
		}
		set, err := lookup.SetFromColumn(ref, col)
		if err != nil {
			return f, err
		}
		t.m = &lookup.Membership{Column: t.args.Column, Reference: set, Output: t.args.Output}
	}
	return t.m.Apply(ctx, f)
}

// rowLocal steps give the same result whether rows arrive whole or in
// chunks.
var rowLocal = map[string]bool{
	"normalize":         true,
	"trim":              true,
	"lower":             true,
	"empty_to_null":     true,
	"replace_non_ascii": true,
	"inf_to_null":       true,
	"regex_replace":     true,
	"map_values":        true,
	"impute_constant":   true,
	"cap_range":         true,
	"validate_in":       true,
	"validate_range":    true,
	"match":             true,
}

// Streamable reports the first step that needs the whole dataset, such as
// a fill statistic or duplicate detection.
func (r *Recipe) Streamable() error {
	for i, s := range r.Steps {
		if !rowLocal[s.Kind()] {
			return fmt.Errorf("step %d (%s) needs the whole dataset and cannot run on chunks", i+1, s.Kind())
		}
	}
	return nil
}
