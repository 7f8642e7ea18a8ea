package standardize

import (
	"context"
	"regexp"
	"strings"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

type Trim struct{ Column string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, c := range stringColumns(f, t.Column) {
		mapStrings(c, strings.TrimSpace)
	}
	return f, nil
}

type Lower struct{ Column string }

func (t *Lower) Name() string { return "lower" }

func (t *Lower) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, c := range stringColumns(f, t.Column) {
		mapStrings(c, strings.ToLower)
	}
	return f, nil
}

// EmptyToNull marks empty strings missing.
type EmptyToNull struct{ Column string }

func (t *EmptyToNull) Name() string { return "empty_to_null" }

func (t *EmptyToNull) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, c := range stringColumns(f, t.Column) {
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok && v == "" {
				c.SetNull(i)
			}
		}
	}
	return f, nil
}

type RegexReplace struct {
	Column  string
	Pattern string
	Replace string
	re      *regexp.Regexp
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return f, err
		}
		t.re = re
	}
	for _, c := range stringColumns(f, t.Column) {
		mapStrings(c, func(v string) string { return t.re.ReplaceAllString(v, t.Replace) })
	}
	return f, nil
}

type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, c := range stringColumns(f, t.Column) {
		mapStrings(c, func(v string) string {
			if nv, ok := t.Map[v]; ok {
				return nv
			}
			return v
		})
	}
	return f, nil
}
