// Package lookup checks column values against a reference set.
package lookup

import (
	"context"
	"errors"
	"fmt"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// DefaultOutput is the name of the column Membership adds.
const DefaultOutput = "Match Found"

var ErrOutsideSet = errors.New("values outside allowed set")

// Set is a set of cell texts as rendered by dataset.Format.
type Set map[string]struct{}

func NewSet(vals []string) Set {
	s := make(Set, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(v string) bool { _, ok := s[v]; return ok }

// SetFromColumn collects the present values of a reference column.
func SetFromColumn(f *ds.Frame, column string) (Set, error) {
	c, ok := f.ColumnByName(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, column)
	}
	s := make(Set, c.Len())
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			s[ds.Format(c, i)] = struct{}{}
		}
	}
	return s, nil
}

// Membership adds a bool column telling whether each value of Column is in
// Reference. Missing values never match. An existing output column is
// replaced.
type Membership struct {
	Column    string
	Reference Set
	Output    string
}

func (t *Membership) Name() string { return "match" }

func (t *Membership) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	c, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	name := t.Output
	if name == "" {
		name = DefaultOutput
	}
	out := ds.NewBoolColumn(name, c.Len())
	for i := 0; i < c.Len(); i++ {
		out.Set(i, !c.IsNull(i) && t.Reference.Has(ds.Format(c, i)))
	}
	if _, exists := f.ColumnByName(name); exists {
		return f, f.ReplaceColumn(out)
	}
	return f, f.AddColumn(out)
}

// Summary counts matched and unmatched rows of a Membership output column.
type Summary struct {
	Processed int `json:"processed"`
	Matched   int `json:"matched"`
	Missing   int `json:"missing"`
}

func Summarize(f *ds.Frame, output string) (Summary, error) {
	if output == "" {
		output = DefaultOutput
	}
	col, ok := f.ColumnByName(output)
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", ds.ErrUnknownColumn, output)
	}
	bc, ok := col.(*ds.BoolColumn)
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s is %s", ds.ErrKindMismatch, output, col.Kind())
	}
	s := Summary{Processed: bc.Len()}
	for i := 0; i < bc.Len(); i++ {
		if v, _ := bc.Get(i); v {
			s.Matched++
		} else {
			s.Missing++
		}
	}
	return s, nil
}

// Require fails when a present value of Column is outside Allowed.
type Require struct {
	Column  string
	Allowed Set
}

func (t *Require) Name() string { return "validate_in" }

func (t *Require) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	c, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	var bad int
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) && !t.Allowed.Has(ds.Format(c, i)) {
			bad++
		}
	}
	if bad > 0 {
		return f, fmt.Errorf("%w: column %s has %d", ErrOutsideSet, t.Column, bad)
	}
	return f, nil
}
