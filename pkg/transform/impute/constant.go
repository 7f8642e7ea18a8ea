package impute

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// Constant fills missing cells with Value, coerced per column kind. With a
// named column a value that cannot be coerced is an error; across all
// columns such columns are skipped.
type Constant struct {
	Column string
	Value  any
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, col := range gapColumns(f, t.Column) {
		if err := fillConstant(col, t.Value); err != nil && t.Column != "" {
			return f, err
		}
	}
	return f, nil
}

func fillConstant(col ds.Column, value any) error {
	var v any
	var err error
	switch col.Kind() {
	case ds.KindFloat:
		v, err = cast.ToFloat64E(value)
	case ds.KindInt:
		v, err = cast.ToInt64E(value)
	case ds.KindBool:
		v, err = cast.ToBoolE(value)
	case ds.KindTime:
		v, err = cast.ToTimeE(value)
	default:
		v, err = cast.ToStringE(value)
	}
	if err != nil {
		return fmt.Errorf("%w: column %s: %v", ds.ErrKindMismatch, col.Name(), err)
	}
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			continue
		}
		switch c := col.(type) {
		case *ds.FloatColumn:
			c.Set(i, v.(float64))
		case *ds.IntColumn:
			c.Set(i, v.(int64))
		case *ds.BoolColumn:
			c.Set(i, v.(bool))
		case *ds.TimeColumn:
			c.Set(i, v.(time.Time))
		case *ds.StringColumn:
			c.Set(i, v.(string))
		}
	}
	return nil
}
