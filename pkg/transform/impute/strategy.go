package impute

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

var ErrUnknownStrategy = errors.New("unknown missing-value strategy")

// Strategy selects how missing values are resolved.
type Strategy int

const (
	StrategyInvalid Strategy = iota
	StrategyMean
	StrategyMedian
	StrategyMode
	StrategyDrop
	// StrategyAuto fills numeric columns with the mean and the rest with
	// the mode.
	StrategyAuto
)

func (s Strategy) String() string {
	switch s {
	case StrategyMean:
		return "mean"
	case StrategyMedian:
		return "median"
	case StrategyMode:
		return "mode"
	case StrategyDrop:
		return "drop"
	case StrategyAuto:
		return "auto"
	}
	return "invalid"
}

// ParseStrategy accepts the short names and the "fill with ..." labels.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean", "fill with mean":
		return StrategyMean, nil
	case "median", "fill with median":
		return StrategyMedian, nil
	case "mode", "fill with mode":
		return StrategyMode, nil
	case "drop", "drop rows":
		return StrategyDrop, nil
	case "auto":
		return StrategyAuto, nil
	}
	return StrategyInvalid, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Resolve applies Strategy to one column, or to every column with gaps
// when Column is empty. Running it again once no gaps remain changes
// nothing.
type Resolve struct {
	Strategy Strategy
	Column   string
}

func (t *Resolve) Name() string { return "missing_" + t.Strategy.String() }

func (t *Resolve) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	switch t.Strategy {
	case StrategyMean:
		return (&Mean{Column: t.Column}).Apply(ctx, f)
	case StrategyMedian:
		return (&Median{Column: t.Column}).Apply(ctx, f)
	case StrategyMode:
		return (&Mode{Column: t.Column}).Apply(ctx, f)
	case StrategyDrop:
		return (&DropRows{Column: t.Column}).Apply(ctx, f)
	case StrategyAuto:
		return (&Auto{Column: t.Column}).Apply(ctx, f)
	}
	return f, fmt.Errorf("%w: %d", ErrUnknownStrategy, t.Strategy)
}

// Auto fills numeric columns with the mean and every other column with the
// mode.
type Auto struct{ Column string }

func (t *Auto) Name() string { return "impute_auto" }

func (t *Auto) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, col := range gapColumns(f, t.Column) {
		if col.Kind().Numeric() {
			fillMean(col)
		} else {
			fillMode(col)
		}
	}
	return f, nil
}
