// Package dedupe resolves duplicate rows, keyed by the whole row or by a
// single column. Missing values compare equal to each other.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

var ErrUnknownAction = errors.New("unknown duplicate action")

// Action selects which members of a duplicate group survive.
type Action int

const (
	ActionInvalid Action = iota
	KeepFirst
	KeepLast
	RemoveAll
)

func (a Action) String() string {
	switch a {
	case KeepFirst:
		return "keep_first"
	case KeepLast:
		return "keep_last"
	case RemoveAll:
		return "remove_all"
	}
	return "invalid"
}

func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "keep first", "keep_first":
		return KeepFirst, nil
	case "last", "keep last", "keep_last":
		return KeepLast, nil
	case "none", "remove all", "remove_all", "false":
		return RemoveAll, nil
	}
	return ActionInvalid, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Resolve removes duplicate rows. KeepFirst and KeepLast retain one row per
// duplicate group; RemoveAll keeps only rows whose key is unique. Survivors
// stay in their original order.
type Resolve struct {
	Action Action
	Column string
}

func (t *Resolve) Name() string { return "dedupe_" + t.Action.String() }

func (t *Resolve) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	if t.Action == ActionInvalid || t.Action > RemoveAll {
		return f, fmt.Errorf("%w: %d", ErrUnknownAction, t.Action)
	}
	keys, err := rowKeys(f, t.Column)
	if err != nil {
		return f, nil
	}
	keep := survivors(keys, t.Action)
	if len(keep) == f.Rows() {
		return f, nil
	}
	return f.Take(keep), nil
}

// Duplicated marks the rows Resolve would remove for the given action.
func Duplicated(f *ds.Frame, column string, a Action) ([]bool, error) {
	keys, err := rowKeys(f, column)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(keys))
	for i := range mask {
		mask[i] = true
	}
	for _, r := range survivors(keys, a) {
		mask[r] = false
	}
	return mask, nil
}

// Count returns how many rows belong to a duplicate group.
func Count(f *ds.Frame, column string) (int, error) {
	mask, err := Duplicated(f, column, RemoveAll)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n, nil
}

// ColumnCount is the number of rows sharing their value with another row.
type ColumnCount struct {
	Column     string `json:"column"`
	Duplicates int    `json:"duplicates"`
}

// ColumnSummary counts duplicate-group rows for every column.
func ColumnSummary(f *ds.Frame) []ColumnCount {
	out := make([]ColumnCount, 0, f.Cols())
	for _, name := range f.Names() {
		n, _ := Count(f, name)
		out = append(out, ColumnCount{Column: name, Duplicates: n})
	}
	return out
}

func survivors(keys []string, a Action) []int {
	keep := make([]int, 0, len(keys))
	switch a {
	case KeepFirst:
		seen := make(map[string]struct{}, len(keys))
		for i, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keep = append(keep, i)
		}
	case KeepLast:
		last := make(map[string]int, len(keys))
		for i, k := range keys {
			last[k] = i
		}
		for i, k := range keys {
			if last[k] == i {
				keep = append(keep, i)
			}
		}
	case RemoveAll:
		counts := make(map[string]int, len(keys))
		for _, k := range keys {
			counts[k]++
		}
		for i, k := range keys {
			if counts[k] == 1 {
				keep = append(keep, i)
			}
		}
	}
	return keep
}

func rowKeys(f *ds.Frame, column string) ([]string, error) {
	cols, err := f.Select(column)
	if err != nil {
		return nil, err
	}
	keys := make([]string, f.Rows())
	var b strings.Builder
	for r := range keys {
		b.Reset()
		for _, c := range cols {
			writeCell(&b, c, r)
		}
		keys[r] = b.String()
	}
	return keys, nil
}

// writeCell appends a length-prefixed encoding so that adjacent cells cannot
// run together.
func writeCell(b *strings.Builder, c ds.Column, i int) {
	if c.IsNull(i) {
		b.WriteString("~;")
		return
	}
	var s string
	switch tc := c.(type) {
	case *ds.TimeColumn:
		v, _ := tc.Get(i)
		s = strconv.FormatInt(v.UnixNano(), 10)
	case *ds.FloatColumn:
		v, _ := tc.Get(i)
		if v == 0 {
			v = 0 // -0 and 0 share a group
		}
		s = cast.ToString(v)
	default:
		s = cast.ToString(c.Value(i))
	}
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
	b.WriteByte(';')
}
