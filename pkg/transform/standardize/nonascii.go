package standardize

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

// StripNonASCII replaces every non-ASCII character (and every byte of an
// invalid UTF-8 sequence) with a single space.
func StripNonASCII(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= utf8.RuneSelf {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

type ReplaceNonASCII struct{ Column string }

func (t *ReplaceNonASCII) Name() string { return "replace_non_ascii" }

func (t *ReplaceNonASCII) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, c := range stringColumns(f, t.Column) {
		mapStrings(c, StripNonASCII)
	}
	return f, nil
}

// InfToNull marks +Inf and -Inf missing in float columns.
type InfToNull struct{ Column string }

func (t *InfToNull) Name() string { return "inf_to_null" }

func (t *InfToNull) Apply(ctx context.Context, f *ds.Frame) (*ds.Frame, error) {
	for _, c := range floatColumns(f, t.Column) {
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok && math.IsInf(v, 0) {
				c.SetNull(i)
			}
		}
	}
	return f, nil
}

// NonASCIIRows lists, per string column, the rows holding non-ASCII text.
// Columns without such rows are omitted.
type NonASCIIRows struct {
	Column string `json:"column"`
	Rows   []int  `json:"rows"`
}

func FindNonASCII(f *ds.Frame) []NonASCIIRows {
	var out []NonASCIIRows
	for _, c := range stringColumns(f, "") {
		var rows []int
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok && !isASCII(v) {
				rows = append(rows, i)
			}
		}
		if len(rows) > 0 {
			out = append(out, NonASCIIRows{Column: c.Name(), Rows: rows})
		}
	}
	return out
}
