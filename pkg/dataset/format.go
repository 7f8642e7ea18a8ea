package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339Nano
)

// Format renders cell i of c as text. Missing cells render as "".
func Format(c Column, i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch col := c.(type) {
	case *FloatColumn:
		v, _ := col.Get(i)
		return FormatFloat(v)
	case *TimeColumn:
		v, _ := col.Get(i)
		return FormatTime(v)
	}
	return cast.ToString(c.Value(i))
}

// FormatFloat renders v so that it parses back as a float: whole numbers
// keep a trailing ".0".
func FormatFloat(v float64) string {
	var s string
	if a := math.Abs(v); a == 0 || (a >= 1e-4 && a < 1e15) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// FormatTime renders midnight UTC values as plain dates.
func FormatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}
