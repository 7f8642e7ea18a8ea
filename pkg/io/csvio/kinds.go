package csvio

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// TimeLayouts are tried in order when detecting date columns. Slash dates
// are month first.
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

func isInfToken(v string) bool {
	switch strings.ToLower(strings.TrimLeft(v, "+-")) {
	case "inf", "infinity":
		return true
	}
	return false
}

func isBoolToken(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	}
	return false
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range TimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferKinds picks, per column, the narrowest kind every present sampled
// value parses as: int, float, bool, time, else string. A column with no
// present values is string. nulls nil means DefaultNullValues together with
// TypedNullValues.
func InferKinds(rows [][]string, ncol int, nulls []string) []ds.Kind {
	return inferKinds(rows, ncol, nullSet(nulls))
}

func inferKinds(rows [][]string, ncol int, nulls nullTokens) []ds.Kind {
	kinds := make([]ds.Kind, ncol)
	for c := 0; c < ncol; c++ {
		present, ints, nums, bools, times := 0, 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			// typed tokens do not vote; they stay text if the column is string
			if nulls.missing(v, ds.KindInvalid) {
				continue
			}
			present++
			switch {
			case numre.MatchString(v):
				nums++
				if !strings.ContainsAny(v, ".eE") {
					if _, err := strconv.ParseInt(v, 10, 64); err == nil {
						ints++
					}
				}
			case isInfToken(v):
				nums++
			case isBoolToken(v):
				bools++
			default:
				if _, ok := parseTime(v); ok {
					times++
				}
			}
		}
		switch {
		case present == 0:
			kinds[c] = ds.KindString
		case ints == present:
			kinds[c] = ds.KindInt
		case nums == present:
			kinds[c] = ds.KindFloat
		case bools == present:
			kinds[c] = ds.KindBool
		case times == present:
			kinds[c] = ds.KindTime
		default:
			kinds[c] = ds.KindString
		}
	}
	return kinds
}

// parseCell converts raw text for a column of kind k. It returns nil for a
// missing cell and false when the text does not fit the kind. String cells
// keep their surrounding whitespace.
func parseCell(raw string, k ds.Kind, nulls nullTokens) (any, bool) {
	v := strings.TrimSpace(raw)
	if nulls.missing(v, k) {
		return nil, true
	}
	switch k {
	case ds.KindFloat:
		x, err := strconv.ParseFloat(v, 64)
		// out-of-range text parses to ±Inf or zero, as other readers do
		return x, err == nil || errors.Is(err, strconv.ErrRange)
	case ds.KindInt:
		x, err := strconv.ParseInt(v, 10, 64)
		return x, err == nil
	case ds.KindBool:
		x, err := strconv.ParseBool(strings.ToLower(v))
		return x, err == nil
	case ds.KindTime:
		t, ok := parseTime(v)
		return t, ok
	}
	return raw, true
}
