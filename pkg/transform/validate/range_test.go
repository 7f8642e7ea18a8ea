package validate

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func ptr(v float64) *float64 { return &v }

func TestRange(t *testing.T) {
	age := ds.NewIntColumn("age", 0)
	for _, v := range []int64{5, 130, 40} {
		age.Append(v)
	}
	age.AppendNull()
	score := ds.NewFloatColumn("score", 0)
	for _, v := range []float64{0.5, math.Inf(1), 0.1, -2} {
		score.Append(v)
	}
	name := ds.NewStringColumn("name", 4)
	f, _ := ds.FromColumns(age, score, name)
	ctx := context.Background()

	if _, err := (&Range{Column: "age", Min: ptr(0), Max: ptr(150)}).Apply(ctx, f); err != nil {
		t.Fatal(err)
	}
	_, err := (&Range{Column: "age", Max: ptr(120)}).Apply(ctx, f)
	if !errors.Is(err, ErrOutOfRange) || !strings.Contains(err.Error(), "age has 1, first at row 1") {
		t.Fatalf("err = %v", err)
	}
	_, err = (&Range{Min: ptr(0)}).Apply(ctx, f)
	if !errors.Is(err, ErrOutOfRange) || !strings.Contains(err.Error(), "score has 1, first at row 3") {
		t.Fatalf("err = %v", err)
	}
	if _, err := (&Range{Column: "missing", Min: ptr(0)}).Apply(ctx, f); err != nil {
		t.Fatalf("unknown column should be a no-op, got %v", err)
	}
}
