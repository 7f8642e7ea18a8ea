package impute

import (
	"context"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
)

func makeLargeFloatFrame(n int) *ds.Frame {
	c := ds.NewFloatColumn("x", n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			c.Set(i, float64(i%10))
		} else {
			c.SetNull(i)
		}
	}
	f, _ := ds.FromColumns(c)
	return f
}

func BenchmarkImputeMean(b *testing.B) {
	base := makeLargeFloatFrame(10000)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		f := base.Clone()
		if _, err := (&Mean{Column: "x"}).Apply(context.Background(), f); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkImputeMode(b *testing.B) {
	base := makeLargeFloatFrame(10000)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		f := base.Clone()
		if _, err := (&Mode{Column: "x"}).Apply(context.Background(), f); err != nil {
			b.Fatal(err)
		}
	}
}
