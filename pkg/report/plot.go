package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/wdm0006/tidykit/pkg/explore"
)

const plotHeight = 12

// Histogram plots bin counts as a line chart.
func Histogram(w io.Writer, column string, bins []explore.Bin) {
	if len(bins) == 0 {
		fmt.Fprintln(w, "No finite values to plot.")
		return
	}
	counts := make([]float64, len(bins))
	for i, b := range bins {
		counts[i] = float64(b.Count)
	}
	caption := fmt.Sprintf("%s: %d bins from %g to %g", column, len(bins), bins[0].Lo, bins[len(bins)-1].Hi)
	fmt.Fprintln(w, asciigraph.Plot(counts, asciigraph.Height(plotHeight), asciigraph.Caption(caption)))
}

// Line plots y against x in x order, one column per point.
func Line(w io.Writer, x, y string, pts []explore.Point) {
	if len(pts) == 0 {
		fmt.Fprintln(w, "No points to plot.")
		return
	}
	sorted := append([]explore.Point(nil), pts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	ys := make([]float64, len(sorted))
	for i, p := range sorted {
		ys[i] = p.Y
	}
	caption := fmt.Sprintf("%s by %s (%d points)", y, x, len(pts))
	fmt.Fprintln(w, asciigraph.Plot(ys, asciigraph.Height(plotHeight), asciigraph.Width(72), asciigraph.Caption(caption)))
}
