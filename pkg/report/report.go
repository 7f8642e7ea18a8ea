// Package report renders frames, profiles and chart data as plain text
// tables and terminal plots for the CLI.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/explore"
	"github.com/wdm0006/tidykit/pkg/profile"
)

// Missing cells are shown as NA.
const NA = "NA"

// PreviewRows caps how many rows Preview prints.
const PreviewRows = 100

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// Preview prints the first n rows (at most PreviewRows) with a row index.
func Preview(w io.Writer, f *ds.Frame, n int) {
	if n <= 0 || n > PreviewRows {
		n = PreviewRows
	}
	head := f.Head(n)
	t := newTable(w, append([]string{""}, head.Names()...))
	cols := head.Columns()
	for r := 0; r < head.Rows(); r++ {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(r))
		for _, c := range cols {
			if c.IsNull(r) {
				row = append(row, NA)
				continue
			}
			row = append(row, ds.Format(c, r))
		}
		t.Append(row)
	}
	t.Render()
	fmt.Fprintf(w, "%d rows x %d columns\n", f.Rows(), f.Cols())
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// Describe prints one row per column profile.
func Describe(w io.Writer, cols []profile.ColumnProfile) {
	t := newTable(w, []string{"column", "kind", "count", "missing", "mean", "std", "min", "25%", "50%", "75%", "max", "unique", "top", "freq"})
	for _, c := range cols {
		row := []string{c.Name, c.Kind, strconv.Itoa(c.Count), strconv.Itoa(c.Missing)}
		switch {
		case c.Num != nil && c.Count-c.Num.NonFinite > 0:
			s := c.Num
			row = append(row, num(s.Mean), num(s.Std), num(s.Min), num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max), "", "", "")
		case c.Cat != nil:
			row = append(row, "", "", "", "", "", "", "", strconv.Itoa(c.Cat.Unique), c.Cat.Top, strconv.Itoa(c.Cat.Freq))
		default:
			row = append(row, make([]string, 10)...)
		}
		t.Append(row)
	}
	t.Render()
}

// Missing prints the columns with gaps, or a single line when there are
// none.
func Missing(w io.Writer, cols []profile.MissingColumn) {
	if len(cols) == 0 {
		fmt.Fprintln(w, "No missing values found.")
		return
	}
	t := newTable(w, []string{"column", "kind", "missing"})
	for _, c := range cols {
		t.Append([]string{c.Name, c.Kind, strconv.Itoa(c.Missing)})
	}
	t.Render()
}

// Profile prints every section of a full report.
func Profile(w io.Writer, rep profile.Report) {
	fmt.Fprintf(w, "Dataset: %d rows x %d columns, %d duplicate rows\n\n", rep.Rows, rep.Cols, rep.DuplicateRows)
	Describe(w, rep.Columns)
	fmt.Fprintln(w)
	Missing(w, rep.Missing)
	fmt.Fprintln(w)
	if len(rep.NonASCII) == 0 {
		fmt.Fprintln(w, "No non-ASCII characters found.")
	} else {
		t := newTable(w, []string{"column", "rows"})
		for _, c := range rep.NonASCII {
			rows := make([]string, len(c.Rows))
			for i, r := range c.Rows {
				rows[i] = strconv.Itoa(r)
			}
			t.Append([]string{c.Column, strings.Join(rows, ", ")})
		}
		t.Render()
	}
	fmt.Fprintln(w)
	t := newTable(w, []string{"column", "duplicates"})
	for _, d := range rep.Duplicates {
		t.Append([]string{d.Column, strconv.Itoa(d.Duplicates)})
	}
	t.Render()
}

// Steps prints one line per pipeline step.
func Steps(w io.Writer, steps []ds.StepReport) {
	t := newTable(w, []string{"step", "rows before", "rows after", "missing before", "missing after", "elapsed"})
	for _, s := range steps {
		t.Append([]string{
			s.Step,
			strconv.Itoa(s.RowsBefore), strconv.Itoa(s.RowsAfter),
			strconv.Itoa(s.NullsBefore), strconv.Itoa(s.NullsAfter),
			s.Elapsed.Round(time.Microsecond).String(),
		})
	}
	t.Render()
}

const barWidth = 40

// Bars prints a series as a horizontal bar chart, scaled to the largest
// absolute value.
func Bars(w io.Writer, s explore.Series) {
	peak := 0.0
	for _, v := range s.Values {
		peak = max(peak, abs(v))
	}
	t := newTable(w, []string{"label", "value", ""})
	for i, l := range s.Labels {
		n := 0
		if peak > 0 {
			n = int(abs(s.Values[i]) / peak * barWidth)
		}
		t.Append([]string{l, strconv.FormatFloat(s.Values[i], 'g', 6, 64), strings.Repeat("#", n)})
	}
	t.Render()
}

// Pie prints each label's share of the total.
func Pie(w io.Writer, s explore.Series) {
	shares := explore.Shares(s)
	t := newTable(w, []string{"label", "value", "share"})
	for i, l := range s.Labels {
		t.Append([]string{l, strconv.FormatFloat(s.Values[i], 'g', 6, 64), strconv.FormatFloat(shares[i], 'f', 1, 64) + "%"})
	}
	t.Render()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
