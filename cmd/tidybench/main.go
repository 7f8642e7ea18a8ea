// Command tidybench measures normalize, missing-value and duplicate
// resolution throughput over one generated frame. The resolvers need every
// row at once, so the frame is built before timing starts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/transform/dedupe"
	imp "github.com/wdm0006/tidykit/pkg/transform/impute"
	std "github.com/wdm0006/tidykit/pkg/transform/standardize"
)

var words = []string{" Alpha ", "beta", "GAMMA", "  ", "café", "delta "}

type genSource struct {
	schema ds.Schema
	remain int
	chunk  int
	missp  float64
	dupp   float64
	rnd    *rand.Rand
}

func (g *genSource) Next() (*ds.Frame, error) {
	if g.remain <= 0 {
		return nil, io.EOF
	}
	n := min(g.chunk, g.remain)
	g.remain -= n
	f := ds.NewFrame(g.schema)
	for i := 0; i < n; i++ {
		f.AppendNullRow()
		if i > 0 && g.rnd.Float64() < g.dupp {
			for _, cs := range g.schema.Columns {
				if v, _ := f.Value(i-1, cs.Name); v != nil {
					_ = f.SetCell(i, cs.Name, v)
				}
			}
			continue
		}
		for _, cs := range g.schema.Columns {
			if g.rnd.Float64() < g.missp {
				continue
			}
			switch cs.Type {
			case ds.KindFloat:
				v := g.rnd.Float64() * 100
				if g.rnd.Intn(1000) == 0 {
					v = math.Inf(1)
				}
				_ = f.SetCell(i, cs.Name, v)
			case ds.KindInt:
				_ = f.SetCell(i, cs.Name, int64(g.rnd.Intn(100)))
			case ds.KindString:
				_ = f.SetCell(i, cs.Name, words[g.rnd.Intn(len(words))])
			}
		}
	}
	return f, nil
}

func benchPipeline(workers int, st imp.Strategy, act dedupe.Action) *ds.Pipeline {
	return ds.NewPipeline().
		Add(&std.Normalize{Workers: workers}).
		Add(&imp.Resolve{Strategy: st}).
		Add(&dedupe.Resolve{Action: act})
}

func main() {
	var (
		rows     = flag.Int("rows", 1_000_000, "total rows to generate")
		fcols    = flag.Int("float-cols", 4, "number of float columns")
		icols    = flag.Int("int-cols", 2, "number of int columns")
		scols    = flag.Int("string-cols", 2, "number of string columns")
		missp    = flag.Float64("missing", 0.05, "probability of a missing cell")
		dupp     = flag.Float64("dup", 0.02, "probability a row repeats the previous one")
		strategy = flag.String("strategy", "auto", "missing-value strategy: mean, median, mode, drop or auto")
		action   = flag.String("dedupe", "first", "duplicate action: first, last or none")
		workers  = flag.Int("workers", 0, "normalize workers (default GOMAXPROCS)")
		jsonOut  = flag.Bool("json", false, "emit JSON summary")
		seed     = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	st, err := imp.ParseStrategy(*strategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	act, err := dedupe.ParseAction(*action)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var cols []ds.ColumnSchema
	for i := 0; i < *fcols; i++ {
		cols = append(cols, ds.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: ds.KindFloat, Nullable: true})
	}
	for i := 0; i < *icols; i++ {
		cols = append(cols, ds.ColumnSchema{Name: fmt.Sprintf("i%d", i), Type: ds.KindInt, Nullable: true})
	}
	for i := 0; i < *scols; i++ {
		cols = append(cols, ds.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: ds.KindString, Nullable: true})
	}

	p := benchPipeline(*workers, st, act)

	src := &genSource{schema: ds.Schema{Columns: cols}, remain: *rows, chunk: *rows, missp: *missp, dupp: *dupp, rnd: rand.New(rand.NewSource(*seed))}
	frame, err := src.Next()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	nulls := frame.NullCount()

	runtime.GC()
	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	out, reports, err := p.RunReport(context.Background(), frame)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)
	written := out.Rows()

	stepMS := make(map[string]int64, len(reports))
	for _, r := range reports {
		stepMS[r.Step] = r.Elapsed.Milliseconds()
	}

	rowsPerSec := float64(*rows) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  *rows,
		"rows_written":          written,
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "int": *icols, "string": *scols},
		"missing_cells":         nulls,
		"step_elapsed_ms":       stepMS,
		"missing_prob":          *missp,
		"dup_prob":              *dupp,
		"steps":                 p.Steps(),
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d (%d written)\n", *rows, written)
	fmt.Printf("Missing cells: %d\n", nulls)
	for _, r := range reports {
		fmt.Printf("Step %s: %s, rows %d -> %d, missing %d -> %d\n", r.Step, r.Elapsed, r.RowsBefore, r.RowsAfter, r.NullsBefore, r.NullsAfter)
	}
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
