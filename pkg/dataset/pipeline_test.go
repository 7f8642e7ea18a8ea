package dataset_test

import (
	"context"
	"errors"
	"io"
	"testing"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	imp "github.com/wdm0006/tidykit/pkg/transform/impute"
	std "github.com/wdm0006/tidykit/pkg/transform/standardize"
)

func frame() *ds.Frame {
	s := ds.Schema{Columns: []ds.ColumnSchema{{Name: "x", Type: ds.KindFloat, Nullable: true}, {Name: "s", Type: ds.KindString, Nullable: true}}}
	f := ds.NewFrame(s)
	for i := 0; i < 2; i++ {
		f.AppendNullRow()
	}
	_ = f.SetCell(0, "x", 1.0)
	_ = f.SetCell(0, "s", " Foo ")
	// row 1 left nulls
	return f
}

func TestPipeline(t *testing.T) {
	p := ds.NewPipeline().Add(&imp.Mean{Column: "x"}).Add(&std.Trim{Column: "s"})
	out, reports, err := p.RunReport(context.Background(), frame())
	if err != nil {
		t.Fatal(err)
	}
	colX, _ := out.ColumnByName("x")
	if colX.IsNull(1) {
		t.Fatal("imputer failed to fill null")
	}
	colS, _ := out.ColumnByName("s")
	s0, _ := colS.(*ds.StringColumn).Get(0)
	if s0 != "Foo" {
		t.Fatalf("trim failed, got %q", s0)
	}

	if len(reports) != 2 {
		t.Fatalf("want 2 reports, got %d", len(reports))
	}
	r := reports[0]
	if r.Step != "impute_mean" || r.ID == "" {
		t.Fatalf("report %+v", r)
	}
	if r.NullsBefore != 2 || r.NullsAfter != 1 || r.NullsFilled() != 1 || r.RowsRemoved() != 0 {
		t.Fatalf("counts %+v", r)
	}
	if reports[1].ID == r.ID {
		t.Fatal("report ids must differ")
	}
	if got := p.Steps(); len(got) != 2 || got[1] != "trim" {
		t.Fatalf("Steps %v", got)
	}
}

type failing struct{}

func (failing) Name() string { return "boom" }
func (failing) Apply(context.Context, *ds.Frame) (*ds.Frame, error) {
	return nil, errors.New("exploded")
}

func TestPipelineStopsOnError(t *testing.T) {
	p := ds.NewPipeline().Add(&std.Trim{}).Add(failing{}).Add(&std.Lower{})
	_, reports, err := p.RunReport(context.Background(), frame())
	if err == nil || err.Error() != "boom: exploded" {
		t.Fatalf("err = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("completed steps = %d", len(reports))
	}
}

func TestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ds.NewPipeline().Add(&std.Trim{}).Run(ctx, frame()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type chunks struct{ frames []*ds.Frame }

func (c *chunks) Next() (*ds.Frame, error) {
	if len(c.frames) == 0 {
		return nil, io.EOF
	}
	f := c.frames[0]
	c.frames = c.frames[1:]
	return f, nil
}

type collect struct {
	rows   int
	closed bool
}

func (c *collect) Write(f *ds.Frame) error { c.rows += f.Rows(); return nil }
func (c *collect) Close() error            { c.closed = true; return nil }

func TestRunStream(t *testing.T) {
	src := &chunks{frames: []*ds.Frame{frame(), frame(), frame()}}
	sink := &collect{}
	n, err := ds.RunStream(context.Background(), ds.NewPipeline().Add(&imp.DropRows{}), src, sink)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || sink.rows != 3 || !sink.closed {
		t.Fatalf("rows=%d sink=%+v", n, sink)
	}
}
