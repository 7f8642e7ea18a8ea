package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transform is a mutation applied to a Frame. Transforms may modify f in
// place and return it, or return a new frame when rows are removed.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// StepReport summarizes the effect of one pipeline step.
type StepReport struct {
	ID          string        `json:"id"`
	Step        string        `json:"step"`
	RowsBefore  int           `json:"rows_before"`
	RowsAfter   int           `json:"rows_after"`
	NullsBefore int           `json:"nulls_before"`
	NullsAfter  int           `json:"nulls_after"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// RowsRemoved is the number of rows the step dropped.
func (r StepReport) RowsRemoved() int { return r.RowsBefore - r.RowsAfter }

// NullsFilled is the net number of missing cells the step resolved.
func (r StepReport) NullsFilled() int { return r.NullsBefore - r.NullsAfter }

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps  []Transform
	logger *zap.Logger
}

func NewPipeline() *Pipeline { return &Pipeline{logger: zap.NewNop()} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// WithLogger sets the logger used for per-step lines.
func (p *Pipeline) WithLogger(l *zap.Logger) *Pipeline {
	if l != nil {
		p.logger = l
	}
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, t := range p.steps {
		out[i] = t.Name()
	}
	return out
}

func (p *Pipeline) Len() int { return len(p.steps) }

func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	out, _, err := p.RunReport(ctx, f)
	return out, err
}

// RunReport runs every step and returns one report per completed step.
func (p *Pipeline) RunReport(ctx context.Context, f *Frame) (*Frame, []StepReport, error) {
	reports := make([]StepReport, 0, len(p.steps))
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, reports, err
		}
		rep := StepReport{ID: uuid.NewString(), Step: t.Name(), RowsBefore: cur.Rows(), NullsBefore: cur.NullCount()}
		start := time.Now()
		next, err := t.Apply(ctx, cur)
		if err != nil {
			p.logger.Error("step failed", zap.String("step", t.Name()), zap.String("step_id", rep.ID), zap.Error(err))
			return nil, reports, fmt.Errorf("%s: %w", t.Name(), err)
		}
		cur = next
		rep.Elapsed = time.Since(start)
		rep.RowsAfter = cur.Rows()
		rep.NullsAfter = cur.NullCount()
		p.logger.Info("step applied",
			zap.String("step", rep.Step),
			zap.String("step_id", rep.ID),
			zap.Int("rows_before", rep.RowsBefore),
			zap.Int("rows_after", rep.RowsAfter),
			zap.Int("nulls_filled", rep.NullsFilled()),
			zap.Duration("elapsed", rep.Elapsed))
		reports = append(reports, rep)
	}
	return cur, reports, nil
}
