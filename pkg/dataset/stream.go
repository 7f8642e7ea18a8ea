package dataset

import (
	"context"
	"errors"
	"io"
)

// ChunkSource yields frames in chunks until io.EOF.
type ChunkSource interface {
	Next() (*Frame, error)
}

// ChunkSink consumes frames, typically writing them out.
type ChunkSink interface {
	Write(*Frame) error
	Close() error
}

// RunStream pulls chunks from src, applies the pipeline, and writes to sink.
// It returns the number of rows written.
func RunStream(ctx context.Context, p *Pipeline, src ChunkSource, sink ChunkSink) (int, error) {
	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			_ = sink.Close()
			return rows, err
		}
		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			return rows, sink.Close()
		}
		if err != nil {
			_ = sink.Close()
			return rows, err
		}
		out, err := p.Run(ctx, f)
		if err != nil {
			_ = sink.Close()
			return rows, err
		}
		if err := sink.Write(out); err != nil {
			_ = sink.Close()
			return rows, err
		}
		rows += out.Rows()
	}
}
