// SPDX-License-Identifier: Apache-2.0

package restore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/filesofpix/restoration/internal/restore/lines"
)

// DefaultIndexHint sizes the fingerprint index when no hint is configured.
const DefaultIndexHint = 1000

type Pipeline struct {
	strict     bool
	indexHint  int
	lineBuffer int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStrict rejects rows whose width differs from the first row.
func WithStrict(strict bool) Option {
	return func(p *Pipeline) { p.strict = strict }
}

func WithIndexHint(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.indexHint = n
		}
	}
}

func WithLineBuffer(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.lineBuffer = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a Pipeline with the provided options.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		indexHint:  DefaultIndexHint,
		lineBuffer: lines.DefaultBufferSize,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunResult is the output of a successful pipeline run.
type RunResult struct {
	Width        int
	Height       int
	LinesRead    int
	GenuineLines int
	NoiseLines   int
	Fingerprints int
}

// Run classifies every line of src and writes the restored raster to dst.
// Nothing is written to dst unless classification succeeds and at least one
// genuine line was found.
func (p *Pipeline) Run(ctx context.Context, src io.Reader, dst io.Writer) (RunResult, error) {
	cls, err := p.classify(ctx, src)
	if err != nil {
		return RunResult{}, err
	}
	res := resultOf(cls)

	res.Width, res.Height, err = NewAssembler(p.strict, p.logger).Emit(dst, cls.Genuine)
	if err != nil {
		return res, err
	}
	p.logger.Info("raster restored",
		"width", res.Width, "height", res.Height,
		"lines", res.LinesRead, "genuine", res.GenuineLines, "noise", res.NoiseLines)
	return res, nil
}

// RunRaster is Run with the raster kept in memory instead of written out.
func (p *Pipeline) RunRaster(ctx context.Context, src io.Reader) (*Raster, RunResult, error) {
	cls, err := p.classify(ctx, src)
	if err != nil {
		return nil, RunResult{}, err
	}
	res := resultOf(cls)

	r, err := NewAssembler(p.strict, p.logger).Assemble(cls.Genuine)
	if err != nil {
		return nil, res, err
	}
	res.Width, res.Height = r.Width, r.Height
	return r, res, nil
}

func (p *Pipeline) classify(ctx context.Context, src io.Reader) (Classification, error) {
	lr := lines.NewReader(src, p.lineBuffer)
	c := NewClassifier(p.indexHint)
	for {
		if err := ctx.Err(); err != nil {
			return Classification{}, err
		}
		b, err := lr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Classification{}, fmt.Errorf("read line %d: %w", lr.Count()+1, err)
		}
		if c.Observe(Line(b)) {
			p.logger.Debug("fingerprint recurred", "line", lr.Count())
		}
	}
	cls := c.Finish()
	if len(cls.Genuine) == 0 {
		return cls, ErrNoGenuineLines
	}
	return cls, nil
}

func resultOf(cls Classification) RunResult {
	return RunResult{
		LinesRead:    cls.Seen,
		GenuineLines: len(cls.Genuine),
		NoiseLines:   cls.Seen - len(cls.Genuine),
		Fingerprints: cls.Fingerprints,
	}
}
