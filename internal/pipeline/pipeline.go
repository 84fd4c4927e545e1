// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the scan, gate, convert and relocate stages over a
// source tree, one item at a time.
package pipeline

import (
	"context"
	"iter"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/pdf-convert/internal/convert"
	"github.com/pdiddy/pdf-convert/internal/gate"
	"github.com/pdiddy/pdf-convert/internal/relocate"
	"github.com/pdiddy/pdf-convert/internal/report"
	"github.com/pdiddy/pdf-convert/internal/scan"
	"github.com/pdiddy/pdf-convert/pkg/types"
)

// Recorder persists a finished run.
type Recorder interface {
	RecordRun(ctx context.Context, s types.RunSummary) error
}

// Option configures a Processor.
type Option func(*Processor)

// WithRecorder stores every finished run through r.
func WithRecorder(r Recorder) Option {
	return func(p *Processor) { p.recorder = r }
}

// Processor owns one run's configuration and collaborators.
type Processor struct {
	cfg       types.Config
	converter *convert.Converter
	reporter  *report.Reporter
	recorder  Recorder
	move      func(src, dstDir string) (string, error)
	newID     func() string
}

// New returns a processor for cfg.
func New(cfg types.Config, conv *convert.Converter, rep *report.Reporter, opts ...Option) *Processor {
	p := &Processor{
		cfg:       cfg,
		converter: conv,
		reporter:  rep,
		move:      relocate.Move,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TargetDir returns where an item's outputs go: the target root in flat
// mode, the mirrored relative directory otherwise.
func TargetDir(paths types.PathsConfig, item types.WorkItem) string {
	if paths.FlatTarget || item.RelDir == "." || item.RelDir == "" {
		return paths.Target
	}
	return filepath.Join(paths.Target, item.RelDir)
}

// Items scans the configured source. A target tree nested in the source is
// never scanned.
func (p *Processor) Items() iter.Seq2[types.WorkItem, error] {
	return scan.Walk(p.cfg.Paths.Source, scan.Options{
		Recursive: p.cfg.Paths.Recursive,
		Meta:      p.cfg.Image.Meta,
		Exclude:   []string{p.cfg.Paths.Target},
	})
}

// Process runs one item through gate, convert and relocate and reports
// what happened. It does not log. The PDF is moved only after its JPEG is
// written; the companion only after the PDF.
func (p *Processor) Process(item types.WorkItem) types.ItemResult {
	res := types.ItemResult{Item: item, TargetDir: TargetDir(p.cfg.Paths, item)}

	d := gate.Check(item, p.cfg.Image.Meta)
	if !d.Pass {
		res.Outcome = types.OutcomeMissingMetadata
		return res
	}

	out, err := p.converter.Convert(item.Path, res.TargetDir, item.BaseName)
	if err != nil {
		res.Outcome = types.OutcomeConversionFailed
		res.Err = err
		return res
	}
	res.JPEGPath = out.JPEGPath
	res.Pages = out.Pages

	if res.PDFDest, err = p.move(item.Path, res.TargetDir); err != nil {
		res.Outcome = types.OutcomeMoveFailed
		res.Err = err
		return res
	}

	if d.MetaPath != "" {
		if res.MetaDest, err = p.move(d.MetaPath, res.TargetDir); err != nil {
			res.Outcome = types.OutcomeMetadataMoveFailed
			res.Err = err
			return res
		}
	}

	res.Outcome = types.OutcomeProcessed
	return res
}

// Run processes the configured source tree.
func (p *Processor) Run(ctx context.Context) types.RunSummary {
	return p.RunItems(ctx, p.Items())
}

// RunItems processes items sequentially in sequence order. Cancelling ctx
// stops the run before the next item; the current item always completes.
func (p *Processor) RunItems(ctx context.Context, items iter.Seq2[types.WorkItem, error]) types.RunSummary {
	start := time.Now()
	sum := types.RunSummary{RunID: p.newID(), StartedAt: start}
	p.reporter.Start(sum.RunID, p.cfg.Image.Renderer)

	for item, err := range items {
		if ctx.Err() != nil {
			p.reporter.Interrupted(ctx.Err())
			break
		}
		if err != nil {
			p.reporter.ScanError(err)
			continue
		}
		res := p.Process(item)
		p.reporter.Item(res)
		sum.Add(res)
	}

	sum.Elapsed = time.Since(start)
	p.reporter.Finish(sum)

	if p.recorder != nil {
		if err := p.recorder.RecordRun(context.WithoutCancel(ctx), sum); err != nil {
			p.reporter.RecordError(err)
		}
	}
	return sum
}
