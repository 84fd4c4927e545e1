// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report turns item results into log lines and prints the run
// summary.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/pdiddy/pdf-convert/pkg/types"
)

// Reporter logs every significant event of a run. Warnings and errors go
// only to the log; the console sees the final count.
type Reporter struct {
	log *slog.Logger
	out io.Writer
}

// New returns a reporter logging to log and printing the summary to out.
func New(log *slog.Logger, out io.Writer) *Reporter {
	return &Reporter{log: log, out: out}
}

// Start records the beginning of a run.
func (r *Reporter) Start(runID string, renderer types.RendererKind) {
	r.log.Info(fmt.Sprintf("Starting conversion process using %s.", renderer), "run", runID)
}

// ScanError records a directory that could not be read.
func (r *Reporter) ScanError(err error) {
	r.log.Error(fmt.Sprintf("Scan error: %v", err))
}

// Interrupted records a run stopped before the source was exhausted.
func (r *Reporter) Interrupted(cause error) {
	r.log.Warn(fmt.Sprintf("Conversion process interrupted: %v", cause))
}

// RecordError records a failure to persist the run to the ledger.
func (r *Reporter) RecordError(err error) {
	r.log.Error(fmt.Sprintf("Ledger error: %v", err))
}

// Item logs the events of one processed item in the order they happened.
func (r *Reporter) Item(res types.ItemResult) {
	it := res.Item

	switch res.Outcome {
	case types.OutcomeMissingMetadata:
		r.log.Warn(fmt.Sprintf("Meta file not found for %s. Skipping processing.", it.RelPath))
		return
	case types.OutcomeConversionFailed:
		r.log.Error(fmt.Sprintf("Conversion error for %s to JPG: %v", it.RelPath, res.Err))
		return
	}

	r.log.Info(fmt.Sprintf("Converted to JPG: %s.jpg", filepath.Join(it.RelDir, it.BaseName)))
	if res.Pages > 1 {
		r.log.Debug(fmt.Sprintf("Only page 1 of %d rendered for %s", res.Pages, it.RelPath))
	}

	if res.Outcome == types.OutcomeMoveFailed {
		r.log.Error(fmt.Sprintf("Error moving PDF: %s: %v", filepath.Join(it.RelDir, it.BaseName), res.Err))
		return
	}
	r.log.Info(fmt.Sprintf("Moved PDF: %s to %s", it.RelPath, res.TargetDir))

	switch {
	case res.Outcome == types.OutcomeMetadataMoveFailed:
		r.log.Error(fmt.Sprintf("Error moving meta file: %s: %v", filepath.Join(it.RelDir, it.BaseName), res.Err))
	case res.MetaDest != "":
		r.log.Info(fmt.Sprintf("Moved meta file: %s to %s", filepath.Join(it.RelDir, filepath.Base(res.MetaDest)), res.TargetDir))
	}
}

// Finish logs the closing lines and prints the one-line summary.
func (r *Reporter) Finish(s types.RunSummary) {
	secs := s.Elapsed.Seconds()
	r.log.Info(fmt.Sprintf("Execution time: %.2f seconds", secs))
	r.log.Info(fmt.Sprintf("End of conversion process. %d files processed.", s.Processed),
		"skipped", s.Skipped, "failed", s.Failed)
	fmt.Fprintf(r.out, "Conversion process finished. %d files processed in %.2f seconds.\n", s.Processed, secs)
}
