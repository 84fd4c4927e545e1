// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

// WorkItem is one discovered PDF on its single pass through the pipeline.
type WorkItem struct {
	// Path is the PDF location on disk.
	Path string `json:"path" yaml:"path"`

	// RelPath is Path relative to the source directory (e.g. "sub/a.pdf").
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// RelDir is the directory part of RelPath, "." for the source root.
	RelDir string `json:"rel_dir" yaml:"rel_dir"`

	// Name is the file name including extension.
	Name string `json:"name" yaml:"name"`

	// BaseName is Name without its extension.
	BaseName string `json:"base_name" yaml:"base_name"`

	// MetaPath is the expected companion file. Empty when the companion
	// check is disabled.
	MetaPath string `json:"meta_path,omitempty" yaml:"meta_path,omitempty"`
}

// Outcome is the final state of a WorkItem after processing.
type Outcome string

const (
	OutcomeProcessed          Outcome = "processed"
	OutcomeMissingMetadata    Outcome = "skipped_missing_metadata"
	OutcomeConversionFailed   Outcome = "conversion_failed"
	OutcomeMoveFailed         Outcome = "move_failed"
	OutcomeMetadataMoveFailed Outcome = "metadata_move_failed"
)

// Failed reports whether the outcome is an error rather than a success or skip.
func (o Outcome) Failed() bool {
	switch o {
	case OutcomeConversionFailed, OutcomeMoveFailed, OutcomeMetadataMoveFailed:
		return true
	}
	return false
}

// ItemResult records what happened to one WorkItem.
type ItemResult struct {
	Item    WorkItem `json:"item" yaml:"item"`
	Outcome Outcome  `json:"outcome" yaml:"outcome"`

	// JPEGPath is the written image, set once conversion succeeded.
	JPEGPath string `json:"jpeg_path,omitempty" yaml:"jpeg_path,omitempty"`

	// PDFDest is where the original PDF was moved to.
	PDFDest string `json:"pdf_dest,omitempty" yaml:"pdf_dest,omitempty"`

	// MetaDest is where the companion file was moved to.
	MetaDest string `json:"meta_dest,omitempty" yaml:"meta_dest,omitempty"`

	// TargetDir is the directory the item's outputs go to.
	TargetDir string `json:"target_dir,omitempty" yaml:"target_dir,omitempty"`

	// Pages is the page count reported by the renderer, 0 when unknown.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Err is the failure behind a failed outcome.
	Err error `json:"-" yaml:"-"`
}

// RunSummary aggregates one conversion run.
type RunSummary struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	Processed int           `json:"processed" yaml:"processed"`
	Skipped   int           `json:"skipped" yaml:"skipped"`
	Failed    int           `json:"failed" yaml:"failed"`
	Results   []ItemResult  `json:"results" yaml:"results"`
}

// Total returns the number of items seen during the run.
func (s RunSummary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// HasFailures reports whether any item failed.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// Add folds one item result into the summary.
func (s *RunSummary) Add(r ItemResult) {
	switch {
	case r.Outcome == OutcomeProcessed:
		s.Processed++
	case r.Outcome.Failed():
		s.Failed++
	default:
		s.Skipped++
	}
	s.Results = append(s.Results, r)
}

// CompanionPath returns <dir of Path>/<BaseName>.<ext>.
func (w WorkItem) CompanionPath(ext string) string {
	return filepath.Join(filepath.Dir(w.Path), w.BaseName+"."+ext)
}
