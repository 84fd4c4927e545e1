// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-convert/pkg/types"
)

// Entry is one item of the exported report.
type Entry struct {
	Source   string        `yaml:"source"`
	Outcome  types.Outcome `yaml:"outcome"`
	JPEG     string        `yaml:"jpeg,omitempty"`
	PDF      string        `yaml:"pdf,omitempty"`
	Metadata string        `yaml:"metadata,omitempty"`
	Pages    int           `yaml:"pages,omitempty"`
	Error    string        `yaml:"error,omitempty"`
}

// Document is the exported run report.
type Document struct {
	RunID          string  `yaml:"run_id"`
	StartedAt      string  `yaml:"started_at"`
	ElapsedSeconds float64 `yaml:"elapsed_seconds"`
	Processed      int     `yaml:"processed"`
	Skipped        int     `yaml:"skipped"`
	Failed         int     `yaml:"failed"`
	Items          []Entry `yaml:"items"`
}

// NewDocument converts a run summary into its exported form.
func NewDocument(s types.RunSummary) Document {
	doc := Document{
		RunID:          s.RunID,
		StartedAt:      s.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		ElapsedSeconds: s.Elapsed.Seconds(),
		Processed:      s.Processed,
		Skipped:        s.Skipped,
		Failed:         s.Failed,
		Items:          make([]Entry, len(s.Results)),
	}
	for i, r := range s.Results {
		e := Entry{
			Source:   r.Item.RelPath,
			Outcome:  r.Outcome,
			JPEG:     r.JPEGPath,
			PDF:      r.PDFDest,
			Metadata: r.MetaDest,
			Pages:    r.Pages,
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		doc.Items[i] = e
	}
	return doc
}

// WriteYAML writes the run summary to path, creating parent directories.
func WriteYAML(path string, s types.RunSummary) error {
	data, err := yaml.Marshal(NewDocument(s))
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
