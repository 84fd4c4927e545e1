// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shared between the conversion stages.
package types

// RendererKind identifies the PDF rasterization backend.
type RendererKind string

const (
	RendererFitz     RendererKind = "fitz"
	RendererPdftoppm RendererKind = "pdftoppm"
)

// PathsConfig holds the [paths] section.
type PathsConfig struct {
	// Source is the directory scanned for PDF files.
	Source string `json:"source" yaml:"source"`

	// Target receives the JPEGs and the relocated originals.
	Target string `json:"target" yaml:"target"`

	// Logs is the directory holding pdf_conversion.log. Blank means the
	// program directory.
	Logs string `json:"logs" yaml:"logs"`

	// FlatTarget places every output directly in Target instead of
	// mirroring the source subdirectories.
	FlatTarget bool `json:"flat_target" yaml:"flat_target"`

	// Recursive walks all subdirectories of Source. When false only the
	// immediate contents of Source are scanned.
	Recursive bool `json:"recursive" yaml:"recursive"`
}

// ImageConfig holds the [image] section.
type ImageConfig struct {
	// DPI is the rasterization resolution.
	DPI int `json:"dpi" yaml:"dpi"`

	// Meta is the companion file extension (e.g. "csv"). Empty disables
	// the companion check.
	Meta string `json:"meta" yaml:"meta"`

	// Quality is the JPEG encoder quality, 1-100 (default 75).
	Quality int `json:"quality" yaml:"quality"`

	// Renderer selects the rasterization backend (default fitz).
	Renderer RendererKind `json:"renderer" yaml:"renderer"`

	// Container runs the pdftoppm backend inside docker or podman.
	Container bool `json:"container" yaml:"container"`

	// PopplerImage is the container image providing pdftoppm.
	PopplerImage string `json:"poppler_image" yaml:"poppler_image"`
}

// LedgerConfig holds the [ledger] section.
type LedgerConfig struct {
	// Path is the SQLite run ledger file. Blank disables the ledger.
	Path string `json:"path" yaml:"path"`
}

// LogConfig holds the [log] section.
type LogConfig struct {
	// Level is the minimum level written to the log file: debug, info,
	// warning or error (default info).
	Level string `json:"level" yaml:"level"`
}

// Config is the complete, immutable run configuration.
type Config struct {
	Paths  PathsConfig  `json:"paths" yaml:"paths"`
	Image  ImageConfig  `json:"image" yaml:"image"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// MetadataEnabled reports whether items require a companion file.
func (c Config) MetadataEnabled() bool {
	return c.Image.Meta != ""
}
