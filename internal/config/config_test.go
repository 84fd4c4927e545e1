// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-convert/pkg/types"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fullINI = `
[paths]
source = /data/in
target = /data/out
logs = /var/log/convert
flat_target = yes

[image]
dpi = 150
meta = .csv
quality = 90
renderer = PDFTOPPM
container = on

[ledger]
path = /var/lib/convert/ledger.db

[log]
level = DEBUG
`

func TestLoad_FullINI(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.ini", fullINI))
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.Paths.Source)
	assert.Equal(t, "/data/out", cfg.Paths.Target)
	assert.Equal(t, "/var/log/convert", cfg.Paths.Logs)
	assert.True(t, cfg.Paths.FlatTarget)
	assert.True(t, cfg.Paths.Recursive, "recursive defaults to true")
	assert.Equal(t, 150, cfg.Image.DPI)
	assert.Equal(t, "csv", cfg.Image.Meta, "leading dot is trimmed")
	assert.Equal(t, 90, cfg.Image.Quality)
	assert.Equal(t, types.RendererPdftoppm, cfg.Image.Renderer)
	assert.True(t, cfg.Image.Container)
	assert.Equal(t, defaultPopplerImage, cfg.Image.PopplerImage)
	assert.Equal(t, "/var/lib/convert/ledger.db", cfg.Ledger.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.MetadataEnabled())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.ini", `
[paths]
source = in
target = out
logs =

[image]
dpi = 200
`))
	require.NoError(t, err)

	assert.False(t, cfg.Paths.FlatTarget)
	assert.True(t, cfg.Paths.Recursive)
	assert.Equal(t, ProgramDir(), cfg.Paths.Logs, "blank logs resolves to the program directory")
	assert.Empty(t, cfg.Image.Meta)
	assert.False(t, cfg.MetadataEnabled())
	assert.Equal(t, defaultQuality, cfg.Image.Quality)
	assert.Equal(t, types.RendererFitz, cfg.Image.Renderer)
	assert.Empty(t, cfg.Ledger.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{
			name:    "missing source",
			content: "[paths]\ntarget = out\n[image]\ndpi = 150\n",
			wantKey: "paths.source",
		},
		{
			name:    "missing dpi",
			content: "[paths]\nsource = in\ntarget = out\n",
			wantKey: "image.dpi",
		},
		{
			name:    "dpi not an integer",
			content: "[paths]\nsource = in\ntarget = out\n[image]\ndpi = high\n",
			wantKey: "image.dpi",
		},
		{
			name:    "dpi not positive",
			content: "[paths]\nsource = in\ntarget = out\n[image]\ndpi = 0\n",
			wantKey: "image.dpi",
		},
		{
			name:    "flat_target not a boolean",
			content: "[paths]\nsource = in\ntarget = out\nflat_target = maybe\n[image]\ndpi = 150\n",
			wantKey: "paths.flat_target",
		},
		{
			name:    "quality out of range",
			content: "[paths]\nsource = in\ntarget = out\n[image]\ndpi = 150\nquality = 101\n",
			wantKey: "image.quality",
		},
		{
			name:    "unknown renderer",
			content: "[paths]\nsource = in\ntarget = out\n[image]\ndpi = 150\nrenderer = ghostscript\n",
			wantKey: "image.renderer",
		},
		{
			name:    "unknown log level",
			content: "[paths]\nsource = in\ntarget = out\n[image]\ndpi = 150\n[log]\nlevel = chatty\n",
			wantKey: "log.level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.ini", tt.content))
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "want *config.Error, got %T", err)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestLoad_MissingKeyWrapsSentinel(t *testing.T) {
	_, err := Load(writeConfig(t, "config.ini", "[paths]\nsource = in\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, cfgErr.Key)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("PDF_CONVERT_IMAGE_DPI", "300")
	t.Setenv("PDF_CONVERT_LEDGER_PATH", "/tmp/ledger.db")

	cfg, err := Load(writeConfig(t, "config.ini", "[paths]\nsource = in\ntarget = out\n[image]\ndpi = 150\n"))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Image.DPI)
	assert.Equal(t, "/tmp/ledger.db", cfg.Ledger.Path)
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", `
paths:
  source: in
  target: out
  recursive: false
image:
  dpi: 120
  meta: csv
`))
	require.NoError(t, err)
	assert.Equal(t, "in", cfg.Paths.Source)
	assert.False(t, cfg.Paths.Recursive)
	assert.Equal(t, 120, cfg.Image.DPI)
	assert.Equal(t, "csv", cfg.Image.Meta)
}

func TestLoad_DefaultSectionInherited(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.ini", `
[DEFAULT]
meta = csv

[paths]
source = in
target = out

[image]
dpi = 150
`))
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Image.Meta)
}

func TestReadINI_DefaultSection(t *testing.T) {
	path := writeConfig(t, "config.ini", `
[paths]
source = in
target = out

[DEFAULT]
dpi = 300
meta = csv

[image]
dpi = 150
`)
	values, err := readINI(path)
	require.NoError(t, err)

	assert.NotContains(t, values, "default")
	assert.NotContains(t, values, "DEFAULT")
	assert.Equal(t, map[string]any{"dpi": "150", "meta": "csv"}, values["image"])
	assert.Equal(t, map[string]any{"dpi": "300", "meta": "csv", "source": "in", "target": "out"}, values["paths"])

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.Image.DPI)
	assert.Equal(t, "csv", cfg.Image.Meta)
}

func TestLoad_DefaultSectionSuppliesRequiredKey(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.ini", `
[DEFAULT]
dpi = 200

[paths]
source = in
target = out

[image]
meta = csv
`))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Image.DPI)
}

func TestSource_Accessors(t *testing.T) {
	src, err := Open(writeConfig(t, "config.ini", `
[Section]
Name =  padded value
count = 0150
on = TRUE
off = Off
`))
	require.NoError(t, err)

	s, err := src.GetString("section", "name")
	require.NoError(t, err)
	assert.Equal(t, "padded value", s)

	s, err = src.GetString("section", "absent", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)

	n, err := src.GetInt("section", "count")
	require.NoError(t, err)
	assert.Equal(t, 150, n, "leading zeros are decimal")

	b, err := src.GetBool("section", "on")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = src.GetBool("section", "off")
	require.NoError(t, err)
	assert.False(t, b)

	b, err = src.GetBool("section", "absent", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = src.GetBool("section", "absent")
	assert.ErrorIs(t, err, ErrMissingKey)

	assert.True(t, src.Has("SECTION", "NAME"))
	assert.False(t, src.Has("section", "absent"))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultFileName, filepath.Base(DefaultPath()))
}
