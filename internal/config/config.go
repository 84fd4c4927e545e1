// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the run configuration from an INI or YAML file,
// overlaid with PDF_CONVERT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/pdiddy/pdf-convert/internal/logging"
	"github.com/pdiddy/pdf-convert/pkg/types"
)

const (
	// DefaultFileName is the config file looked up next to the executable.
	DefaultFileName = "config.ini"

	// EnvPrefix prefixes environment overrides, e.g. PDF_CONVERT_IMAGE_DPI.
	EnvPrefix = "PDF_CONVERT"

	defaultQuality      = 75
	defaultPopplerImage = "minidocks/poppler:latest"
)

// ErrMissingKey reports a required key that is absent from both the file
// and the environment.
var ErrMissingKey = errors.New("required key not set")

// Error is returned for any configuration problem. It is fatal at startup.
type Error struct {
	// Key is the dotted section.key name, empty for file-level problems.
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Source is a read-only view over the merged key space.
type Source struct {
	v    *viper.Viper
	path string
}

// Open reads the file at path. Files ending in .yaml or .yml are decoded as
// YAML; everything else is parsed as INI.
func Open(path string) (*Source, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Err: fmt.Errorf("reading %s: %w", path, err)}
		}
	default:
		values, err := readINI(path)
		if err != nil {
			return nil, &Error{Err: err}
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, &Error{Err: fmt.Errorf("merging %s: %w", path, err)}
		}
	}

	return &Source{v: v, path: path}, nil
}

// readINI flattens the sections of an INI file into nested maps. Keys of
// the DEFAULT section apply to every other section unless overridden.
func readINI(path string) (map[string]any, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// With Insensitive set the parsed [DEFAULT] keeps its upper-case name
	// while f.Section(ini.DefaultSection) looks up "default", so the
	// section is matched by name here.
	defaults := map[string]string{}
	var sections []*ini.Section
	for _, sec := range f.Sections() {
		if strings.EqualFold(sec.Name(), ini.DefaultSection) {
			for _, k := range sec.Keys() {
				defaults[k.Name()] = k.String()
			}
			continue
		}
		sections = append(sections, sec)
	}

	out := make(map[string]any, len(sections))
	for _, sec := range sections {
		keys := make(map[string]any, len(defaults)+len(sec.Keys()))
		for k, val := range defaults {
			keys[k] = val
		}
		for _, k := range sec.Keys() {
			keys[k.Name()] = k.String()
		}
		out[sec.Name()] = keys
	}
	return out, nil
}

// Path returns the file the source was read from.
func (s *Source) Path() string { return s.path }

// Has reports whether section.key is set in the file or the environment.
func (s *Source) Has(section, key string) bool {
	return s.v.IsSet(dotted(section, key))
}

// GetString returns section.key with surrounding whitespace removed. When
// the key is absent the first fallback is returned, or ErrMissingKey when
// no fallback is given.
func (s *Source) GetString(section, key string, fallback ...string) (string, error) {
	k := dotted(section, key)
	if !s.v.IsSet(k) {
		if len(fallback) > 0 {
			return fallback[0], nil
		}
		return "", &Error{Key: k, Err: ErrMissingKey}
	}
	val, err := cast.ToStringE(s.v.Get(k))
	if err != nil {
		return "", &Error{Key: k, Err: err}
	}
	return strings.TrimSpace(val), nil
}

// GetInt returns section.key as an integer. The key is required.
func (s *Source) GetInt(section, key string) (int, error) {
	k := dotted(section, key)
	if !s.v.IsSet(k) {
		return 0, &Error{Key: k, Err: ErrMissingKey}
	}
	raw := s.v.Get(k)
	if str, ok := raw.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return 0, &Error{Key: k, Err: fmt.Errorf("not an integer: %q", str)}
		}
		return n, nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, &Error{Key: k, Err: err}
	}
	return n, nil
}

// GetBool returns section.key as a boolean. Strings accept 1/yes/true/on
// and 0/no/false/off in any case.
func (s *Source) GetBool(section, key string, fallback ...bool) (bool, error) {
	k := dotted(section, key)
	if !s.v.IsSet(k) {
		if len(fallback) > 0 {
			return fallback[0], nil
		}
		return false, &Error{Key: k, Err: ErrMissingKey}
	}
	raw := s.v.Get(k)
	if str, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "1", "yes", "true", "on":
			return true, nil
		case "0", "no", "false", "off":
			return false, nil
		}
		return false, &Error{Key: k, Err: fmt.Errorf("not a boolean: %q", str)}
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return false, &Error{Key: k, Err: err}
	}
	return b, nil
}

// Load opens path and builds the run configuration from it.
func Load(path string) (types.Config, error) {
	src, err := Open(path)
	if err != nil {
		return types.Config{}, err
	}
	return src.Config()
}

// Config validates the source and returns the typed configuration. A blank
// logs path resolves to the program directory.
func (s *Source) Config() (types.Config, error) {
	var (
		cfg types.Config
		err error
	)

	if cfg.Paths.Source, err = s.GetString("paths", "source"); err != nil {
		return types.Config{}, err
	}
	if cfg.Paths.Target, err = s.GetString("paths", "target"); err != nil {
		return types.Config{}, err
	}
	if cfg.Paths.Logs, err = s.GetString("paths", "logs", ""); err != nil {
		return types.Config{}, err
	}
	if cfg.Paths.Logs == "" {
		cfg.Paths.Logs = ProgramDir()
	}
	if cfg.Paths.FlatTarget, err = s.GetBool("paths", "flat_target", false); err != nil {
		return types.Config{}, err
	}
	if cfg.Paths.Recursive, err = s.GetBool("paths", "recursive", true); err != nil {
		return types.Config{}, err
	}

	if cfg.Image.DPI, err = s.GetInt("image", "dpi"); err != nil {
		return types.Config{}, err
	}
	if cfg.Image.DPI <= 0 {
		return types.Config{}, &Error{Key: "image.dpi", Err: fmt.Errorf("must be positive, got %d", cfg.Image.DPI)}
	}

	meta, err := s.GetString("image", "meta", "")
	if err != nil {
		return types.Config{}, err
	}
	cfg.Image.Meta = strings.TrimPrefix(meta, ".")

	cfg.Image.Quality = defaultQuality
	if s.Has("image", "quality") {
		if cfg.Image.Quality, err = s.GetInt("image", "quality"); err != nil {
			return types.Config{}, err
		}
		if cfg.Image.Quality < 1 || cfg.Image.Quality > 100 {
			return types.Config{}, &Error{Key: "image.quality", Err: fmt.Errorf("must be between 1 and 100, got %d", cfg.Image.Quality)}
		}
	}

	renderer, err := s.GetString("image", "renderer", string(types.RendererFitz))
	if err != nil {
		return types.Config{}, err
	}
	switch kind := types.RendererKind(strings.ToLower(renderer)); kind {
	case types.RendererFitz, types.RendererPdftoppm:
		cfg.Image.Renderer = kind
	default:
		return types.Config{}, &Error{Key: "image.renderer", Err: fmt.Errorf("unknown renderer %q (want fitz or pdftoppm)", renderer)}
	}

	if cfg.Image.Container, err = s.GetBool("image", "container", false); err != nil {
		return types.Config{}, err
	}
	if cfg.Image.PopplerImage, err = s.GetString("image", "poppler_image", defaultPopplerImage); err != nil {
		return types.Config{}, err
	}

	if cfg.Ledger.Path, err = s.GetString("ledger", "path", ""); err != nil {
		return types.Config{}, err
	}

	level, err := s.GetString("log", "level", "info")
	if err != nil {
		return types.Config{}, err
	}
	if _, err := logging.ParseLevel(level); err != nil {
		return types.Config{}, &Error{Key: "log.level", Err: err}
	}
	cfg.Log.Level = strings.ToLower(level)

	return cfg, nil
}

// DefaultPath returns config.ini in the program directory.
func DefaultPath() string {
	return filepath.Join(ProgramDir(), DefaultFileName)
}

// ProgramDir returns the directory holding the running executable, or the
// working directory when it cannot be determined.
func ProgramDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func dotted(section, key string) string {
	return strings.ToLower(section) + "." + strings.ToLower(key)
}
