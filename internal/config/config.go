// SPDX-License-Identifier: Apache-2.0

// Package config loads restoration settings from a YAML file, validates them
// against an embedded CUE schema and overlays explicitly set CLI flags.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/goccy/go-yaml"

	"github.com/filesofpix/restoration/internal/restore"
	"github.com/filesofpix/restoration/internal/restore/lines"
)

// EnvFile names the environment variable consulted when no --config flag is given.
const EnvFile = "RESTORATION_CONFIG"

//go:embed schema.cue
var schemaSource string

// ErrInvalid wraps every load or validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Strict rejects genuine rows whose width differs from the first row.
	Strict   bool   `yaml:"strict" json:"strict,omitempty"`
	LogLevel string `yaml:"log_level" json:"log_level,omitempty"`
	// Output is the raster destination path; empty means standard output.
	Output     string `yaml:"output" json:"output,omitempty"`
	IndexHint  int    `yaml:"index_hint" json:"index_hint,omitempty"`
	LineBuffer int    `yaml:"line_buffer" json:"line_buffer,omitempty"`
}

// Overrides carries CLI values together with whether each was set explicitly,
// so that e.g. --strict=false can override strict: true from the file.
type Overrides struct {
	Strict      bool
	StrictSet   bool
	LogLevel    string
	LogLevelSet bool
	Output      string
	OutputSet   bool
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogLevel:   "warn",
		IndexHint:  restore.DefaultIndexHint,
		LineBuffer: lines.DefaultBufferSize,
	}
}

// Load merges defaults, the config file (path, or $RESTORATION_CONFIG when
// path is empty) and overrides, then validates the result.
func Load(path string, ov Overrides) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg = apply(cfg, ov)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Keys absent from data keep cfg's values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate checks cfg against the CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(cfg))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

func apply(cfg Config, ov Overrides) Config {
	if ov.StrictSet {
		cfg.Strict = ov.Strict
	}
	if ov.LogLevelSet {
		cfg.LogLevel = ov.LogLevel
	}
	if ov.OutputSet {
		cfg.Output = ov.Output
	}
	return cfg
}

// Level maps LogLevel to a slog level. Unknown values fall back to warn.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// PipelineOptions translates the configuration into restore options.
func (c Config) PipelineOptions(logger *slog.Logger) []restore.Option {
	return []restore.Option{
		restore.WithStrict(c.Strict),
		restore.WithIndexHint(c.IndexHint),
		restore.WithLineBuffer(c.LineBuffer),
		restore.WithLogger(logger),
	}
}
