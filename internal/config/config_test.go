// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesofpix/restoration/internal/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restoration.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv(config.EnvFile, "")
	cfg, err := config.Load("", config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "strict: true\nlog_level: debug\noutput: out.pgm\nindex_hint: 64\nline_buffer: 4096\n")
	cfg, err := config.Load(path, config.Overrides{})
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out.pgm", cfg.Output)
	assert.Equal(t, 64, cfg.IndexHint)
	assert.Equal(t, 4096, cfg.LineBuffer)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "strict: true\n")
	cfg, err := config.Load(path, config.Overrides{})
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, config.Defaults().LineBuffer, cfg.LineBuffer)
	assert.Equal(t, config.Defaults().LogLevel, cfg.LogLevel)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv(config.EnvFile, writeFile(t, "log_level: info\n"))
	cfg, err := config.Load("", config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_OverridesWin(t *testing.T) {
	path := writeFile(t, "strict: true\nlog_level: debug\n")
	cfg, err := config.Load(path, config.Overrides{
		Strict:    false,
		StrictSet: true,
		Output:    "x.pgm",
		OutputSet: true,
	})
	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "debug", cfg.LogLevel, "unset override leaves file value")
	assert.Equal(t, "x.pgm", cfg.Output)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{name: "unknown log level", content: "log_level: verbose\n", errContains: "log_level"},
		{name: "negative index hint", content: "index_hint: -5\n", errContains: "index_hint"},
		{name: "tiny line buffer", content: "line_buffer: 8\n", errContains: "line_buffer"},
		{name: "unknown key", content: "colour: blue\n", errContains: "colour"},
		{name: "malformed yaml", content: "strict: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.content), config.Overrides{})
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalid)
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), config.Overrides{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestValidate_InvalidOverride(t *testing.T) {
	t.Setenv(config.EnvFile, "")
	_, err := config.Load("", config.Overrides{LogLevel: "loud", LogLevelSet: true})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, config.Config{LogLevel: "debug"}.Level())
	assert.Equal(t, slog.LevelInfo, config.Config{LogLevel: "INFO"}.Level())
	assert.Equal(t, slog.LevelError, config.Config{LogLevel: "error"}.Level())
	assert.Equal(t, slog.LevelWarn, config.Config{}.Level())
}

func TestConfig_PipelineOptions(t *testing.T) {
	opts := config.Defaults().PipelineOptions(nil)
	assert.Len(t, opts, 4)
}
