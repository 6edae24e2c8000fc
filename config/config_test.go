package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coreos/pkg/capnslog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.IsLenientStrings())
	assert.False(t, cfg.Saturates())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, capnslog.WARNING, level)
}

func TestNilConfig(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.IsLenientStrings())
	assert.False(t, cfg.Saturates())
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, capnslog.WARNING, level)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "basic.yaml", "lenient_strings: true\noverflow: saturate\nlog_level: debug\ncolor: never\n"},
		{"yml", "basic.yml", "lenient_strings: true\noverflow: saturate\nlog_level: DEBUG\ncolor: never\n"},
		{"toml", "basic.toml", "lenient_strings = true\noverflow = \"saturate\"\nlog_level = \"debug\"\ncolor = \"never\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.True(t, cfg.IsLenientStrings())
			assert.True(t, cfg.Saturates())
			assert.Equal(t, ColorNever, cfg.Color)

			level, err := cfg.Level()
			require.NoError(t, err)
			assert.Equal(t, capnslog.DEBUG, level)
		})
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "basic.yaml", "lenient_strings: true\n"))
	require.NoError(t, err)
	assert.Equal(t, OverflowError, cfg.Overflow)
	assert.Equal(t, ColorAuto, cfg.Color)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad overflow", "basic.yaml", "overflow: wrap\n"},
		{"bad color", "basic.toml", "color = \"sometimes\"\n"},
		{"bad level", "basic.yaml", "log_level: loud\n"},
		{"unknown key", "basic.yaml", "strict: true\n"},
		{"unknown extension", "basic.json", "{}"},
		{"malformed", "basic.toml", "overflow = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
