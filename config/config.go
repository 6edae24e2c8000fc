package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type OverflowPolicy string

const (
	OverflowError    OverflowPolicy = "error"
	OverflowSaturate OverflowPolicy = "saturate"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds the front end settings. A nil *Config behaves like Default().
type Config struct {
	// LenientStrings closes an unterminated string at end of input instead of failing.
	LenientStrings bool           `yaml:"lenient_strings" toml:"lenient_strings"`
	Overflow       OverflowPolicy `yaml:"overflow" toml:"overflow"`
	LogLevel       string         `yaml:"log_level" toml:"log_level"`
	Color          ColorMode      `yaml:"color" toml:"color"`
}

func Default() *Config {
	return &Config{
		Overflow: OverflowError,
		LogLevel: "WARNING",
		Color:    ColorAuto,
	}
}

func (c *Config) IsLenientStrings() bool {
	return c != nil && c.LenientStrings
}

func (c *Config) Saturates() bool {
	return c != nil && c.Overflow == OverflowSaturate
}

// Level returns the capnslog level named by LogLevel.
func (c *Config) Level() (capnslog.LogLevel, error) {
	if c == nil || c.LogLevel == "" {
		return capnslog.WARNING, nil
	}
	return capnslog.ParseLevel(strings.ToUpper(c.LogLevel))
}

func (c *Config) Validate() error {
	switch c.Overflow {
	case OverflowError, OverflowSaturate:
	default:
		return errors.Errorf("overflow must be %q or %q, got %q", OverflowError, OverflowSaturate, c.Overflow)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("color must be one of auto, always, never, got %q", c.Color)
	}
	if _, err := c.Level(); err != nil {
		return errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return nil
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, errors.Errorf("unknown config format for %s, expected .yaml, .yml or .toml", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}
