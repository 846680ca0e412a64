// Package config loads the optional startup TOML file that seeds the
// dump-renderer glyphs, row width, and a list of URIs to auto-open, in the
// style of beelog's config.go (a DefaultConfig/ValidateConfig pair backed
// by github.com/BurntSushi/toml).
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/rair-go/rair/env"
)

// Config is the parsed startup file.
type Config struct {
	RowWidth          int      `toml:"row_width"`
	NonPrintableGlyph string   `toml:"non_printable_glyph"`
	GapGlyph          string   `toml:"gap_glyph"`
	AutoOpen          []string `toml:"auto_open"`
}

// DefaultConfig returns the spec-mandated rendering defaults with no
// auto-opened sources.
func DefaultConfig() *Config {
	return &Config{
		RowWidth:          16,
		NonPrintableGlyph: ".",
		GapGlyph:          "#",
	}
}

// ValidateConfig rejects a Config whose glyphs or row width are unusable.
func (c *Config) ValidateConfig() error {
	if c.RowWidth <= 0 {
		return errors.Errorf("config: row_width must be positive, got %d", c.RowWidth)
	}
	if len(c.NonPrintableGlyph) != 1 {
		return errors.Errorf("config: non_printable_glyph must be exactly one ASCII byte, got %q", c.NonPrintableGlyph)
	}
	if len(c.GapGlyph) != 1 {
		return errors.Errorf("config: gap_glyph must be exactly one ASCII byte, got %q", c.GapGlyph)
	}
	return nil
}

// Load reads and validates the TOML file at path, falling back to
// DefaultConfig for any field the file omits.
func Load(path string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// EnvConfig adapts a Config to the env.Config interface the renderer and
// command table consume.
type EnvConfig struct{ c *Config }

// AsEnv wraps c as an env.Config.
func AsEnv(c *Config) env.Config { return &EnvConfig{c: c} }

func (e *EnvConfig) RowWidth() int           { return e.c.RowWidth }
func (e *EnvConfig) NonPrintableGlyph() byte { return []byte(e.c.NonPrintableGlyph)[0] }
func (e *EnvConfig) GapGlyph() byte          { return []byte(e.c.GapGlyph)[0] }
