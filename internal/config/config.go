// Package config loads runtime configuration for the scopelight CLI
// from TOML files.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dhollis/scopelight/internal/highlight/bracket"
	"github.com/dhollis/scopelight/internal/highlight/core"
)

// Config holds the CLI's runtime settings.
type Config struct {
	// Theme is the name of the theme to highlight with.
	Theme string `toml:"theme"`

	// GrammarDir is the directory holding grammar JSON files.
	GrammarDir string `toml:"grammar_dir"`

	// ThemeDir is the directory holding theme JSON files.
	ThemeDir string `toml:"theme_dir"`

	// BracketPalette overrides the rotating bracket colors, as hex
	// strings.
	BracketPalette []string `toml:"bracket_palette"`

	// BracketErrorColor overrides the unmatched-bracket color.
	BracketErrorColor string `toml:"bracket_error_color"`
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads configuration from path. A missing file is not an error;
// it yields the zero config so every setting falls back to a default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes TOML configuration data.
func Parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	return &cfg, nil
}

// BracketOverlay builds the bracket overlay from the configured
// palette, falling back to the defaults for anything unset.
func (c *Config) BracketOverlay() (*bracket.Overlay, error) {
	var palette []core.Style
	for _, hex := range c.BracketPalette {
		color, err := core.ColorFromHex(hex)
		if err != nil {
			return nil, fmt.Errorf("bracket_palette: %w", err)
		}
		palette = append(palette, core.NewStyle(color))
	}

	errStyle := bracket.ErrorStyle()
	if c.BracketErrorColor != "" {
		color, err := core.ColorFromHex(c.BracketErrorColor)
		if err != nil {
			return nil, fmt.Errorf("bracket_error_color: %w", err)
		}
		errStyle = core.NewStyle(color).Bold()
	}

	return bracket.NewWithPalette(palette, errStyle), nil
}
