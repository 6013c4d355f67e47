// Package core provides shared value types for the highlight subsystem.
// This package breaks import cycles between the tokenizer, theme, and
// overlay packages.
package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a true-color (RGB) value.
type Color struct {
	R, G, B uint8
	// Default indicates this is the renderer's default color.
	Default bool
}

// ColorDefault represents the renderer's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses a color from a hex string like "#RRGGBB".
// Short forms ("#RGB") are accepted as well.
func ColorFromHex(hex string) (Color, error) {
	if len(hex) == 4 && hex[0] == '#' {
		hex = fmt.Sprintf("#%c%c%c%c%c%c", hex[1], hex[1], hex[2], hex[2], hex[3], hex[3])
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// IsDefault returns true if this is the default/unset color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Hex returns the color as a "#rrggbb" string. The default color
// renders as an empty string.
func (c Color) Hex() string {
	if c.Default {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
