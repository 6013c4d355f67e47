// Package bracket implements the depth-colored bracket overlay. It
// post-processes the text the grammar left unclassified, assigning each
// bracket a color from a rotating palette by nesting depth and flagging
// unmatched closers with an error style. The depth counter is threaded
// across the whole document, not per gap.
package bracket

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dhollis/scopelight/internal/highlight/core"
)

// Overlay colors brackets in unclassified text by nesting depth.
type Overlay struct {
	palette  []core.Style
	errStyle core.Style
}

// New returns an overlay with the default palette.
func New() *Overlay {
	return &Overlay{
		palette:  DefaultPalette(),
		errStyle: ErrorStyle(),
	}
}

// NewWithPalette returns an overlay using the given rotating palette
// and error style. An empty palette falls back to the default.
func NewWithPalette(palette []core.Style, errStyle core.Style) *Overlay {
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	return &Overlay{palette: palette, errStyle: errStyle}
}

// DefaultPalette returns the built-in rotating depth colors.
func DefaultPalette() []core.Style {
	return []core.Style{
		core.NewStyle(core.ColorFromRGB(255, 215, 0)),   // gold
		core.NewStyle(core.ColorFromRGB(218, 112, 214)), // orchid
		core.NewStyle(core.ColorFromRGB(102, 217, 239)), // sky
		core.NewStyle(core.ColorFromRGB(166, 226, 46)),  // lime
		core.NewStyle(core.ColorFromRGB(253, 151, 31)),  // orange
		core.NewStyle(core.ColorFromRGB(174, 129, 255)), // violet
	}
}

// ErrorStyle returns the fixed style for unmatched closing brackets.
func ErrorStyle() core.Style {
	return core.NewStyle(core.ColorFromRGB(244, 71, 71)).Bold()
}

// Apply scans one unclassified gap and returns its styled fragments
// plus the updated depth counter. Scanning steps grapheme clusters, not
// bytes, so multi-unit characters stay whole inside plain runs. Openers
// are styled with the pre-increment depth, closers with the
// post-decrement depth, which gives a pair at the same nesting level
// the same color. A negative counter marks an unmatched closer: the
// closer gets the error style and the counter stays negative so later
// correctly matched pairs keep their original depth colors.
func (o *Overlay) Apply(gap string, depth int) ([]core.Fragment, int) {
	if gap == "" {
		return nil, depth
	}

	var frags []core.Fragment
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			frags = append(frags, core.Fragment{Text: run.String(), Style: core.DefaultStyle()})
			run.Reset()
		}
	}

	g := uniseg.NewGraphemes(gap)
	for g.Next() {
		cluster := g.Str()
		switch cluster {
		case "{", "[", "(":
			flush()
			frags = append(frags, core.Fragment{Text: cluster, Style: o.styleFor(depth)})
			depth++
		case "}", "]", ")":
			flush()
			depth--
			frags = append(frags, core.Fragment{Text: cluster, Style: o.styleFor(depth)})
		default:
			run.WriteString(cluster)
		}
	}
	flush()

	return frags, depth
}

// styleFor picks the palette entry for a depth, or the error style when
// the depth has gone negative.
func (o *Overlay) styleFor(depth int) core.Style {
	if depth < 0 {
		return o.errStyle
	}
	return o.palette[depth%len(o.palette)]
}
