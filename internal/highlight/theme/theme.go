// Package theme maps lexical scopes to visual styles. A theme is an
// immutable lookup table from scope-path strings to styles plus a
// fallback; resolution walks a span's scope stack from the innermost
// scope outward, trying progressively shorter dotted prefixes of each.
package theme

import (
	"github.com/dhollis/scopelight/internal/highlight/core"
)

// Theme defines styles for syntax highlighting.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Scopes maps scope-path strings to styles.
	Scopes map[string]core.Style

	// Fallback is returned when no scope matches. It may be the
	// neutral style.
	Fallback core.Style
}

// Resolve returns the style for a scope stack, given outermost first.
// The innermost scope is preferred, and within each scope the most
// specific dotted prefix wins: for "string.quoted.double" the theme is
// consulted for "string.quoted.double", then "string.quoted", then
// "string" before moving to the next enclosing scope. Never fails;
// exhausting every candidate yields the fallback style.
func (t *Theme) Resolve(scopes []string) core.Style {
	for i := len(scopes) - 1; i >= 0; i-- {
		scope := scopes[i]
		for len(scope) > 0 {
			if style, ok := t.Scopes[scope]; ok {
				return style
			}
			scope = trimLastSegment(scope)
		}
	}
	return t.Fallback
}

// trimLastSegment drops the final dotted segment of a scope path,
// returning "" when no segment remains.
func trimLastSegment(scope string) string {
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i] == '.' {
			return scope[:i]
		}
	}
	return ""
}

// Default returns a built-in dark theme so highlighting works without
// a theme file.
func Default() *Theme {
	comment := core.ColorFromRGB(106, 153, 85)
	keyword := core.ColorFromRGB(86, 156, 214)
	str := core.ColorFromRGB(206, 145, 120)
	number := core.ColorFromRGB(181, 206, 168)
	function := core.ColorFromRGB(220, 220, 170)
	typ := core.ColorFromRGB(78, 201, 176)
	variable := core.ColorFromRGB(156, 220, 254)
	invalid := core.ColorFromRGB(244, 71, 71)

	return &Theme{
		Name: "Default Dark",
		Scopes: map[string]core.Style{
			"comment":              core.NewStyle(comment).Italic(),
			"string":               core.NewStyle(str),
			"string.escape":        core.NewStyle(core.ColorFromRGB(215, 186, 125)),
			"constant.numeric":     core.NewStyle(number),
			"constant.language":    core.NewStyle(keyword),
			"keyword":              core.NewStyle(keyword),
			"storage":              core.NewStyle(keyword),
			"entity.name.function": core.NewStyle(function),
			"entity.name.type":     core.NewStyle(typ),
			"variable":             core.NewStyle(variable),
			"support":              core.NewStyle(typ),
			"invalid":              core.NewStyle(invalid),
			"markup.heading":       core.NewStyle(keyword).Bold(),
			"markup.italic":        core.DefaultStyle().Italic(),
			"markup.bold":          core.DefaultStyle().Bold(),
			"markup.underline":     core.DefaultStyle().Underline(),
		},
		Fallback: core.Style{Foreground: core.ColorFromRGB(212, 212, 212)},
	}
}

// Registry holds available themes.
type Registry struct {
	themes  map[string]*Theme
	current *Theme
}

// NewRegistry creates a registry seeded with the built-in theme.
func NewRegistry() *Registry {
	r := &Registry{themes: make(map[string]*Theme)}
	def := Default()
	r.Register(def)
	r.current = def
	return r
}

// Register adds a theme to the registry.
func (r *Registry) Register(t *Theme) {
	r.themes[t.Name] = t
}

// Get returns a theme by name.
func (r *Registry) Get(name string) (*Theme, bool) {
	t, ok := r.themes[name]
	return t, ok
}

// Current returns the current theme.
func (r *Registry) Current() *Theme {
	return r.current
}

// SetCurrent sets the current theme by name.
func (r *Registry) SetCurrent(name string) bool {
	if t, ok := r.themes[name]; ok {
		r.current = t
		return true
	}
	return false
}

// Names returns all registered theme names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	return names
}
