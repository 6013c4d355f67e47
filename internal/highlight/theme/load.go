package theme

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dhollis/scopelight/internal/highlight/core"
)

// ThemeError reports a failure while loading a theme definition.
// Raised only at load time; Resolve never fails.
type ThemeError struct {
	// Theme is the theme name, if known.
	Theme string

	// Detail describes what was wrong.
	Detail string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ThemeError) Error() string {
	msg := "theme"
	if e.Theme != "" {
		msg += " " + e.Theme
	}
	msg += ": " + e.Detail
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ThemeError) Unwrap() error {
	return e.Err
}

// Load parses a theme definition in JSON form: an ordered list of
// entries with an optional scope (a string or list of strings) and a
// settings object carrying "foreground" and/or "fontStyle". An entry
// without a scope defines the fallback style. The list may appear
// either as the whole document or under a "tokenColors" key alongside
// a "name". An unknown fontStyle or a malformed color is a load error.
func Load(name string, data []byte) (*Theme, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ThemeError{Theme: name, Detail: "malformed JSON document"}
	}
	doc := gjson.ParseBytes(data)

	entries := doc
	if doc.IsObject() {
		if n := doc.Get("name").String(); n != "" {
			name = n
		}
		entries = doc.Get("tokenColors")
	}
	if !entries.IsArray() {
		return nil, &ThemeError{Theme: name, Detail: "missing tokenColors list"}
	}

	t := &Theme{
		Name:   name,
		Scopes: make(map[string]core.Style),
	}

	var err error
	entries.ForEach(func(_, entry gjson.Result) bool {
		var style core.Style
		style, err = parseSettings(name, entry.Get("settings"))
		if err != nil {
			return false
		}

		scope := entry.Get("scope")
		switch {
		case !scope.Exists():
			t.Fallback = style
		case scope.IsArray():
			for _, s := range scope.Array() {
				t.Scopes[s.String()] = style
			}
		default:
			t.Scopes[scope.String()] = style
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseSettings converts one settings object into a style.
func parseSettings(name string, settings gjson.Result) (core.Style, error) {
	style := core.DefaultStyle()

	if fg := settings.Get("foreground"); fg.Exists() {
		color, err := core.ColorFromHex(fg.String())
		if err != nil {
			return core.Style{}, &ThemeError{Theme: name, Detail: "malformed color", Err: err}
		}
		style.Foreground = color
	}

	if fs := settings.Get("fontStyle"); fs.Exists() {
		switch fs.String() {
		case "italic":
			style = style.Italic()
		case "bold":
			style = style.Bold()
		case "underline":
			style = style.Underline()
		case "":
			// No emphasis.
		default:
			return core.Style{}, &ThemeError{Theme: name, Detail: fmt.Sprintf("unknown fontStyle %q", fs.String())}
		}
	}

	return style, nil
}
