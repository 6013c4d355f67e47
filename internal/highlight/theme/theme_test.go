package theme

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhollis/scopelight/internal/highlight/core"
)

func TestResolveSpecificity(t *testing.T) {
	broad := core.NewStyle(core.ColorFromRGB(1, 1, 1))
	narrow := core.NewStyle(core.ColorFromRGB(2, 2, 2))
	th := &Theme{
		Name: "test",
		Scopes: map[string]core.Style{
			"string":               broad,
			"string.quoted.double": narrow,
		},
		Fallback: core.DefaultStyle(),
	}

	// The most specific dotted prefix of the innermost scope wins.
	got := th.Resolve([]string{"source.x", "string.quoted.double"})
	if got != narrow {
		t.Errorf("Resolve() = %+v, want the string.quoted.double style", got)
	}

	// A scope with no exact entry falls back to its dotted prefix.
	got = th.Resolve([]string{"source.x", "string.quoted.single"})
	if got != broad {
		t.Errorf("Resolve() = %+v, want the string style via prefix", got)
	}

	// The innermost scope is preferred over outer ones.
	th.Scopes["source"] = broad
	inner := core.NewStyle(core.ColorFromRGB(3, 3, 3))
	th.Scopes["comment"] = inner
	got = th.Resolve([]string{"source.x", "comment.line"})
	if got != inner {
		t.Errorf("Resolve() = %+v, want the inner comment style", got)
	}
}

func TestResolveFallback(t *testing.T) {
	fallback := core.NewStyle(core.ColorFromRGB(9, 9, 9))
	th := &Theme{Name: "test", Scopes: map[string]core.Style{}, Fallback: fallback}

	if got := th.Resolve([]string{"nothing.here"}); got != fallback {
		t.Errorf("Resolve() = %+v, want fallback", got)
	}
	if got := th.Resolve(nil); got != fallback {
		t.Errorf("Resolve(nil) = %+v, want fallback", got)
	}
}

func TestLoad(t *testing.T) {
	data := `{
		"name": "Test Theme",
		"tokenColors": [
			{"settings": {"foreground": "#d4d4d4"}},
			{"scope": "comment", "settings": {"foreground": "#6a9955", "fontStyle": "italic"}},
			{"scope": ["string", "string.quoted"], "settings": {"foreground": "#ce9178"}},
			{"scope": "markup.bold", "settings": {"fontStyle": "bold"}}
		]
	}`
	th, err := Load("file-name", []byte(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if th.Name != "Test Theme" {
		t.Errorf("Name = %q, want %q (document name wins)", th.Name, "Test Theme")
	}
	if th.Fallback.Foreground != core.ColorFromRGB(0xd4, 0xd4, 0xd4) {
		t.Errorf("Fallback = %+v, want #d4d4d4", th.Fallback)
	}

	comment, ok := th.Scopes["comment"]
	if !ok {
		t.Fatal("missing comment scope")
	}
	if !comment.Attributes.Has(core.AttrItalic) {
		t.Error("comment style should be italic")
	}
	if _, ok := th.Scopes["string.quoted"]; !ok {
		t.Error("scope lists should register every listed scope")
	}
	if !th.Scopes["markup.bold"].Attributes.Has(core.AttrBold) {
		t.Error("markup.bold style should be bold")
	}
}

func TestLoadBareList(t *testing.T) {
	data := `[{"scope": "keyword", "settings": {"foreground": "#569cd6"}}]`
	th, err := Load("plain", []byte(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if th.Name != "plain" {
		t.Errorf("Name = %q, want file name when document has none", th.Name)
	}
	if _, ok := th.Scopes["keyword"]; !ok {
		t.Error("missing keyword scope")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		detail string
	}{
		{
			name:   "unknown fontStyle",
			data:   `[{"scope": "a", "settings": {"fontStyle": "blinking"}}]`,
			detail: "unknown fontStyle",
		},
		{
			name:   "malformed color",
			data:   `[{"scope": "a", "settings": {"foreground": "red"}}]`,
			detail: "malformed color",
		},
		{
			name:   "malformed JSON",
			data:   `[{`,
			detail: "malformed JSON",
		},
		{
			name:   "no list",
			data:   `{"name": "x"}`,
			detail: "missing tokenColors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("bad", []byte(tt.data))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			var terr *ThemeError
			if !errors.As(err, &terr) {
				t.Fatalf("Load() error = %T, want *ThemeError", err)
			}
			if !strings.Contains(terr.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", terr.Error(), tt.detail)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if r.Current() == nil {
		t.Fatal("registry should start with a current theme")
	}
	if _, ok := r.Get("Default Dark"); !ok {
		t.Error("built-in theme should be registered")
	}

	custom := &Theme{Name: "Custom", Scopes: map[string]core.Style{}}
	r.Register(custom)
	if !r.SetCurrent("Custom") {
		t.Fatal("SetCurrent(Custom) = false")
	}
	if r.Current() != custom {
		t.Error("Current() should return the selected theme")
	}
	if r.SetCurrent("missing") {
		t.Error("SetCurrent(missing) = true, want false")
	}
	if r.Current() != custom {
		t.Error("failed SetCurrent must not change the current theme")
	}
}

func TestDefaultThemeResolves(t *testing.T) {
	th := Default()
	style := th.Resolve([]string{"source.go", "comment.line.double-slash"})
	if style == th.Fallback {
		t.Error("comment scopes should resolve to a dedicated style")
	}
	if !style.Attributes.Has(core.AttrItalic) {
		t.Error("default comment style should be italic")
	}
}
