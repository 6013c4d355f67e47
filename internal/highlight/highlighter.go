package highlight

import (
	"errors"
	"fmt"

	"github.com/dhollis/scopelight/internal/highlight/bracket"
	"github.com/dhollis/scopelight/internal/highlight/core"
	"github.com/dhollis/scopelight/internal/highlight/grammar"
	"github.com/dhollis/scopelight/internal/highlight/theme"
	"github.com/dhollis/scopelight/internal/highlight/tokenizer"
)

// ErrUnknownLanguage is returned when no grammar is registered for the
// requested language.
var ErrUnknownLanguage = errors.New("unknown language")

// Highlighter combines a grammar registry, a theme, and the bracket
// overlay. Highlight calls are pure and re-entrant: the registry and
// themes are immutable after setup, so concurrent calls are safe.
type Highlighter struct {
	grammars *Registry
	themes   *theme.Registry
	brackets *bracket.Overlay
}

// New creates a highlighter. Nil arguments get sensible defaults: an
// empty grammar registry, the built-in theme registry, the default
// bracket overlay.
func New(grammars *Registry, themes *theme.Registry, brackets *bracket.Overlay) *Highlighter {
	if grammars == nil {
		grammars = NewRegistry()
	}
	if themes == nil {
		themes = theme.NewRegistry()
	}
	if brackets == nil {
		brackets = bracket.New()
	}
	return &Highlighter{grammars: grammars, themes: themes, brackets: brackets}
}

// Grammars returns the grammar registry for setup-time population.
func (h *Highlighter) Grammars() *Registry {
	return h.grammars
}

// Themes returns the theme registry for setup-time population.
func (h *Highlighter) Themes() *theme.Registry {
	return h.themes
}

// Highlight tokenizes text with the grammar registered for lang,
// resolves every span against the current theme, and fills the gaps
// with bracket-overlay fragments. The returned fragments cover the
// input text exactly once, in order.
func (h *Highlighter) Highlight(lang, text string) ([]core.Fragment, error) {
	g, ok := h.grammars.GetByLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
	}
	return h.HighlightWith(g, h.themes.Current(), text), nil
}

// HighlightWith highlights text with an explicit grammar and theme.
// It is deterministic: identical inputs yield identical output.
func (h *Highlighter) HighlightWith(g *grammar.Grammar, th *theme.Theme, text string) []core.Fragment {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	spans := tokenizer.Tokenize(g, text)

	var frags []core.Fragment
	depth := 0
	pos := 0
	for _, span := range spans {
		if span.Start > pos {
			var gap []core.Fragment
			gap, depth = h.brackets.Apply(string(runes[pos:span.Start]), depth)
			frags = append(frags, gap...)
		}
		frags = append(frags, core.Fragment{
			Text:  string(runes[span.Start:span.End]),
			Style: th.Resolve(span.Scopes),
		})
		pos = span.End
	}
	if pos < len(runes) {
		var gap []core.Fragment
		gap, _ = h.brackets.Apply(string(runes[pos:]), depth)
		frags = append(frags, gap...)
	}
	return frags
}
