// Package highlight ties the grammar tokenizer, theme resolver, and
// bracket overlay together into a single highlight call producing a
// flat sequence of styled fragments.
package highlight

import (
	"strings"
	"sync"

	"github.com/dhollis/scopelight/internal/highlight/grammar"
)

// Registry manages compiled grammars. It is populated once during
// initialization and read-only afterwards; the lock only guards that
// first population against concurrent readers.
type Registry struct {
	mu sync.RWMutex

	// byLanguage maps language identifiers to grammars.
	byLanguage map[string]*grammar.Grammar

	// byExtension maps file extensions to grammars.
	byExtension map[string]*grammar.Grammar
}

// NewRegistry creates an empty grammar registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]*grammar.Grammar),
		byExtension: make(map[string]*grammar.Grammar),
	}
}

// Register adds a compiled grammar under the given language id and
// registers its declared file types.
func (r *Registry) Register(lang string, g *grammar.Grammar) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[lang] = g
	for _, ft := range g.FileTypes {
		if !strings.HasPrefix(ft, ".") {
			ft = "." + ft
		}
		r.byExtension[ft] = g
	}
}

// GetByLanguage returns the grammar for a language id.
func (r *Registry) GetByLanguage(lang string) (*grammar.Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byLanguage[lang]
	return g, ok
}

// GetByExtension returns the grammar for a file extension.
func (r *Registry) GetByExtension(ext string) (*grammar.Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ext == "" {
		return nil, false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	g, ok := r.byExtension[ext]
	return g, ok
}

// Languages returns all registered language ids.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	return langs
}
