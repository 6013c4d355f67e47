package highlight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhollis/scopelight/internal/highlight/grammar"
	"github.com/dhollis/scopelight/internal/highlight/theme"
)

// LoadGrammarDir compiles every *.json grammar in dir into the
// registry. The language id is the final segment of the grammar's
// scopeName ("source.go" registers as "go"). A grammar that fails to
// compile makes only that language unavailable; its error is reported
// in the returned map and the rest still load.
func LoadGrammarDir(r *Registry, dir string) (map[string]error, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scanning grammar dir %s: %w", dir, err)
	}

	failed := make(map[string]error)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			failed[path] = err
			continue
		}
		g, err := grammar.Compile(data)
		if err != nil {
			failed[path] = err
			continue
		}
		r.Register(LanguageID(g.ScopeName), g)
	}
	return failed, nil
}

// LoadThemeDir loads every *.json theme in dir into the theme
// registry, named by file basename unless the document carries its own
// name. Like grammars, one bad theme does not block the others.
func LoadThemeDir(r *theme.Registry, dir string) (map[string]error, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scanning theme dir %s: %w", dir, err)
	}

	failed := make(map[string]error)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			failed[path] = err
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		t, err := theme.Load(name, data)
		if err != nil {
			failed[path] = err
			continue
		}
		r.Register(t)
	}
	return failed, nil
}

// LanguageID derives a registry key from a grammar scope name: the
// segment after the last dot, or the whole name if it has none.
func LanguageID(scopeName string) string {
	if i := strings.LastIndex(scopeName, "."); i >= 0 {
		return scopeName[i+1:]
	}
	return scopeName
}
