// Package main is the entry point for the scopelight highlighter CLI.
// It loads grammars and themes, highlights a file, and writes the
// styled result to stdout as ANSI text.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"

	"github.com/dhollis/scopelight/internal/config"
	"github.com/dhollis/scopelight/internal/highlight"
	"github.com/dhollis/scopelight/internal/highlight/core"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath string
	theme      string
	lang       string
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	brackets, err := cfg.BracketOverlay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	h := highlight.New(nil, nil, brackets)

	if cfg.GrammarDir != "" {
		failed, err := highlight.LoadGrammarDir(h.Grammars(), cfg.GrammarDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for path, err := range failed {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
		}
	}
	if cfg.ThemeDir != "" {
		failed, err := highlight.LoadThemeDir(h.Themes(), cfg.ThemeDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for path, err := range failed {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
		}
	}

	themeName := opts.theme
	if themeName == "" {
		themeName = cfg.Theme
	}
	if themeName != "" && !h.Themes().SetCurrent(themeName) {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q (have: %v)\n", themeName, h.Themes().Names())
		return 1
	}

	text, err := os.ReadFile(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	lang := opts.lang
	if lang == "" {
		if g, ok := h.Grammars().GetByExtension(filepath.Ext(opts.file)); ok {
			lang = highlight.LanguageID(g.ScopeName)
		}
	}
	if lang == "" {
		fmt.Fprintf(os.Stderr, "Error: no grammar for %s; pass -lang\n", opts.file)
		return 1
	}

	frags, err := h.Highlight(lang, string(text))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	render(frags)
	return 0
}

// render writes fragments to stdout with ANSI styling appropriate for
// the terminal's color profile.
func render(frags []core.Fragment) {
	out := termenv.NewOutput(os.Stdout)
	for _, f := range frags {
		s := out.String(f.Text)
		if !f.Style.Foreground.IsDefault() {
			s = s.Foreground(out.Profile.Color(f.Style.Foreground.Hex()))
		}
		if f.Style.Attributes.Has(core.AttrBold) {
			s = s.Bold()
		}
		if f.Style.Attributes.Has(core.AttrItalic) {
			s = s.Italic()
		}
		if f.Style.Attributes.Has(core.AttrUnderline) {
			s = s.Underline()
		}
		fmt.Fprint(out, s.String())
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.theme, "theme", "", "Theme name")
	flag.StringVar(&opts.theme, "t", "", "Theme name (shorthand)")
	flag.StringVar(&opts.lang, "lang", "", "Language id (default: by file extension)")
	flag.StringVar(&opts.lang, "l", "", "Language id (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scopelight - TextMate grammar highlighter\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scopelight [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Scopelight %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.file = flag.Arg(0)
	return opts
}
