package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`
theme = "Default Dark"
grammar_dir = "/etc/scopelight/grammars"
theme_dir = "/etc/scopelight/themes"
bracket_palette = ["#ffd700", "#da70d6"]
bracket_error_color = "#f44747"
`)
	cfg, err := Parse("test.toml", data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Theme != "Default Dark" {
		t.Errorf("Theme = %q, want %q", cfg.Theme, "Default Dark")
	}
	if cfg.GrammarDir != "/etc/scopelight/grammars" {
		t.Errorf("GrammarDir = %q", cfg.GrammarDir)
	}
	if len(cfg.BracketPalette) != 2 {
		t.Errorf("len(BracketPalette) = %d, want 2", len(cfg.BracketPalette))
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse("bad.toml", []byte("theme = [unclosed"))
	if err == nil {
		t.Fatal("Parse() succeeded, want error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %T, want *ParseError", err)
	}
	if perr.Path != "bad.toml" {
		t.Errorf("ParseError.Path = %q, want bad.toml", perr.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing file", err)
	}
	if cfg.Theme != "" || cfg.GrammarDir != "" || len(cfg.BracketPalette) != 0 {
		t.Errorf("Load() = %+v, want zero config", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`theme = "Light"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme != "Light" {
		t.Errorf("Theme = %q, want Light", cfg.Theme)
	}
}

func TestBracketOverlay(t *testing.T) {
	cfg := &Config{BracketPalette: []string{"#ff0000", "#00ff00"}}
	if _, err := cfg.BracketOverlay(); err != nil {
		t.Errorf("BracketOverlay() error = %v", err)
	}

	cfg = &Config{BracketPalette: []string{"not-a-color"}}
	if _, err := cfg.BracketOverlay(); err == nil {
		t.Error("BracketOverlay() with a bad palette color should fail")
	}

	cfg = &Config{BracketErrorColor: "nope"}
	if _, err := cfg.BracketOverlay(); err == nil {
		t.Error("BracketOverlay() with a bad error color should fail")
	}

	// Zero config uses the defaults.
	if _, err := (&Config{}).BracketOverlay(); err != nil {
		t.Errorf("BracketOverlay() on zero config error = %v", err)
	}
}
