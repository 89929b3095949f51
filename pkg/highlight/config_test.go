package highlight

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "highlights.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Methods.Comprehensive {
		t.Error("comprehensive mode should be off by default")
	}
	if cfg.ExpandMargin != 3 || cfg.DrawingMargin != 2 || cfg.MinTextLength != 5 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.AnnotationKinds) != 9 {
		t.Errorf("expected 9 annotation kinds, got %d", len(cfg.AnnotationKinds))
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
methods:
  annotations: true
  drawings: false
  colored_text: true
  comprehensive: true
annotation_kinds: [highlight, underline]
keywords: [todo]
max_pages: 2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Methods.Drawings || !cfg.Methods.Comprehensive {
		t.Errorf("methods not applied: %+v", cfg.Methods)
	}
	if len(cfg.AnnotationKinds) != 2 || cfg.Keywords[0] != "todo" || cfg.MaxPages != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	// Keys absent from the file keep their defaults
	if cfg.ExpandMargin != 3 || cfg.MaxDrawingCoverage != 0.9 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown kind", "annotation_kinds: [Ink]"},
		{"unknown flag", "style_flags: [wide]"},
		{"negative margin", "expand_margin: -1"},
		{"coverage out of range", "max_drawing_coverage: 1.5"},
		{"negative coverage", "max_drawing_coverage: -0.1"},
		{"bad yaml", "methods: [oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Errorf("expected an error for %q", tt.content)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
