package highlight

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// Methods selects the detection methods to run
type Methods struct {
	Annotations   bool `yaml:"annotations"`
	Drawings      bool `yaml:"drawings"`
	ColoredText   bool `yaml:"colored_text"`
	Comprehensive bool `yaml:"comprehensive"`
}

// Config holds extraction settings
type Config struct {
	Methods Methods `yaml:"methods"`

	// Annotation subtypes treated as highlights
	AnnotationKinds []string `yaml:"annotation_kinds"`

	// Margin of the expanded-rectangle cascade step (points)
	ExpandMargin float64 `yaml:"expand_margin"`

	// Margin added around a drawing before reading its text (points)
	DrawingMargin float64 `yaml:"drawing_margin"`

	// Colored spans must be longer than this many characters
	MinColoredTextLength int `yaml:"min_colored_text_length"`

	// Records this short or shorter are dropped during deduplication
	MinTextLength int `yaml:"min_text_length"`

	// Comprehensive mode: words whose y0 differ by less than this share a line
	LineTolerance float64 `yaml:"line_tolerance"`

	// Comprehensive mode: lines must be longer than this many characters
	MinLineLength int `yaml:"min_line_length"`

	// Comprehensive mode: keywords that mark a line
	Keywords []string `yaml:"keywords"`

	// Font flags that make a span count as styled
	StyleFlags []string `yaml:"style_flags"`

	// Drawings covering at least this fraction of the page are backgrounds;
	// 0 keeps every drawing
	MaxDrawingCoverage float64 `yaml:"max_drawing_coverage"`

	// Number of pages to scan, 0 for all
	MaxPages int `yaml:"max_pages"`
}

// DefaultConfig returns the default configuration. Comprehensive mode is off.
func DefaultConfig() Config {
	kinds := make([]string, len(pdf.MarkupKinds))
	for i, k := range pdf.MarkupKinds {
		kinds[i] = string(k)
	}
	return Config{
		Methods: Methods{
			Annotations: true,
			Drawings:    true,
			ColoredText: true,
		},
		AnnotationKinds:      kinds,
		ExpandMargin:         3,
		DrawingMargin:        2,
		MinColoredTextLength: 3,
		MinTextLength:        5,
		LineTolerance:        5,
		MinLineLength:        10,
		Keywords:             append([]string(nil), DefaultKeywords...),
		StyleFlags:           []string{"bold", "italic", "superscript"},
		MaxDrawingCoverage:   0.9,
	}
}

// LoadConfig reads a YAML file on top of the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work
func (c Config) Validate() error {
	if c.ExpandMargin < 0 || c.DrawingMargin < 0 {
		return errors.New("margins must not be negative")
	}
	if c.LineTolerance <= 0 {
		return errors.New("line_tolerance must be positive")
	}
	if c.MaxDrawingCoverage < 0 || c.MaxDrawingCoverage > 1 {
		return errors.Errorf("max_drawing_coverage %v out of [0, 1]", c.MaxDrawingCoverage)
	}
	if c.MinTextLength < 0 || c.MinColoredTextLength < 0 || c.MinLineLength < 0 {
		return errors.New("minimum lengths must not be negative")
	}
	if c.MaxPages < 0 {
		return errors.New("max_pages must not be negative")
	}
	if _, err := c.kindSet(); err != nil {
		return err
	}
	if _, err := pdf.ParseFontFlags(c.StyleFlags); err != nil {
		return errors.Wrap(err, "style_flags")
	}
	return nil
}

// kindSet returns the configured annotation kinds as a set
func (c Config) kindSet() (map[pdf.AnnotationKind]bool, error) {
	known := make(map[pdf.AnnotationKind]bool, len(pdf.MarkupKinds))
	for _, k := range pdf.MarkupKinds {
		known[k] = true
	}

	set := make(map[pdf.AnnotationKind]bool, len(c.AnnotationKinds))
	for _, name := range c.AnnotationKinds {
		kind := pdf.ParseAnnotationKind(name)
		if !known[kind] {
			return nil, errors.Errorf("unknown annotation kind %q", name)
		}
		set[kind] = true
	}
	return set, nil
}
