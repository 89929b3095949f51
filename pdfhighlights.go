// Package pdfhighlights finds highlighted text in PDF files: highlight and
// markup annotations, light or yellow boxes drawn behind text, and colored
// or emphasized text.
package pdfhighlights

import (
	"github.com/pkg/errors"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/highlight"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// Re-export types for the public API
type (
	Document    = pdf.Document
	Page        = pdf.Page
	BoundingBox = pdf.BoundingBox
	Color       = pdf.Color
	OpenOption  = pdf.OpenOption

	Config      = highlight.Config
	Extractor   = highlight.Extractor
	MatchRecord = highlight.MatchRecord
	Method      = highlight.Method
	Result      = highlight.Result
	Diagnostic  = highlight.Diagnostic
	Stats       = highlight.Stats
	InputError  = highlight.InputError
)

// Re-export options and constructors
var (
	WithPassword     = pdf.WithPassword
	WithTextFallback = pdf.WithTextFallback
	WithLogger       = highlight.WithLogger
	WithMatchHook    = highlight.WithMatchHook

	DefaultConfig = highlight.DefaultConfig
	LoadConfig    = highlight.LoadConfig

	ErrInput     = highlight.ErrInput
	ErrPageRange = pdf.ErrPageRange
)

// Open opens a PDF file. The full pdfcpu reader is tried first since only
// it sees annotations and drawings; documents it rejects are opened with
// the text-only readers.
func Open(filepath string, opts ...pdf.OpenOption) (pdf.Document, error) {
	doc, err := pdf.Open(filepath, opts...)
	if err == nil {
		return doc, nil
	}

	// Fallback to ledongthuc implementation
	if doc, lerr := pdf.OpenWithLedongthuc(filepath, opts...); lerr == nil {
		return doc, nil
	}

	// Final fallback to dslipak implementation
	if doc, derr := pdf.OpenWithDslipak(filepath, opts...); derr == nil {
		return doc, nil
	}

	return nil, err
}

// NewExtractor creates an extractor that opens files with Open
func NewExtractor(cfg Config, opts ...highlight.Option) (*Extractor, error) {
	return highlight.NewExtractor(cfg, append([]highlight.Option{highlight.WithOpener(Open)}, opts...)...)
}

// ExtractFile extracts the highlights of one file with cfg
func ExtractFile(path string, cfg Config, opts ...pdf.OpenOption) (*Result, error) {
	e, err := NewExtractor(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return e.ExtractFile(path, opts...)
}

// Extract extracts the highlights of an open document with cfg
func Extract(doc Document, cfg Config) (*Result, error) {
	e, err := NewExtractor(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return e.Extract(doc), nil
}
