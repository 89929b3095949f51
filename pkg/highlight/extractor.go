package highlight

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// ErrInput marks a document that could not be read at all
var ErrInput = errors.New("input error")

// InputError reports a missing, unreadable or corrupt input file.
// errors.Is(err, ErrInput) holds for it.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func (e *InputError) Is(target error) bool { return target == ErrInput }

// Diagnostic records an item that was skipped during extraction
type Diagnostic struct {
	Page   int    // 1-based, 0 for the document
	Source string // page, annotation, drawing, span, comprehensive, or an object type
	Err    error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("page %d: %s: %v", d.Page, d.Source, d.Err)
}

// Stats counts matches
type Stats struct {
	ByMethod map[Method]int // before deduplication
	Total    int            // before deduplication
	Unique   int            // after deduplication
}

// Result is the outcome of extracting one document
type Result struct {
	Source       string
	PageCount    int
	PagesScanned int
	Records      []MatchRecord
	Diagnostics  []Diagnostic
	Stats        Stats
}

// Opener opens a PDF file
type Opener func(path string, opts ...pdf.OpenOption) (pdf.Document, error)

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger; by default nothing is logged
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOpener sets the function ExtractFile opens documents with
func WithOpener(open Opener) Option {
	return func(e *Extractor) {
		if open != nil {
			e.open = open
		}
	}
}

// WithMatchHook sets a function called with every match as it is found,
// before duplicates are removed
func WithMatchHook(fn func(MatchRecord)) Option {
	return func(e *Extractor) {
		e.onMatch = fn
	}
}

// Extractor finds highlighted text in documents. It holds no per-document
// state, so one Extractor can process any number of documents.
type Extractor struct {
	cfg       Config
	kinds     map[pdf.AnnotationKind]bool
	styleMask pdf.FontFlags
	logger    *slog.Logger
	open      Opener
	onMatch   func(MatchRecord)
}

// NewExtractor creates an extractor for a validated configuration
func NewExtractor(cfg Config, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kinds, _ := cfg.kindSet()
	mask, _ := pdf.ParseFontFlags(cfg.StyleFlags)

	e := &Extractor{
		cfg:       cfg,
		kinds:     kinds,
		styleMask: mask,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		open:      pdf.Open,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the extractor's configuration
func (e *Extractor) Config() Config {
	return e.cfg
}

// ExtractFile opens path, extracts it and closes it. Problems with the
// file itself are returned as an *InputError; everything else ends up in
// Result.Diagnostics.
func (e *Extractor) ExtractFile(path string, opts ...pdf.OpenOption) (*Result, error) {
	source := filepath.Base(path)

	doc, err := e.open(path, opts...)
	if err != nil {
		e.logger.Error("cannot open document", "path", path, "err", err)
		return &Result{Source: source, Stats: Stats{ByMethod: map[Method]int{}}}, &InputError{Path: path, Err: err}
	}
	defer doc.Close()

	result := e.Extract(doc)
	result.Source = source
	return result, nil
}

// Extract scans the pages of doc in order and returns the deduplicated
// matches. It never fails; skipped pages and items are reported as
// diagnostics.
func (e *Extractor) Extract(doc pdf.Document) *Result {
	result := &Result{
		PageCount: doc.PageCount(),
		Stats:     Stats{ByMethod: map[Method]int{}},
	}

	pages := result.PageCount
	if e.cfg.MaxPages > 0 && e.cfg.MaxPages < pages {
		pages = e.cfg.MaxPages
	}

	var records []MatchRecord
	for i := 0; i < pages; i++ {
		pageRecords, diags := e.extractPage(doc, i)
		records = append(records, pageRecords...)
		result.Diagnostics = append(result.Diagnostics, diags...)
		result.PagesScanned++
	}

	for _, r := range records {
		result.Stats.ByMethod[r.Method]++
	}
	result.Stats.Total = len(records)
	result.Records = Deduplicate(records, e.cfg.MinTextLength)
	result.Stats.Unique = len(result.Records)

	e.logger.Info("extraction finished",
		"pages", result.PagesScanned,
		"matches", result.Stats.Total,
		"unique", result.Stats.Unique,
		"diagnostics", len(result.Diagnostics))
	return result
}

// pageScan collects the records and diagnostics of one page
type pageScan struct {
	e       *Extractor
	page    pdf.Page
	number  int
	records []MatchRecord
	diags   []Diagnostic
}

func (e *Extractor) extractPage(doc pdf.Document, index int) ([]MatchRecord, []Diagnostic) {
	s := &pageScan{e: e, number: index + 1}

	s.guard("page", func() {
		page, err := doc.GetPage(index)
		if err != nil {
			s.fail("page", err)
			return
		}
		s.page = page
	})
	if s.page == nil {
		return nil, s.diags
	}

	var objects pdf.Objects
	s.guard("page", func() { objects = s.page.GetObjects() })
	for _, skipped := range objects.Skipped {
		s.fail(string(skipped.Kind), skipped)
	}

	if e.cfg.Methods.Annotations {
		for _, annot := range objects.Annotations {
			s.guard("annotation", func() { s.annotation(annot) })
		}
	}
	if e.cfg.Methods.Drawings {
		for _, d := range objects.Drawings {
			s.guard("drawing", func() { s.drawing(d) })
		}
	}
	if e.cfg.Methods.ColoredText {
		s.guard("span", func() {
			for _, span := range s.page.Spans() {
				s.span(span)
			}
		})
	}
	if e.cfg.Methods.Comprehensive {
		s.guard("comprehensive", s.comprehensive)
	}

	return s.records, s.diags
}

// guard runs fn, turning a panic into a diagnostic
func (s *pageScan) guard(source string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(source, errors.Errorf("panic: %v", r))
		}
	}()
	fn()
}

func (s *pageScan) fail(source string, err error) {
	s.diags = append(s.diags, Diagnostic{Page: s.number, Source: source, Err: err})
	s.e.logger.Warn("skipped item", "page", s.number, "source", source, "err", err)
}

func (s *pageScan) add(r MatchRecord) {
	s.records = append(s.records, r)
	s.e.logger.Debug("match",
		"page", r.Page,
		"method", string(r.Method),
		"text", preview(r.Text, 50))
	if s.e.onMatch != nil {
		s.e.onMatch(r)
	}
}

func (s *pageScan) annotation(annot pdf.AnnotationObject) {
	if !s.e.kinds[annot.Kind] {
		return
	}

	rec := s.annotationText(annot)
	if rec.Step == StepNone {
		return
	}
	color := annot.EffectiveColor()
	if !IsHighlightColor(color) {
		s.e.logger.Debug("annotation color rejected", "page", s.number, "kind", string(annot.Kind), "color", color.String())
		return
	}

	r, ok := newRecord(s.number, rec.Text, AnnotationMethod(annot.Kind))
	if !ok {
		return
	}
	if color.IsSet() {
		r.Color = color
	}
	r.Rect = rectOf(annot)
	r.Step = rec.Step
	r.Author = annot.Author
	if rec.Step != StepContent {
		r.Comment = strings.TrimSpace(annot.Contents)
	}
	s.add(r)
}

// annotationText recovers the text of a markup spanning several quads one
// quad at a time, so text between the lines' ends stays out. Annotations
// with one quad or none use their rectangle.
func (s *pageScan) annotationText(annot pdf.AnnotationObject) Recovery {
	if len(annot.QuadBoxes) > 1 {
		var lines []string
		step := StepNone
		for _, q := range annot.QuadBoxes {
			rec := RecoverText(s.page, q, "", s.e.cfg.ExpandMargin)
			if rec.Step == StepNone {
				continue
			}
			if len(lines) == 0 || lines[len(lines)-1] != rec.Text {
				lines = append(lines, rec.Text)
			}
			step = max(step, rec.Step)
		}
		if len(lines) > 0 {
			return Recovery{Text: strings.Join(lines, "\n"), Step: step}
		}
	}
	return RecoverText(s.page, annot.GetBBox(), annot.Contents, s.e.cfg.ExpandMargin)
}

func (s *pageScan) drawing(d pdf.Drawing) {
	if !d.Fill.IsSet() || !IsHighlightColor(d.Fill) {
		return
	}
	box := d.GetBBox()
	limit := s.e.cfg.MaxDrawingCoverage
	if pageArea := s.page.GetBBox().Area(); limit > 0 && pageArea > 0 && box.Area()/pageArea >= limit {
		s.e.logger.Debug("page background skipped", "page", s.number, "rect", box.String())
		return
	}

	text := s.page.TextInRect(box.Expand(s.e.cfg.DrawingMargin))
	r, ok := newRecord(s.number, text, MethodDrawing)
	if !ok {
		return
	}
	r.Color = d.Fill
	r.Rect = &box
	s.add(r)
}

func (s *pageScan) span(span pdf.TextSpan) {
	colored := span.Color.IsSet() && !span.Color.IsBlack()
	styled := span.Flags&s.e.styleMask != 0
	if !colored && !styled {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(span.Text)) <= s.e.cfg.MinColoredTextLength {
		return
	}

	r, ok := newRecord(s.number, span.Text, MethodColoredText)
	if !ok {
		return
	}
	if colored {
		r.Color = span.Color
	}
	r.Rect = rectOf(span)
	s.add(r)
}

func (s *pageScan) comprehensive() {
	for _, line := range GroupLines(s.page.Words(), s.e.cfg.LineTolerance) {
		reason := MatchLine(line.Text, s.e.cfg.MinLineLength, s.e.cfg.Keywords)
		if reason == "" {
			continue
		}
		r, ok := newRecord(s.number, line.Text, MethodComprehensive)
		if !ok {
			continue
		}
		box := line.BBox
		r.Rect = &box
		r.Reason = reason
		s.add(r)
	}
}

// preview shortens text to n runes for log lines
func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
