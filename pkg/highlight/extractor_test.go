package highlight

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

func newTestExtractor(t *testing.T, cfg Config, opts ...Option) *Extractor {
	t.Helper()
	e, err := NewExtractor(cfg, opts...)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	return e
}

func boxOf(chars []pdf.CharObject) pdf.BoundingBox {
	box := chars[0].GetBBox()
	for _, c := range chars[1:] {
		box = box.Union(c.GetBBox())
	}
	return box
}

func highlightOver(chars []pdf.CharObject, color pdf.Color) pdf.AnnotationObject {
	box := boxOf(chars)
	return pdf.AnnotationObject{
		Kind:  pdf.AnnotHighlight,
		X0:    box.X0,
		Y0:    box.Y0,
		X1:    box.X1,
		Y1:    box.Y1,
		Color: color,
	}
}

func TestExtractHighlightAnnotation(t *testing.T) {
	chars := layout("Important finding", 100, 700, 12, nil, 0)
	page := newFakePage(1, chars).withAnnotations(highlightOver(chars, pdf.RGBColor(1, 1, 0.1)))
	doc := &fakeDocument{pages: []*fakePage{page}}

	result := newTestExtractor(t, DefaultConfig()).Extract(doc)

	if len(result.Records) != 1 {
		t.Fatalf("expected exactly one record, got %d: %+v", len(result.Records), result.Records)
	}
	r := result.Records[0]
	if r.Page != 1 || r.Text != "Important finding" || r.Method != "Annotation-Highlight" {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Step != StepSpans {
		t.Errorf("Step = %v, want spans", r.Step)
	}
	if r.Color.String() != "(1, 1, 0.1)" || r.Rect == nil {
		t.Errorf("Color = %v, Rect = %v", r.Color, r.Rect)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", result.Diagnostics)
	}
}

func TestExtractAnnotationViaExpandedRect(t *testing.T) {
	chars := layout("Important finding", 100, 700, 4, nil, 0)
	annot := pdf.AnnotationObject{Kind: pdf.AnnotUnderline, X0: 99, Y0: 690, X1: 136, Y1: chars[0].Y0}
	doc := &fakeDocument{pages: []*fakePage{newFakePage(1, chars).withAnnotations(annot)}}

	result := newTestExtractor(t, DefaultConfig()).Extract(doc)
	if len(result.Records) != 1 {
		t.Fatalf("expected one record, got %+v", result.Records)
	}
	r := result.Records[0]
	if r.Step != StepExpandedRect || r.Method != "Annotation-Underline" {
		t.Errorf("got %v via %v", r.Method, r.Step)
	}
	if r.Color != nil {
		t.Errorf("absent annotation color should stay absent, got %v", r.Color)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	result := newTestExtractor(t, DefaultConfig()).Extract(&fakeDocument{})
	if len(result.Records) != 0 || len(result.Diagnostics) != 0 {
		t.Errorf("expected an empty result, got %+v", result)
	}
	if result.PageCount != 0 || result.PagesScanned != 0 {
		t.Errorf("unexpected page counts %d/%d", result.PageCount, result.PagesScanned)
	}
}

func TestExtractAnnotationFilters(t *testing.T) {
	chars := layout("Reviewed paragraph text", 100, 700, 12, nil, 0)

	dark := highlightOver(chars, pdf.RGBColor(0.1, 0.1, 0.1))
	ink := highlightOver(chars, nil)
	ink.Kind = pdf.AnnotationKind("Ink")

	doc := &fakeDocument{pages: []*fakePage{newFakePage(1, chars).withAnnotations(dark, ink)}}
	result := newTestExtractor(t, DefaultConfig()).Extract(doc)
	if len(result.Records) != 0 {
		t.Errorf("dark and unrecognized annotations should be ignored, got %+v", result.Records)
	}
}

func TestExtractStickyNote(t *testing.T) {
	note := pdf.AnnotationObject{
		Kind:     pdf.AnnotText,
		X0:       500,
		Y0:       500,
		X1:       520,
		Y1:       520,
		Contents: "Check the figures again",
		Author:   "reviewer",
	}
	doc := &fakeDocument{pages: []*fakePage{newFakePage(1, nil).withAnnotations(note)}}

	result := newTestExtractor(t, DefaultConfig()).Extract(doc)
	if len(result.Records) != 1 {
		t.Fatalf("expected one record, got %+v", result.Records)
	}
	r := result.Records[0]
	if r.Step != StepContent || r.Text != "Check the figures again" || r.Comment != "" || r.Author != "reviewer" {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestExtractAnnotationQuads(t *testing.T) {
	// Highlight running from the bottom of one column to the top of the next
	end := layout("end of the first column", 100, 100, 12, nil, 0)
	start := layout("start of the second column", 350, 700, 12, nil, 0)
	var chars []pdf.CharObject
	chars = append(chars, layout("first column body", 100, 400, 12, nil, 0)...)
	chars = append(chars, end...)
	chars = append(chars, start...)
	chars = append(chars, layout("second column body", 350, 400, 12, nil, 0)...)

	q1, q2 := boxOf(end), boxOf(start)
	union := q1.Union(q2)
	annot := pdf.AnnotationObject{
		Kind:      pdf.AnnotHighlight,
		X0:        union.X0,
		Y0:        union.Y0,
		X1:        union.X1,
		Y1:        union.Y1,
		Color:     pdf.RGBColor(1, 1, 0),
		QuadBoxes: []pdf.BoundingBox{q1, q2},
	}
	doc := &fakeDocument{pages: []*fakePage{newFakePage(1, chars).withAnnotations(annot)}}

	result := newTestExtractor(t, DefaultConfig()).Extract(doc)
	if len(result.Records) != 1 {
		t.Fatalf("expected one record, got %+v", result.Records)
	}
	r := result.Records[0]
	if r.Text != "end of the first column\nstart of the second column" {
		t.Errorf("Text = %q", r.Text)
	}
	if r.Step != StepSpans {
		t.Errorf("Step = %v, want spans", r.Step)
	}

	// Quads over blank space fall back to the rectangle
	annot.QuadBoxes = []pdf.BoundingBox{{X0: 500, Y0: 10, X1: 510, Y1: 20}, {X0: 520, Y0: 10, X1: 530, Y1: 20}}
	doc = &fakeDocument{pages: []*fakePage{newFakePage(1, chars).withAnnotations(annot)}}
	result = newTestExtractor(t, DefaultConfig()).Extract(doc)
	if len(result.Records) != 1 || !strings.Contains(result.Records[0].Text, "first column body") {
		t.Errorf("expected the rectangle text, got %+v", result.Records)
	}
}

func TestExtractDrawings(t *testing.T) {
	chars := layout("Marked with a pen", 100, 700, 12, nil, 0)
	chars = append(chars, layout("Under a dark box", 100, 600, 12, nil, 0)...)

	page := newFakePage(1, chars).withDrawings(
		pdf.Drawing{X0: 98, Y0: 695, X1: 210, Y1: 712, Fill: pdf.RGBColor(1, 1, 0), IsRect: true},
		pdf.Drawing{X0: 98, Y0: 595, X1: 210, Y1: 612, Fill: pdf.RGBColor(0.2, 0.2, 0.5), IsRect: true},
		// Page background
		pdf.Drawing{X0: 0, Y0: 0, X1: 612, Y1: 792, Fill: pdf.GrayColor(1), IsRect: true},
		// Stroked only
		pdf.Drawing{X0: 98, Y0: 595, X1: 210, Y1: 612, Stroke: pdf.RGBColor(1, 1, 0)},
	)

	result := newTestExtractor(t, DefaultConfig()).Extract(&fakeDocument{pages: []*fakePage{page}})
	if len(result.Records) != 1 {
		t.Fatalf("expected one drawing record, got %+v", result.Records)
	}
	r := result.Records[0]
	if r.Method != MethodDrawing || r.Text != "Marked with a pen" {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestExtractColoredText(t *testing.T) {
	var chars []pdf.CharObject
	chars = append(chars, layout("plain text", 100, 700, 12, pdf.GrayColor(0), 0)...)
	chars = append(chars, layout("red warning", 100, 680, 12, pdf.RGBColor(1, 0, 0), 0)...)
	chars = append(chars, layout("bold claim", 100, 660, 12, nil, pdf.FlagBold)...)
	chars = append(chars, layout("serif body", 100, 640, 12, nil, pdf.FlagSerif)...)
	chars = append(chars, layout("red", 100, 620, 12, pdf.RGBColor(1, 0, 0), 0)...)

	page := newFakePage(1, chars)
	result := newTestExtractor(t, DefaultConfig()).Extract(&fakeDocument{pages: []*fakePage{page}})

	got := texts(result.Records)
	want := []string{"red warning", "bold claim"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("records = %q, want %q", got, want)
	}
	if result.Records[0].Color.Hex() != "#ff0000" || result.Records[1].Color != nil {
		t.Errorf("colors = %v, %v", result.Records[0].Color, result.Records[1].Color)
	}
}

func TestExtractComprehensive(t *testing.T) {
	chars := layout("THIS IS A HEADING", 100, 700, 12, nil, 0)
	chars = append(chars, layout("an ordinary sentence here", 100, 650, 12, nil, 0)...)
	doc := &fakeDocument{pages: []*fakePage{newFakePage(1, chars)}}

	off := newTestExtractor(t, DefaultConfig()).Extract(doc)
	if len(off.Records) != 0 {
		t.Fatalf("comprehensive mode is off by default, got %+v", off.Records)
	}

	cfg := DefaultConfig()
	cfg.Methods.Comprehensive = true
	on := newTestExtractor(t, cfg).Extract(doc)
	if len(on.Records) != 1 {
		t.Fatalf("expected one comprehensive record, got %+v", on.Records)
	}
	if r := on.Records[0]; r.Method != MethodComprehensive || r.Text != "THIS IS A HEADING" || r.Reason != ReasonUppercase {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestExtractContinuesPastBadPages(t *testing.T) {
	chars := layout("Important finding", 100, 700, 12, nil, 0)
	good := newFakePage(3, chars).withAnnotations(highlightOver(chars, pdf.RGBColor(1, 1, 0)))

	broken := newFakePage(2, layout("styled text", 100, 700, 12, pdf.RGBColor(0, 0, 1), 0))
	broken.panicIn = "spans"
	broken.objects.Skipped = []pdf.SkippedObject{{Kind: pdf.ObjectTypeFont, Index: 0, Err: errors.New("bad font")}}

	doc := &fakeDocument{pages: []*fakePage{nil, broken, good}}
	result := newTestExtractor(t, DefaultConfig()).Extract(doc)

	if result.PagesScanned != 3 {
		t.Errorf("PagesScanned = %d, want 3", result.PagesScanned)
	}
	if len(result.Records) != 1 || result.Records[0].Page != 3 {
		t.Fatalf("expected the page 3 record, got %+v", result.Records)
	}

	sources := map[string]int{}
	for _, d := range result.Diagnostics {
		sources[d.Source] = d.Page
	}
	if sources["page"] != 1 || sources["span"] != 2 || sources["font"] != 2 {
		t.Errorf("unexpected diagnostics %v", result.Diagnostics)
	}
}

func TestExtractDeduplicatesAcrossPages(t *testing.T) {
	chars := layout("Repeated finding", 100, 700, 12, nil, 0)
	annot := highlightOver(chars, pdf.RGBColor(1, 1, 0))
	doc := &fakeDocument{pages: []*fakePage{
		newFakePage(1, chars).withAnnotations(annot),
		newFakePage(2, layout("REPEATED FINDING", 100, 700, 12, nil, 0)).withAnnotations(annot),
	}}

	result := newTestExtractor(t, DefaultConfig()).Extract(doc)
	if len(result.Records) != 1 || result.Records[0].Page != 1 {
		t.Fatalf("expected the first occurrence only, got %+v", result.Records)
	}
	if result.Stats.Total != 2 || result.Stats.Unique != 1 || result.Stats.ByMethod["Annotation-Highlight"] != 2 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}
}

func TestExtractMatchHook(t *testing.T) {
	chars := layout("Repeated finding", 100, 700, 12, nil, 0)
	annot := highlightOver(chars, pdf.RGBColor(1, 1, 0))
	doc := &fakeDocument{pages: []*fakePage{
		newFakePage(1, chars).withAnnotations(annot),
		newFakePage(2, chars).withAnnotations(annot),
	}}

	var seen []MatchRecord
	e := newTestExtractor(t, DefaultConfig(), WithMatchHook(func(r MatchRecord) {
		seen = append(seen, r)
	}))
	result := e.Extract(doc)

	if len(seen) != 2 || seen[0].Page != 1 || seen[1].Page != 2 {
		t.Fatalf("hook saw %+v", seen)
	}
	if seen[0].Text != "Repeated finding" || seen[0].Method != "Annotation-Highlight" {
		t.Errorf("unexpected record %+v", seen[0])
	}
	if len(result.Records) != 1 {
		t.Errorf("duplicates should still be removed from the result, got %d", len(result.Records))
	}
}

func TestExtractWithoutBackgroundOrStyleFilters(t *testing.T) {
	chars := layout("serif body", 100, 700, 12, nil, pdf.FlagSerif)
	chars = append(chars, layout("plain sentence here", 100, 650, 12, nil, 0)...)
	page := newFakePage(1, chars).withDrawings(
		pdf.Drawing{X0: 0, Y0: 0, X1: 612, Y1: 792, Fill: pdf.GrayColor(1), IsRect: true},
	)

	cfg := DefaultConfig()
	cfg.StyleFlags = []string{"bold", "italic", "superscript", "serif", "monospace"}
	cfg.MaxDrawingCoverage = 0

	result := newTestExtractor(t, cfg).Extract(&fakeDocument{pages: []*fakePage{page}})
	if len(result.Records) != 2 {
		t.Fatalf("expected a drawing and a styled span, got %+v", result.Records)
	}
	if r := result.Records[0]; r.Method != MethodDrawing || !strings.Contains(r.Text, "plain sentence here") {
		t.Errorf("unexpected drawing record %+v", r)
	}
	if r := result.Records[1]; r.Method != MethodColoredText || r.Text != "serif body" {
		t.Errorf("unexpected span record %+v", r)
	}

	// The defaults skip both
	result = newTestExtractor(t, DefaultConfig()).Extract(&fakeDocument{pages: []*fakePage{page}})
	if len(result.Records) != 0 {
		t.Errorf("defaults should skip the background and serif text, got %+v", result.Records)
	}
}

func TestExtractMaxPages(t *testing.T) {
	chars := layout("Important finding", 100, 700, 12, nil, 0)
	page := func(n int) *fakePage {
		return newFakePage(n, chars).withAnnotations(highlightOver(chars, nil))
	}
	cfg := DefaultConfig()
	cfg.MaxPages = 1

	result := newTestExtractor(t, cfg).Extract(&fakeDocument{pages: []*fakePage{page(1), page(2)}})
	if result.PagesScanned != 1 || result.PageCount != 2 {
		t.Errorf("scanned %d of %d pages", result.PagesScanned, result.PageCount)
	}
}

func TestExtractFile(t *testing.T) {
	chars := layout("Important finding", 100, 700, 12, nil, 0)
	doc := &fakeDocument{pages: []*fakePage{newFakePage(1, chars).withAnnotations(highlightOver(chars, nil))}}

	var opened string
	opener := func(path string, opts ...pdf.OpenOption) (pdf.Document, error) {
		opened = path
		return doc, nil
	}

	result, err := newTestExtractor(t, DefaultConfig(), WithOpener(opener)).ExtractFile("/data/report.pdf")
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if opened != "/data/report.pdf" || result.Source != "report.pdf" {
		t.Errorf("opened %q, source %q", opened, result.Source)
	}
	if !doc.closed {
		t.Error("document was not closed")
	}
	if len(result.Records) != 1 {
		t.Errorf("expected one record, got %d", len(result.Records))
	}
}

func TestExtractFileInputError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	opener := func(path string, opts ...pdf.OpenOption) (pdf.Document, error) {
		return nil, errors.New("not a PDF")
	}

	e := newTestExtractor(t, DefaultConfig(), WithOpener(opener), WithLogger(logger))
	result, err := e.ExtractFile("broken.pdf")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrInput) {
		t.Errorf("error %v does not match ErrInput", err)
	}
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Path != "broken.pdf" {
		t.Errorf("expected an *InputError, got %T", err)
	}
	if result == nil || len(result.Records) != 0 {
		t.Errorf("expected an empty result, got %+v", result)
	}
	if !strings.Contains(logs.String(), "cannot open document") {
		t.Errorf("expected the failure to be logged, got %q", logs.String())
	}
}

func TestExtractFileMissing(t *testing.T) {
	_, err := newTestExtractor(t, DefaultConfig()).ExtractFile("does-not-exist.pdf")
	if !errors.Is(err, ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestNewExtractorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineTolerance = 0
	if _, err := NewExtractor(cfg); err == nil {
		t.Error("expected an error")
	}
}
