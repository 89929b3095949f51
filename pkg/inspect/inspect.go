// Package inspect prints what a PDF contains that matters for highlight
// detection: annotations, filled drawings and styled text.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/highlight"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/report"
)

// Options controls how much is printed
type Options struct {
	Pages       int // pages to inspect from the start, 0 for all
	Drawings    int // drawings listed per page
	TextPreview int // columns of text shown per annotation
	StyleFlags  pdf.FontFlags
}

// DefaultOptions inspects the first three pages
func DefaultOptions() Options {
	return Options{
		Pages:       3,
		Drawings:    5,
		TextPreview: 100,
		StyleFlags:  pdf.FlagBold | pdf.FlagItalic | pdf.FlagSuperscript,
	}
}

// Document writes the structure dump of doc to w
func Document(w io.Writer, doc pdf.Document, opts Options) {
	pages := doc.PageCount()
	fmt.Fprintf(w, "Pages: %d\n", pages)
	if meta := doc.GetMetadata(); meta.Title != "" || meta.Producer != "" {
		fmt.Fprintf(w, "Title: %s\nProducer: %s\n", meta.Title, meta.Producer)
	}
	if opts.Pages > 0 && opts.Pages < pages {
		pages = opts.Pages
	}

	for i := 0; i < pages; i++ {
		fmt.Fprintf(w, "\n--- Page %d ---\n", i+1)
		page, err := doc.GetPage(i)
		if err != nil {
			fmt.Fprintf(w, "  cannot load page: %v\n", err)
			continue
		}
		Page(w, page, opts)
	}
}

// Page writes the structure dump of one page to w
func Page(w io.Writer, page pdf.Page, opts Options) {
	objects := page.GetObjects()

	fmt.Fprintf(w, "Size: %.1f x %.1f\n", page.GetWidth(), page.GetHeight())
	fmt.Fprintf(w, "Characters: %d\n", len(objects.Chars))

	fmt.Fprintf(w, "Annotations: %d\n", len(objects.Annotations))
	for i, a := range objects.Annotations {
		color := a.EffectiveColor()
		fmt.Fprintf(w, "  [%d] %s rect=%s\n", i+1, a.Kind, a.GetBBox())
		fmt.Fprintf(w, "      color=%s interior=%s class=%s\n", show(a.Color), show(a.InteriorColor), highlight.ClassifyColor(color))
		if a.Contents != "" {
			fmt.Fprintf(w, "      contents=%q\n", report.Preview(a.Contents, opts.TextPreview))
		}
		if a.Author != "" {
			fmt.Fprintf(w, "      author=%s\n", a.Author)
		}
		if !a.Modified.IsZero() {
			fmt.Fprintf(w, "      modified=%s\n", a.Modified.Format(report.DateLayout))
		}
		if text := page.TextInRect(a.GetBBox()); text != "" {
			fmt.Fprintf(w, "      text=%q\n", report.Preview(text, opts.TextPreview))
		}
	}

	fmt.Fprintf(w, "Drawings: %d\n", len(objects.Drawings))
	for i, d := range objects.Drawings {
		if opts.Drawings > 0 && i >= opts.Drawings {
			fmt.Fprintf(w, "  ... %d more\n", len(objects.Drawings)-i)
			break
		}
		fmt.Fprintf(w, "  [%d] %s fill=%s stroke=%s rect=%s", i+1, d.Shape(), show(d.Fill), show(d.Stroke), d.GetBBox())
		if d.Fill.IsSet() {
			fmt.Fprintf(w, " class=%s", highlight.ClassifyColor(d.Fill))
		}
		fmt.Fprintln(w)
	}

	styled := 0
	for _, span := range page.Spans() {
		if (span.Color.IsSet() && !span.Color.IsBlack()) || span.Flags&opts.StyleFlags != 0 {
			styled++
		}
	}
	fmt.Fprintf(w, "Colored or styled spans: %d\n", styled)

	for _, s := range objects.Skipped {
		fmt.Fprintf(w, "Skipped %s: %v\n", s.Kind, s.Err)
	}
}

func show(c pdf.Color) string {
	if !c.IsSet() {
		return "none"
	}
	return strings.TrimSpace(c.String())
}
