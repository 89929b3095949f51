package highlight

import (
	"github.com/pkg/errors"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// layout places text on a baseline with fixed advances of 0.5em
func layout(text string, x, y, size float64, color pdf.Color, flags pdf.FontFlags) []pdf.CharObject {
	var chars []pdf.CharObject
	for _, r := range text {
		chars = append(chars, pdf.CharObject{
			Text:     string(r),
			Font:     "Helvetica",
			FontSize: size,
			X0:       x,
			Y0:       y - 0.2*size,
			X1:       x + 0.5*size,
			Y1:       y + 0.8*size,
			Color:    color,
			Flags:    flags,
		})
		x += 0.5 * size
	}
	return chars
}

// fakePage is a page assembled from characters, drawings and annotations
type fakePage struct {
	number    int
	bbox      pdf.BoundingBox
	objects   pdf.Objects
	organizer *pdf.TextOrganizer
	panicIn   string
}

func newFakePage(number int, chars []pdf.CharObject) *fakePage {
	return &fakePage{
		number:    number,
		bbox:      pdf.BoundingBox{X1: 612, Y1: 792},
		objects:   pdf.Objects{Chars: chars},
		organizer: pdf.NewTextOrganizer(),
	}
}

func (p *fakePage) withAnnotations(a ...pdf.AnnotationObject) *fakePage {
	p.objects.Annotations = append(p.objects.Annotations, a...)
	return p
}

func (p *fakePage) withDrawings(d ...pdf.Drawing) *fakePage {
	p.objects.Drawings = append(p.objects.Drawings, d...)
	return p
}

func (p *fakePage) GetPageNumber() int       { return p.number }
func (p *fakePage) GetWidth() float64        { return p.bbox.Width() }
func (p *fakePage) GetHeight() float64       { return p.bbox.Height() }
func (p *fakePage) GetBBox() pdf.BoundingBox { return p.bbox }
func (p *fakePage) GetObjects() pdf.Objects  { return p.objects }

func (p *fakePage) Spans() []pdf.TextSpan {
	if p.panicIn == "spans" {
		panic("broken text layer")
	}
	return p.organizer.Spans(p.objects.Chars)
}

func (p *fakePage) Words() []pdf.Word {
	return p.organizer.Words(p.objects.Chars)
}

func (p *fakePage) TextInRect(bbox pdf.BoundingBox) string {
	return p.organizer.TextInRect(p.objects.Chars, bbox)
}

func (p *fakePage) ExtractText(opts ...pdf.TextExtractionOption) string {
	return p.organizer.OrganizeText(p.objects.Chars)
}

// fakeDocument serves fake pages; pages set to nil fail to load
type fakeDocument struct {
	pages  []*fakePage
	closed bool
}

func (d *fakeDocument) GetMetadata() pdf.Metadata { return pdf.Metadata{} }

func (d *fakeDocument) GetPage(index int) (pdf.Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, pdf.ErrPageRange
	}
	if d.pages[index] == nil {
		return nil, errors.Errorf("page %d is damaged", index+1)
	}
	return d.pages[index], nil
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// stubSource answers the cascade with fixed values
type stubSource struct {
	spans  []pdf.TextSpan
	words  []pdf.Word
	inRect func(pdf.BoundingBox) string
}

func (s stubSource) Spans() []pdf.TextSpan { return s.spans }
func (s stubSource) Words() []pdf.Word     { return s.words }

func (s stubSource) TextInRect(bbox pdf.BoundingBox) string {
	if s.inRect == nil {
		return ""
	}
	return s.inRect(bbox)
}
