package pdf

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// LedongthucDocument reads the text layer of a PDF with ledongthuc/pdf.
// It sees neither annotations nor drawings.
type LedongthucDocument struct {
	file   *os.File
	reader *lpdf.Reader
	opts   []TextExtractionOption
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(path string, opts ...OpenOption) (Document, error) {
	return openLedongthuc(path, newOpenConfig(opts))
}

func openLedongthuc(path string, cfg openConfig) (doc *LedongthucDocument, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("ledongthuc: %v", r)
		}
		if err != nil {
			f.Close()
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	var r *lpdf.Reader
	if cfg.Password != "" {
		r, err = lpdf.NewReaderEncrypted(f, fi.Size(), passwordOnce(cfg.Password))
	} else {
		r, err = lpdf.NewReader(f, fi.Size())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF with ledongthuc")
	}

	return &LedongthucDocument{file: f, reader: r, opts: cfg.TextOptions}, nil
}

// GetMetadata returns the PDF metadata
func (d *LedongthucDocument) GetMetadata() Metadata {
	return Metadata{}
}

// GetPage loads the text layer of a page by index (0-based)
func (d *LedongthucDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= d.PageCount() {
		return nil, errors.Wrapf(ErrPageRange, "page index %d of %d", index, d.PageCount())
	}
	pageNumber := index + 1
	chars, bbox, err := d.pageChars(pageNumber)
	if err != nil {
		return nil, err
	}
	return newTextOnlyPage(pageNumber, bbox, chars, d.opts), nil
}

// pageChars converts the text runs of a page into characters
func (d *LedongthucDocument) pageChars(pageNumber int) (chars []CharObject, bbox BoundingBox, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("ledongthuc: page %d: %v", pageNumber, r)
		}
	}()

	page := d.reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, bbox, errors.Errorf("ledongthuc: page %d not found", pageNumber)
	}

	bbox = BoundingBox{X1: 612, Y1: 792}
	if mb := page.V.Key("MediaBox"); mb.Kind() == lpdf.Array && mb.Len() == 4 {
		bbox = NewBoundingBox(mb.Index(0).Float64(), mb.Index(1).Float64(), mb.Index(2).Float64(), mb.Index(3).Float64())
	}

	for _, text := range page.Content().Text {
		chars = append(chars, charsFromRun(text.Font, text.FontSize, text.X, text.Y, text.W, text.S)...)
	}
	return chars, bbox, nil
}

// PageCount returns the total number of pages
func (d *LedongthucDocument) PageCount() int {
	return d.reader.NumPage()
}

// Close releases resources associated with the document
func (d *LedongthucDocument) Close() error {
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}

// charsFromRun splits a positioned text run into characters of equal width.
// (x, y) is the baseline origin of the run.
func charsFromRun(font string, size, x, y, w float64, s string) []CharObject {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	charWidth := w / float64(len(runes))
	flags := FlagsFromFontName(font)
	font = stripSubsetTag(font)

	chars := make([]CharObject, 0, len(runes))
	for i, ch := range runes {
		if ch < 0x20 {
			continue
		}
		x0 := x + float64(i)*charWidth
		chars = append(chars, CharObject{
			Text:     string(ch),
			Font:     font,
			FontSize: size,
			X0:       x0,
			Y0:       y - 0.2*size,
			X1:       x0 + charWidth,
			Y1:       y + 0.8*size,
			Flags:    flags,
		})
	}
	return chars
}

// passwordOnce returns a password callback that offers the password a single time
func passwordOnce(password string) func() string {
	tried := false
	return func() string {
		if tried {
			return ""
		}
		tried = true
		return password
	}
}

// textOnlyPage is a page known only through its text layer
type textOnlyPage struct {
	charLayer

	pageNumber int
	bbox       BoundingBox
	objects    Objects
}

func newTextOnlyPage(pageNumber int, bbox BoundingBox, chars []CharObject, opts []TextExtractionOption) *textOnlyPage {
	return &textOnlyPage{
		charLayer:  newCharLayer(chars, opts),
		pageNumber: pageNumber,
		bbox:       bbox,
		objects:    Objects{Chars: chars},
	}
}

func (p *textOnlyPage) GetPageNumber() int   { return p.pageNumber }
func (p *textOnlyPage) GetWidth() float64    { return p.bbox.Width() }
func (p *textOnlyPage) GetHeight() float64   { return p.bbox.Height() }
func (p *textOnlyPage) GetBBox() BoundingBox { return p.bbox }
func (p *textOnlyPage) GetObjects() Objects  { return p.objects }

func (p *textOnlyPage) String() string {
	return fmt.Sprintf("page %d (text layer, %d chars)", p.pageNumber, len(p.objects.Chars))
}
