package pdf

import (
	"os"

	gopdf "github.com/dslipak/pdf"
	"github.com/pkg/errors"
)

// DsliPakDocument reads the text layer of a PDF with dslipak/pdf.
// It sees neither annotations nor drawings.
type DsliPakDocument struct {
	file   *os.File
	reader *gopdf.Reader
	opts   []TextExtractionOption
}

// OpenWithDslipak opens a PDF file using the dslipak/pdf library
func OpenWithDslipak(path string, opts ...OpenOption) (Document, error) {
	return openDslipak(path, newOpenConfig(opts))
}

func openDslipak(path string, cfg openConfig) (doc *DsliPakDocument, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("dslipak: %v", r)
		}
		if err != nil {
			f.Close()
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	var r *gopdf.Reader
	if cfg.Password != "" {
		r, err = gopdf.NewReaderEncrypted(f, fi.Size(), passwordOnce(cfg.Password))
	} else {
		r, err = gopdf.NewReader(f, fi.Size())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF with dslipak")
	}

	return &DsliPakDocument{file: f, reader: r, opts: cfg.TextOptions}, nil
}

// GetMetadata returns the PDF metadata
func (d *DsliPakDocument) GetMetadata() Metadata {
	return Metadata{}
}

// GetPage loads the text layer of a page by index (0-based)
func (d *DsliPakDocument) GetPage(index int) (Page, error) {
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
func (d *DsliPakDocument) pageChars(pageNumber int) (chars []CharObject, bbox BoundingBox, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("dslipak: page %d: %v", pageNumber, r)
		}
	}()

	page := d.reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, bbox, errors.Errorf("dslipak: page %d not found", pageNumber)
	}

	bbox = BoundingBox{X1: 612, Y1: 792}
	if mb := page.V.Key("MediaBox"); mb.Kind() == gopdf.Array && mb.Len() == 4 {
		bbox = NewBoundingBox(mb.Index(0).Float64(), mb.Index(1).Float64(), mb.Index(2).Float64(), mb.Index(3).Float64())
	}

	for _, text := range page.Content().Text {
		chars = append(chars, charsFromRun(text.Font, text.FontSize, text.X, text.Y, text.W, text.S)...)
	}
	return chars, bbox, nil
}

// PageCount returns the total number of pages
func (d *DsliPakDocument) PageCount() int {
	return d.reader.NumPage()
}

// Close releases resources associated with the document
func (d *DsliPakDocument) Close() error {
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}
