package pdf

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// ErrPageRange is returned for a page index outside the document.
var ErrPageRange = errors.New("page index out of range")

// textLayer is a secondary reader used for pages whose characters
// pdfcpu cannot decode
type textLayer interface {
	pageChars(pageNumber int) ([]CharObject, BoundingBox, error)
	Close() error
}

// PDFDocument implements the Document interface using pdfcpu
type PDFDocument struct {
	ctx      *model.Context
	file     *os.File
	filepath string
	cfg      openConfig
	metadata Metadata

	fallback      textLayer
	fallbackTried bool
}

// Open opens a PDF file and returns a Document. Pages are loaded on demand.
func Open(filepath string, opts ...OpenOption) (Document, error) {
	return openPDFCPU(filepath, newOpenConfig(opts))
}

// OpenWithPassword opens a password-protected PDF file
func OpenWithPassword(filepath string, password string) (Document, error) {
	return Open(filepath, WithPassword(password))
}

func openPDFCPU(filepath string, cfg openConfig) (doc *PDFDocument, err error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("pdfcpu: %v", r)
		}
		if err != nil {
			f.Close()
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if cfg.Password != "" {
		conf.UserPW = cfg.Password
		conf.OwnerPW = cfg.Password
	}

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read PDF context")
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, errors.Wrap(err, "invalid PDF")
	}

	doc = &PDFDocument{
		ctx:      ctx,
		file:     f,
		filepath: filepath,
		cfg:      cfg,
	}
	doc.extractMetadata()
	return doc, nil
}

// extractMetadata reads the document information dictionary
func (d *PDFDocument) extractMetadata() {
	if d.ctx.Info == nil {
		return
	}
	r := resolver{ctx: d.ctx}
	info, err := r.dict(d.ctx.Info)
	if err != nil || info == nil {
		return
	}

	str := func(key string) string {
		s, _ := r.text(info[key])
		return s
	}
	d.metadata = Metadata{
		Title:        str("Title"),
		Author:       str("Author"),
		Subject:      str("Subject"),
		Keywords:     str("Keywords"),
		Creator:      str("Creator"),
		Producer:     str("Producer"),
		CreationDate: parsePDFDate(str("CreationDate")),
		ModDate:      parsePDFDate(str("ModDate")),
	}
}

// GetMetadata returns the PDF metadata
func (d *PDFDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPage loads a page by index (0-based). When the page shows text that
// could not be decoded, its characters come from a secondary reader.
func (d *PDFDocument) GetPage(index int) (Page, error) {
	if d.ctx == nil {
		return nil, errors.New("document is closed")
	}
	if index < 0 || index >= d.PageCount() {
		return nil, errors.Wrapf(ErrPageRange, "page index %d of %d", index, d.PageCount())
	}

	page, err := NewPDFCPUPage(d.ctx, index+1, d.cfg.TextOptions...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create page %d", index+1)
	}

	if d.cfg.TextFallback && page.hasUndecodedText() {
		if layer := d.textLayer(); layer != nil {
			chars, _, err := layer.pageChars(index + 1)
			if err != nil {
				page.objects.Skipped = append(page.objects.Skipped, SkippedObject{Kind: ObjectTypeChar, Index: index + 1, Err: err})
			} else {
				page.useFallbackChars(chars, d.cfg.TextOptions)
			}
		}
	}
	return page, nil
}

// textLayer opens the secondary reader on first use
func (d *PDFDocument) textLayer() textLayer {
	if d.fallbackTried {
		return d.fallback
	}
	d.fallbackTried = true

	if doc, err := openLedongthuc(d.filepath, d.cfg); err == nil {
		d.fallback = doc
	} else if doc, err := openDslipak(d.filepath, d.cfg); err == nil {
		d.fallback = doc
	}
	return d.fallback
}

// PageCount returns the total number of pages
func (d *PDFDocument) PageCount() int {
	if d.ctx == nil {
		return 0
	}
	return d.ctx.PageCount
}

// Close releases resources associated with the document
func (d *PDFDocument) Close() error {
	var err error
	if d.fallback != nil {
		err = d.fallback.Close()
		d.fallback = nil
	}
	if d.file != nil {
		if cerr := d.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		d.file = nil
	}
	d.ctx = nil
	return err
}
