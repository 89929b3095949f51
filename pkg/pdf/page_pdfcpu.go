package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// PDFCPUPage implements the Page interface using pdfcpu
type PDFCPUPage struct {
	charLayer

	pageNumber int
	bbox       BoundingBox
	objects    Objects
	content    []byte
}

// NewPDFCPUPage loads a page: its annotations, and the characters and
// drawings of its content stream
func NewPDFCPUPage(ctx *model.Context, pageNumber int, opts ...TextExtractionOption) (*PDFCPUPage, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if pageNumber < 1 || pageNumber > ctx.PageCount {
		return nil, errors.Wrapf(ErrPageRange, "page %d of %d", pageNumber, ctx.PageCount)
	}

	pageDict, _, attrs, err := ctx.PageDict(pageNumber, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page dict")
	}
	if pageDict == nil {
		return nil, errors.Errorf("page %d: missing page dictionary", pageNumber)
	}

	r := resolver{ctx: ctx}
	page := &PDFCPUPage{
		pageNumber: pageNumber,
		// Default US Letter size
		bbox: BoundingBox{X0: 0, Y0: 0, X1: 612, Y1: 792},
	}

	var resources types.Dict
	if attrs != nil {
		if attrs.MediaBox != nil {
			mb := attrs.MediaBox
			page.bbox = NewBoundingBox(mb.LL.X, mb.LL.Y, mb.UR.X, mb.UR.Y)
		}
		resources = attrs.Resources
	}
	if resources == nil {
		resources, _ = r.dict(pageDict["Resources"])
	}

	content, err := pageContent(r, pageDict)
	if err != nil {
		page.objects.Skipped = append(page.objects.Skipped, SkippedObject{Kind: ObjectTypePage, Index: pageNumber, Err: err})
	}
	page.content = content

	if len(content) > 0 {
		parser := NewContentStreamParser(ctx, resources)
		parsed := parser.Parse(content)
		page.objects.Chars = parsed.Chars
		page.objects.Drawings = parsed.Drawings
		page.objects.Skipped = append(page.objects.Skipped, parsed.Skipped...)
	}

	annots, skipped := parseAnnotations(r, pageDict)
	page.objects.Annotations = annots
	page.objects.Skipped = append(page.objects.Skipped, skipped...)

	page.charLayer = newCharLayer(page.objects.Chars, opts)
	return page, nil
}

// pageContent decodes and concatenates the content streams of a page
func pageContent(r resolver, pageDict types.Dict) ([]byte, error) {
	contents := pageDict["Contents"]
	if contents == nil {
		return nil, nil
	}

	var refs types.Array
	if a, err := r.array(contents); err == nil {
		refs = a
	} else {
		refs = types.Array{contents}
	}

	var combined []byte
	var firstErr error
	for _, ref := range refs {
		data, err := r.stream(ref)
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrap(err, "content stream")
			}
			continue
		}
		combined = append(combined, data...)
		combined = append(combined, '\n')
	}
	return combined, firstErr
}

// useFallbackChars replaces the character layer, keeping annotations and drawings
func (p *PDFCPUPage) useFallbackChars(chars []CharObject, opts []TextExtractionOption) {
	p.objects.Chars = chars
	p.charLayer = newCharLayer(chars, opts)
}

// hasUndecodedText reports whether the content stream may show text but no
// character could be decoded
func (p *PDFCPUPage) hasUndecodedText() bool {
	return len(p.objects.Chars) == 0 && len(p.content) > 0 && mayShowText(p.content)
}

// GetPageNumber returns the page number (1-based)
func (p *PDFCPUPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *PDFCPUPage) GetWidth() float64 {
	return p.bbox.Width()
}

// GetHeight returns the page height
func (p *PDFCPUPage) GetHeight() float64 {
	return p.bbox.Height()
}

// GetBBox returns the page media box
func (p *PDFCPUPage) GetBBox() BoundingBox {
	return p.bbox
}

// GetObjects returns all objects on the page
func (p *PDFCPUPage) GetObjects() Objects {
	return p.objects
}

// mayShowText reports whether a content stream has a text object or
// draws an XObject that could hold one
func mayShowText(content []byte) bool {
	lexer := newContentLexer(content)
	for {
		_, op, isOp, ok := lexer.next()
		if !ok {
			return false
		}
		if isOp && (op == "BT" || op == "Do") {
			return true
		}
		if isOp && op == "BI" {
			lexer.skipInlineImage()
		}
	}
}
