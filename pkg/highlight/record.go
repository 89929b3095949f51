package highlight

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// Method tags how a match was detected
type Method string

const (
	MethodDrawing       Method = "Drawing"
	MethodColoredText   Method = "ColoredText"
	MethodComprehensive Method = "Comprehensive"

	annotationPrefix = "Annotation-"
)

// AnnotationMethod returns the method tag of an annotation kind,
// e.g. Annotation-Highlight
func AnnotationMethod(kind pdf.AnnotationKind) Method {
	return Method(annotationPrefix + string(kind))
}

// IsAnnotation reports whether the match came from an annotation
func (m Method) IsAnnotation() bool {
	return strings.HasPrefix(string(m), annotationPrefix)
}

// MatchRecord is one highlighted text found in a document
type MatchRecord struct {
	Page   int    // 1-based
	Text   string // trimmed, never empty
	Method Method

	Color pdf.Color        // nil when the source had no color
	Rect  *pdf.BoundingBox // nil when the source has no area

	// Step is the cascade step that produced Text for annotations.
	Step Step

	// Comment is the annotation's own text when Text came from the page.
	Comment string
	Author  string

	// Reason names the pattern of a Comprehensive match.
	Reason string
}

// newRecord normalizes text and reports false when nothing is left
func newRecord(page int, text string, method Method) (MatchRecord, bool) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return MatchRecord{}, false
	}
	return MatchRecord{Page: page, Text: text, Method: method}, true
}

func rectOf(o pdf.Object) *pdf.BoundingBox {
	box := o.GetBBox()
	return &box
}
