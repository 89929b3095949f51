package highlight

import (
	"strings"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// TextSource is the text layer of one page
type TextSource interface {
	Spans() []pdf.TextSpan
	Words() []pdf.Word
	TextInRect(bbox pdf.BoundingBox) string
}

// Step identifies the cascade step that produced a text
type Step int

const (
	StepNone Step = iota
	StepSpans
	StepRect
	StepExpandedRect
	StepWords
	StepContent
)

var stepNames = [...]string{
	StepNone:         "none",
	StepSpans:        "spans",
	StepRect:         "rect",
	StepExpandedRect: "expanded-rect",
	StepWords:        "words",
	StepContent:      "content",
}

func (s Step) String() string {
	if s >= 0 && int(s) < len(stepNames) {
		return stepNames[s]
	}
	return "unknown"
}

// Recovery is the outcome of RecoverText
type Recovery struct {
	Text string
	Step Step
}

// RecoverText finds the text under rect, trying in order: the spans
// intersecting rect, the text inside rect, the text inside rect grown by
// margin, the words intersecting rect, and finally content. The first
// result that is not blank wins.
func RecoverText(src TextSource, rect pdf.BoundingBox, content string, margin float64) Recovery {
	if text := joinIntersecting(src.Spans(), rect, func(s pdf.TextSpan) (string, pdf.BoundingBox) {
		return s.Text, s.GetBBox()
	}); text != "" {
		return Recovery{Text: text, Step: StepSpans}
	}

	if text := strings.TrimSpace(src.TextInRect(rect)); text != "" {
		return Recovery{Text: text, Step: StepRect}
	}

	if text := strings.TrimSpace(src.TextInRect(Expand(rect, margin))); text != "" {
		return Recovery{Text: text, Step: StepExpandedRect}
	}

	if text := joinIntersecting(src.Words(), rect, func(w pdf.Word) (string, pdf.BoundingBox) {
		return w.Text, w.GetBBox()
	}); text != "" {
		return Recovery{Text: text, Step: StepWords}
	}

	if strings.TrimSpace(content) != "" {
		return Recovery{Text: content, Step: StepContent}
	}

	return Recovery{Step: StepNone}
}

// joinIntersecting space-joins the text of the items intersecting rect
func joinIntersecting[T any](items []T, rect pdf.BoundingBox, get func(T) (string, pdf.BoundingBox)) string {
	var parts []string
	for _, item := range items {
		text, box := get(item)
		if !RectsIntersect(box, rect) {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// RectsIntersect reports whether the interiors of a and b overlap.
// Rectangles touching only at an edge do not intersect.
func RectsIntersect(a, b pdf.BoundingBox) bool {
	return a.Intersects(b)
}

// Expand grows rect by margin on all four sides
func Expand(rect pdf.BoundingBox, margin float64) pdf.BoundingBox {
	return rect.Expand(margin)
}
