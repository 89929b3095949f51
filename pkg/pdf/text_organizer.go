package pdf

import (
	"math"
	"sort"
	"strings"
)

// TextOrganizer groups characters into spans, words and lines
type TextOrganizer struct {
	xTolerance float64 // Horizontal tolerance for grouping characters into words
	yTolerance float64 // Vertical tolerance for grouping characters into lines
}

// NewTextOrganizer creates a new text organizer, by default with 3pt tolerances
func NewTextOrganizer(opts ...TextExtractionOption) *TextOrganizer {
	config := defaultTextExtractionConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &TextOrganizer{
		xTolerance: config.XTolerance,
		yTolerance: config.YTolerance,
	}
}

// sameLine reports whether two characters sit on the same text line
func (to *TextOrganizer) sameLine(a, b CharObject) bool {
	return math.Abs(a.Y0-b.Y0) <= to.yTolerance
}

// isGap reports whether the horizontal distance between two consecutive
// characters separates words
func (to *TextOrganizer) isGap(prev, cur CharObject) bool {
	gap := cur.X0 - prev.X1
	return gap > min(to.xTolerance, 0.15*max(cur.FontSize, 1))
}

// isBreak reports whether cur starts a new run after prev in content order
func (to *TextOrganizer) isBreak(prev, cur CharObject) bool {
	if !to.sameLine(prev, cur) {
		return true
	}
	// Moving backwards means a new column or an overprinted run.
	return cur.X0 < prev.X0-to.xTolerance
}

// Spans groups characters into spans in content order. A span ends when
// the line, font, size, color or flags change.
func (to *TextOrganizer) Spans(chars []CharObject) []TextSpan {
	var spans []TextSpan
	var current []CharObject

	flush := func() {
		if len(current) > 0 {
			spans = append(spans, to.createSpan(current))
			current = nil
		}
	}

	for i, char := range chars {
		if i > 0 {
			prev := chars[i-1]
			if to.isBreak(prev, char) || !sameStyle(prev, char) {
				flush()
			}
		}
		current = append(current, char)
	}
	flush()

	return spans
}

// createSpan creates a TextSpan from a run of same-style characters
func (to *TextOrganizer) createSpan(chars []CharObject) TextSpan {
	first := chars[0]
	box := first.GetBBox()
	for _, char := range chars[1:] {
		box = box.Union(char.GetBBox())
	}
	return TextSpan{
		Text:     to.joinChars(chars),
		Font:     first.Font,
		FontSize: first.FontSize,
		Color:    first.Color,
		Flags:    first.Flags,
		X0:       box.X0,
		Y0:       box.Y0,
		X1:       box.X1,
		Y1:       box.Y1,
	}
}

// Words groups characters into words in content order
func (to *TextOrganizer) Words(chars []CharObject) []Word {
	var words []Word
	var current []CharObject

	flush := func() {
		if len(current) > 0 {
			words = append(words, createWord(current))
			current = nil
		}
	}

	for i, char := range chars {
		if char.IsSpace() {
			flush()
			continue
		}
		if i > 0 && len(current) > 0 {
			prev := current[len(current)-1]
			if to.isBreak(prev, char) || to.isGap(prev, char) {
				flush()
			}
		}
		current = append(current, char)
	}
	flush()

	return words
}

// createWord creates a Word from a group of characters
func createWord(chars []CharObject) Word {
	var text strings.Builder
	box := chars[0].GetBBox()
	for _, char := range chars {
		text.WriteString(char.Text)
		box = box.Union(char.GetBBox())
	}

	return Word{
		Text:       text.String(),
		X0:         box.X0,
		Y0:         box.Y0,
		X1:         box.X1,
		Y1:         box.Y1,
		Characters: chars,
	}
}

// Lines groups characters into lines in reading order: top to bottom,
// each line left to right.
func (to *TextOrganizer) Lines(chars []CharObject) [][]CharObject {
	if len(chars) == 0 {
		return nil
	}

	sorted := make([]CharObject, len(chars))
	copy(sorted, chars)
	// PDF coordinates: Y increases upward
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y0 > sorted[j].Y0
	})

	var lines [][]CharObject
	var current []CharObject
	lineY := sorted[0].Y0

	for _, char := range sorted {
		if math.Abs(char.Y0-lineY) > to.yTolerance {
			lines = append(lines, current)
			current = nil
			lineY = char.Y0
		}
		current = append(current, char)
	}
	lines = append(lines, current)

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X0 < line[j].X0
		})
	}

	return lines
}

// OrganizeText renders characters as text, one line per text line
func (to *TextOrganizer) OrganizeText(chars []CharObject) string {
	var lines []string
	for _, line := range to.Lines(chars) {
		if text := to.joinChars(line); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// TextInRect renders the characters whose centers lie inside bbox
func (to *TextOrganizer) TextInRect(chars []CharObject, bbox BoundingBox) string {
	var inside []CharObject
	for _, char := range chars {
		if bbox.Contains(char.GetBBox().Center()) {
			inside = append(inside, char)
		}
	}
	return to.OrganizeText(inside)
}

// joinChars concatenates characters, inserting a space at word gaps and
// collapsing runs of whitespace.
func (to *TextOrganizer) joinChars(chars []CharObject) string {
	var b strings.Builder
	for i, char := range chars {
		if i > 0 && to.isGap(chars[i-1], char) {
			b.WriteByte(' ')
		}
		b.WriteString(char.Text)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func sameStyle(a, b CharObject) bool {
	return a.Font == b.Font &&
		math.Abs(a.FontSize-b.FontSize) < 0.01 &&
		a.Flags == b.Flags &&
		colorsEqual(a.Color, b.Color)
}

func colorsEqual(a, b Color) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-6 {
			return false
		}
	}
	return true
}

// charLayer implements the text half of Page over a slice of characters
type charLayer struct {
	organizer *TextOrganizer
	chars     []CharObject
	spans     []TextSpan
	words     []Word
	grouped   bool
}

func newCharLayer(chars []CharObject, opts []TextExtractionOption) charLayer {
	return charLayer{organizer: NewTextOrganizer(opts...), chars: chars}
}

func (l *charLayer) group() {
	if l.grouped {
		return
	}
	l.spans = l.organizer.Spans(l.chars)
	l.words = l.organizer.Words(l.chars)
	l.grouped = true
}

// Spans returns the text spans in content order
func (l *charLayer) Spans() []TextSpan {
	l.group()
	return l.spans
}

// Words returns the words in content order
func (l *charLayer) Words() []Word {
	l.group()
	return l.words
}

// TextInRect returns the text whose glyph centers lie inside bbox
func (l *charLayer) TextInRect(bbox BoundingBox) string {
	return l.organizer.TextInRect(l.chars, bbox)
}

// ExtractText extracts the text of the whole page
func (l *charLayer) ExtractText(opts ...TextExtractionOption) string {
	organizer := l.organizer
	if len(opts) > 0 {
		organizer = NewTextOrganizer(opts...)
	}
	return organizer.OrganizeText(l.chars)
}
