package highlight

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// DefaultKeywords mark a line as worth reporting in comprehensive mode
var DefaultKeywords = []string{"important", "note", "key", "main", "primary", "essential"}

// Line is a run of words sharing a baseline
type Line struct {
	Text string
	BBox pdf.BoundingBox
}

// GroupLines joins consecutive words into lines. A word stays on the
// current line while its y0 differs from the previous word's by less than
// tolerance.
func GroupLines(words []pdf.Word, tolerance float64) []Line {
	var lines []Line
	var parts []string
	var box pdf.BoundingBox
	var lastY float64

	flush := func() {
		if len(parts) > 0 {
			lines = append(lines, Line{Text: strings.Join(parts, " "), BBox: box})
			parts = nil
		}
	}

	for i, w := range words {
		if i > 0 && math.Abs(w.Y0-lastY) >= tolerance {
			flush()
		}
		if len(parts) == 0 {
			box = w.GetBBox()
		} else {
			box = box.Union(w.GetBBox())
		}
		parts = append(parts, w.Text)
		lastY = w.Y0
	}
	flush()

	return lines
}

// Pattern reasons
const (
	ReasonKeyword   = "keyword"
	ReasonUppercase = "uppercase"
	ReasonAsterisk  = "asterisk"
	ReasonDashes    = "dashes"
)

// MatchLine returns why a line stands out, or "" when it does not.
// Lines of minLength characters or fewer never match.
func MatchLine(line string, minLength int, keywords []string) string {
	if utf8.RuneCountInString(line) <= minLength {
		return ""
	}

	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return ReasonKeyword
		}
	}
	if isUpper(line) {
		return ReasonUppercase
	}
	if strings.Contains(line, "*") {
		return ReasonAsterisk
	}
	if strings.Count(line, "-") > 2 {
		return ReasonDashes
	}
	return ""
}

// isUpper reports whether s has a cased letter and no lowercase one
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
