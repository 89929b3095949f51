// Package highlight finds highlighted text on the pages of a PDF document.
//
// Four detection methods run on every page: markup annotations, light
// filled drawings behind text, colored or styled text spans, and an
// optional pattern-based line search. Matches are collected into
// MatchRecords and deduplicated.
package highlight

import (
	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

// ColorClass names the rule that accepted a color
type ColorClass int

const (
	ClassNone         ColorClass = iota // rejected
	ClassDefault                        // no color given
	ClassGray                           // single gray component
	ClassYellow                         // r>0.7 g>0.7 b<0.3
	ClassLightYellow                    // r>0.8 g>0.8 b<0.5
	ClassOrangeYellow                   // r>0.9 g>0.7 b<0.4
	ClassLight                          // mean of r, g and b above 0.6
)

var colorClassNames = map[ColorClass]string{
	ClassNone:         "none",
	ClassDefault:      "default",
	ClassGray:         "gray",
	ClassYellow:       "yellow",
	ClassLightYellow:  "light-yellow",
	ClassOrangeYellow: "orange-yellow",
	ClassLight:        "light",
}

func (c ColorClass) String() string {
	if name, ok := colorClassNames[c]; ok {
		return name
	}
	return "unknown"
}

// ClassifyColor returns the first rule accepting c, or ClassNone.
// Components are compared as given, without clamping.
func ClassifyColor(c pdf.Color) ColorClass {
	switch {
	case len(c) == 0:
		return ClassDefault
	case len(c) == 1:
		return ClassGray
	case len(c) < 3:
		return ClassNone
	}

	r, g, b := c[0], c[1], c[2]
	switch {
	case r > 0.7 && g > 0.7 && b < 0.3:
		return ClassYellow
	case r > 0.8 && g > 0.8 && b < 0.5:
		return ClassLightYellow
	case r > 0.9 && g > 0.7 && b < 0.4:
		return ClassOrangeYellow
	case (r+g+b)/3 > 0.6:
		return ClassLight
	}
	return ClassNone
}

// IsHighlightColor reports whether c looks like a highlighter color:
// absent, gray, yellow-ish or generally light.
func IsHighlightColor(c pdf.Color) bool {
	return ClassifyColor(c) != ClassNone
}
