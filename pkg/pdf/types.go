package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r2"
)

// ObjectType represents the type of PDF object
type ObjectType string

const (
	ObjectTypeChar    ObjectType = "char"
	ObjectTypeSpan    ObjectType = "span"
	ObjectTypeWord    ObjectType = "word"
	ObjectTypeDrawing ObjectType = "drawing"
	ObjectTypeAnno    ObjectType = "annotation"
	ObjectTypeFont    ObjectType = "font"
	ObjectTypeForm    ObjectType = "form"
	ObjectTypePage    ObjectType = "page"
)

// BoundingBox represents a rectangular area in PDF user space
// (origin at the bottom-left corner of the page).
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Bottom
	X1 float64 // Right
	Y1 float64 // Top
}

// NewBoundingBox returns the normalized box spanned by two corners.
func NewBoundingBox(x0, y0, x1, y1 float64) BoundingBox {
	return fromRect(r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1}))
}

func (b BoundingBox) rect() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: b.X0, Y: b.Y0}, r2.Point{X: b.X1, Y: b.Y1})
}

func fromRect(r r2.Rect) BoundingBox {
	return BoundingBox{X0: r.X.Lo, Y0: r.Y.Lo, X1: r.X.Hi, Y1: r.Y.Hi}
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the bounding box
func (b BoundingBox) Area() float64 {
	return b.Width() * b.Height()
}

// IsEmpty reports whether the box encloses no area.
func (b BoundingBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// Center returns the center point of the box
func (b BoundingBox) Center() (float64, float64) {
	c := b.rect().Center()
	return c.X, c.Y
}

// Contains checks if a point is within the bounding box (edges included)
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects reports whether the interiors of two boxes overlap.
// Boxes that only share an edge or a corner do not intersect.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.X0 < other.X1 && other.X0 < b.X1 && b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// Expand grows the box by margin on all four sides.
func (b BoundingBox) Expand(margin float64) BoundingBox {
	return fromRect(b.rect().ExpandedByMargin(margin))
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return fromRect(b.rect().Union(other.rect()))
}

// String formats the box as [x0, y0, x1, y1]
func (b BoundingBox) String() string {
	return fmt.Sprintf("[%.1f, %.1f, %.1f, %.1f]", b.X0, b.Y0, b.X1, b.Y1)
}

// Color is a device color with components in [0, 1].
// An empty Color means no color was specified, a single component is
// DeviceGray and three components are DeviceRGB. CMYK values are converted
// to RGB when they are read.
type Color []float64

// RGBColor returns an RGB color
func RGBColor(r, g, b float64) Color {
	return Color{r, g, b}
}

// GrayColor returns a gray color
func GrayColor(g float64) Color {
	return Color{g}
}

// CMYKColor converts a CMYK color to RGB.
func CMYKColor(c, m, y, k float64) Color {
	return Color{(1 - c) * (1 - k), (1 - m) * (1 - k), (1 - y) * (1 - k)}
}

// IsSet reports whether a color was specified
func (c Color) IsSet() bool {
	return len(c) > 0
}

// IsGray reports whether the color is a single gray component
func (c Color) IsGray() bool {
	return len(c) == 1
}

// RGB returns the color as red, green and blue components.
// Gray colors expand to equal components; an absent color is black.
func (c Color) RGB() (r, g, b float64) {
	switch {
	case len(c) >= 3:
		return c[0], c[1], c[2]
	case len(c) >= 1:
		return c[0], c[0], c[0]
	}
	return 0, 0, 0
}

// IsBlack reports whether the color is absent or pure black
func (c Color) IsBlack() bool {
	r, g, b := c.RGB()
	return r == 0 && g == 0 && b == 0
}

// Hex formats the color as #rrggbb
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", toByte(r), toByte(g), toByte(b))
}

// String formats the color as a component tuple, e.g. (1, 1, 0.1)
func (c Color) String() string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'g', 4, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func toByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Metadata represents PDF document metadata
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
}

// Objects represents the objects found on one page
type Objects struct {
	Chars       []CharObject
	Drawings    []Drawing
	Annotations []AnnotationObject

	// Skipped lists objects that could not be decoded.
	Skipped []SkippedObject
}

// SkippedObject describes a page object that failed to decode
type SkippedObject struct {
	Kind  ObjectType
	Index int
	Err   error
}

func (s SkippedObject) Error() string {
	return fmt.Sprintf("%s %d: %v", s.Kind, s.Index, s.Err)
}

// CharObject represents a character in the PDF
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Color    Color
	Flags    FontFlags
}

// GetType returns the object type
func (c CharObject) GetType() ObjectType {
	return ObjectTypeChar
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// IsSpace reports whether the character is whitespace
func (c CharObject) IsSpace() bool {
	return strings.TrimSpace(c.Text) == ""
}

// TextSpan is a run of characters on one line sharing font, size, color and flags.
type TextSpan struct {
	Text     string
	Font     string
	FontSize float64
	Color    Color
	Flags    FontFlags
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
}

// GetType returns the object type
func (s TextSpan) GetType() ObjectType {
	return ObjectTypeSpan
}

// GetBBox returns the span's bounding box
func (s TextSpan) GetBBox() BoundingBox {
	return BoundingBox{X0: s.X0, Y0: s.Y0, X1: s.X1, Y1: s.Y1}
}

// Word represents a whitespace-delimited word
type Word struct {
	Text       string
	X0         float64
	Y0         float64
	X1         float64
	Y1         float64
	Characters []CharObject
}

// GetType returns the object type
func (w Word) GetType() ObjectType {
	return ObjectTypeWord
}

// GetBBox returns the word's bounding box
func (w Word) GetBBox() BoundingBox {
	return BoundingBox{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1}
}

// Drawing is a painted vector path.
type Drawing struct {
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Fill     Color // nil when the path is only stroked
	Stroke   Color // nil when the path is only filled
	IsRect   bool
	Segments int
}

// GetType returns the object type
func (d Drawing) GetType() ObjectType {
	return ObjectTypeDrawing
}

// GetBBox returns the drawing's bounding box
func (d Drawing) GetBBox() BoundingBox {
	return BoundingBox{X0: d.X0, Y0: d.Y0, X1: d.X1, Y1: d.Y1}
}

// Shape names the drawing for diagnostics
func (d Drawing) Shape() string {
	if d.IsRect {
		return "rect"
	}
	return "path"
}

// AnnotationKind is the annotation subtype
type AnnotationKind string

const (
	AnnotHighlight AnnotationKind = "Highlight"
	AnnotSquiggly  AnnotationKind = "Squiggly"
	AnnotUnderline AnnotationKind = "Underline"
	AnnotStrikeOut AnnotationKind = "StrikeOut"
	AnnotSquare    AnnotationKind = "Square"
	AnnotFreeText  AnnotationKind = "FreeText"
	AnnotText      AnnotationKind = "Text"
	AnnotNote      AnnotationKind = "Note"
	AnnotPolygon   AnnotationKind = "Polygon"
)

// MarkupKinds lists the annotation kinds treated as text markup
var MarkupKinds = []AnnotationKind{
	AnnotHighlight, AnnotSquiggly, AnnotUnderline, AnnotStrikeOut, AnnotSquare,
	AnnotFreeText, AnnotText, AnnotNote, AnnotPolygon,
}

// ParseAnnotationKind maps a /Subtype name to its kind. Matching is case
// insensitive for the markup kinds; other subtypes are returned unchanged.
func ParseAnnotationKind(subtype string) AnnotationKind {
	for _, k := range MarkupKinds {
		if strings.EqualFold(string(k), subtype) {
			return k
		}
	}
	return AnnotationKind(subtype)
}

// AnnotationObject represents an annotation in the PDF
type AnnotationObject struct {
	Kind          AnnotationKind
	X0            float64
	Y0            float64
	X1            float64
	Y1            float64
	Color         Color // /C
	InteriorColor Color // /IC
	QuadBoxes     []BoundingBox
	Contents      string
	Author        string
	Modified      time.Time
}

// GetType returns the object type
func (a AnnotationObject) GetType() ObjectType {
	return ObjectTypeAnno
}

// GetBBox returns the annotation's bounding box
func (a AnnotationObject) GetBBox() BoundingBox {
	return BoundingBox{X0: a.X0, Y0: a.Y0, X1: a.X1, Y1: a.Y1}
}

// EffectiveColor returns the stroke color, else the interior color.
func (a AnnotationObject) EffectiveColor() Color {
	if a.Color.IsSet() {
		return a.Color
	}
	return a.InteriorColor
}

// TextExtractionOption is a function that modifies text extraction behavior
type TextExtractionOption func(*textExtractionConfig)

type textExtractionConfig struct {
	XTolerance float64
	YTolerance float64
}

func defaultTextExtractionConfig() textExtractionConfig {
	return textExtractionConfig{XTolerance: 3, YTolerance: 3}
}

// WithXTolerance sets the horizontal tolerance for text grouping
func WithXTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithYTolerance sets the vertical tolerance for text grouping
func WithYTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// OpenOption is a function that modifies how a document is opened
type OpenOption func(*openConfig)

type openConfig struct {
	Password     string
	TextFallback bool
	TextOptions  []TextExtractionOption
}

func newOpenConfig(opts []OpenOption) openConfig {
	c := openConfig{TextFallback: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithPassword sets the user and owner password for encrypted files
func WithPassword(password string) OpenOption {
	return func(c *openConfig) {
		c.Password = password
	}
}

// WithTextFallback enables reading page text through ledongthuc/pdf and
// dslipak/pdf when the content stream yields no characters.
func WithTextFallback(enabled bool) OpenOption {
	return func(c *openConfig) {
		c.TextFallback = enabled
	}
}

// WithTextOptions sets the grouping tolerances used by the opened pages
func WithTextOptions(opts ...TextExtractionOption) OpenOption {
	return func(c *openConfig) {
		c.TextOptions = append(c.TextOptions, opts...)
	}
}
