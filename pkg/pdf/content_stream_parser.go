package pdf

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// maxFormDepth bounds nested form XObjects
const maxFormDepth = 8

// ContentStreamParser interprets a page content stream and collects the
// characters and painted paths it produces
type ContentStreamParser struct {
	r         resolver
	resources types.Dict
	objects   Objects

	// Graphics state
	gs    GraphicsState
	stack []GraphicsState

	// Text object state
	textMatrix Matrix
	lineMatrix Matrix

	// Current path
	path pathBuilder

	fonts map[string]*FontInfo
	depth int
}

// GraphicsState represents the PDF graphics state, text state included
type GraphicsState struct {
	CTM         Matrix // Current transformation matrix
	FillColor   Color
	StrokeColor Color

	// Number of components of the current color spaces; 0 for patterns
	fillComponents   int
	strokeComponents int

	Text TextState
}

// TextState represents the PDF text state
type TextState struct {
	Font       *FontInfo
	FontSize   float64
	CharSpace  float64
	WordSpace  float64
	Scale      float64
	Leading    float64
	Rise       float64
	RenderMode int
}

// Matrix represents a 2D transformation matrix [a b c d e f]
type Matrix struct {
	A, B, C, D, E, F float64
}

// Transform applies the matrix to a point
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// NewContentStreamParser creates a parser for content drawn with the given
// resource dictionary. ctx may be nil when all objects are direct.
func NewContentStreamParser(ctx *model.Context, resources types.Dict) *ContentStreamParser {
	return &ContentStreamParser{
		r:         resolver{ctx: ctx},
		resources: resources,
		gs:        defaultGraphicsState(),
		fonts:     make(map[string]*FontInfo),
	}
}

func defaultGraphicsState() GraphicsState {
	return GraphicsState{
		CTM:              IdentityMatrix(),
		FillColor:        GrayColor(0),
		StrokeColor:      GrayColor(0),
		fillComponents:   1,
		strokeComponents: 1,
		Text: TextState{
			Scale: 100,
		},
	}
}

// Parse interprets a content stream and returns the extracted objects
func (p *ContentStreamParser) Parse(content []byte) Objects {
	lexer := newContentLexer(content)
	var operands []any

	for {
		operand, op, isOp, ok := lexer.next()
		if !ok {
			break
		}
		if !isOp {
			operands = append(operands, operand)
			continue
		}
		if op == "BI" {
			lexer.skipInlineImage()
		} else {
			p.processOperator(op, operands)
		}
		operands = operands[:0]
	}

	return p.objects
}

// processOperator processes a PDF operator with its operands
func (p *ContentStreamParser) processOperator(operator string, operands []any) {
	ts := &p.gs.Text

	switch operator {
	// Graphics state
	case "q":
		p.stack = append(p.stack, p.gs)
	case "Q":
		if n := len(p.stack); n > 0 {
			p.gs = p.stack[n-1]
			p.stack = p.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixOperand(operands); ok {
			p.gs.CTM = MultiplyMatrix(m, p.gs.CTM)
		}

	// Text objects
	case "BT":
		p.textMatrix = IdentityMatrix()
		p.lineMatrix = IdentityMatrix()
	case "ET":

	// Text positioning
	case "Td":
		if nums := numbers(operands); len(nums) >= 2 {
			p.moveText(nums[0], nums[1])
		}
	case "TD":
		if nums := numbers(operands); len(nums) >= 2 {
			ts.Leading = -nums[1]
			p.moveText(nums[0], nums[1])
		}
	case "Tm":
		if m, ok := matrixOperand(operands); ok {
			p.textMatrix = m
			p.lineMatrix = m
		}
	case "T*":
		p.moveText(0, -ts.Leading)

	// Text showing
	case "Tj":
		if s, ok := lastString(operands); ok {
			p.showText(s)
		}
	case "TJ":
		if len(operands) > 0 {
			if arr, ok := operands[len(operands)-1].(pdfArray); ok {
				p.showTextArray(arr)
			}
		}
	case "'":
		p.moveText(0, -ts.Leading)
		if s, ok := lastString(operands); ok {
			p.showText(s)
		}
	case "\"":
		if nums := numbers(operands); len(nums) >= 2 {
			ts.WordSpace = nums[0]
			ts.CharSpace = nums[1]
		}
		p.moveText(0, -ts.Leading)
		if s, ok := lastString(operands); ok {
			p.showText(s)
		}

	// Text state
	case "Tc":
		setNumber(&ts.CharSpace, operands)
	case "Tw":
		setNumber(&ts.WordSpace, operands)
	case "Tz":
		setNumber(&ts.Scale, operands)
	case "TL":
		setNumber(&ts.Leading, operands)
	case "Ts":
		setNumber(&ts.Rise, operands)
	case "Tr":
		var mode float64
		setNumber(&mode, operands)
		ts.RenderMode = int(mode)
	case "Tf":
		if len(operands) >= 2 {
			if name, ok := operands[len(operands)-2].(pdfName); ok {
				ts.Font = p.font(string(name))
			}
			setNumber(&ts.FontSize, operands)
		}

	// Color
	case "g":
		p.setFill(GrayColor(first(operands)), 1)
	case "G":
		p.setStroke(GrayColor(first(operands)), 1)
	case "rg":
		if nums := numbers(operands); len(nums) >= 3 {
			p.setFill(RGBColor(nums[0], nums[1], nums[2]), 3)
		}
	case "RG":
		if nums := numbers(operands); len(nums) >= 3 {
			p.setStroke(RGBColor(nums[0], nums[1], nums[2]), 3)
		}
	case "k":
		if nums := numbers(operands); len(nums) >= 4 {
			p.setFill(CMYKColor(nums[0], nums[1], nums[2], nums[3]), 4)
		}
	case "K":
		if nums := numbers(operands); len(nums) >= 4 {
			p.setStroke(CMYKColor(nums[0], nums[1], nums[2], nums[3]), 4)
		}
	case "cs":
		n := p.colorSpaceComponents(operands)
		p.setFill(initialColor(n), n)
	case "CS":
		n := p.colorSpaceComponents(operands)
		p.setStroke(initialColor(n), n)
	case "sc", "scn":
		if c, ok := colorOperand(operands, p.gs.fillComponents); ok {
			p.gs.FillColor = c
		}
	case "SC", "SCN":
		if c, ok := colorOperand(operands, p.gs.strokeComponents); ok {
			p.gs.StrokeColor = c
		}

	// Path construction
	case "m":
		if nums := numbers(operands); len(nums) >= 2 {
			p.path.moveTo(p.gs.CTM, nums[0], nums[1])
		}
	case "l":
		if nums := numbers(operands); len(nums) >= 2 {
			p.path.lineTo(p.gs.CTM, nums[0], nums[1])
		}
	case "c":
		if nums := numbers(operands); len(nums) >= 6 {
			p.path.curveTo(p.gs.CTM, nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
		}
	case "v", "y":
		if nums := numbers(operands); len(nums) >= 4 {
			p.path.curveTo(p.gs.CTM, nums[0], nums[1], nums[2], nums[3], nums[2], nums[3])
		}
	case "h":
		p.path.segments++
	case "re":
		if nums := numbers(operands); len(nums) >= 4 {
			p.path.rectangle(p.gs.CTM, nums[0], nums[1], nums[2], nums[3])
		}

	// Path painting
	case "f", "F", "f*":
		p.paint(true, false)
	case "S", "s":
		p.paint(false, true)
	case "B", "B*", "b", "b*":
		p.paint(true, true)
	case "n":
		p.path = pathBuilder{}

	// XObjects
	case "Do":
		if len(operands) > 0 {
			if name, ok := operands[len(operands)-1].(pdfName); ok {
				p.drawXObject(string(name))
			}
		}
	}
}

func (p *ContentStreamParser) moveText(tx, ty float64) {
	p.lineMatrix = MultiplyMatrix(TranslationMatrix(tx, ty), p.lineMatrix)
	p.textMatrix = p.lineMatrix
}

// showText emits one character per decoded glyph and advances the text matrix
func (p *ContentStreamParser) showText(data pdfString) {
	ts := &p.gs.Text
	font := ts.Font
	scale := ts.Scale / 100

	fontName := ""
	flags := FontFlags(0)
	if font != nil {
		fontName = stripSubsetTag(font.BaseFont)
		if fontName == "" {
			fontName = font.Name
		}
		flags = font.Flags
	}
	if ts.Rise > 0 {
		flags |= FlagSuperscript
	}

	color := p.gs.FillColor
	if ts.RenderMode == 1 || ts.RenderMode == 5 {
		color = p.gs.StrokeColor
	}

	for _, g := range font.decode(data) {
		trm := MultiplyMatrix(
			MultiplyMatrix(Matrix{A: ts.FontSize * scale, D: ts.FontSize, F: ts.Rise}, p.textMatrix),
			p.gs.CTM,
		)

		if text := printable(g.text); text != "" {
			x0, y0 := trm.Transform(0, -0.2)
			x1, y1 := trm.Transform(g.width, 0.8)
			box := NewBoundingBox(x0, y0, x1, y1)
			p.objects.Chars = append(p.objects.Chars, CharObject{
				Text:     text,
				Font:     fontName,
				FontSize: math.Hypot(trm.C, trm.D),
				X0:       box.X0,
				Y0:       box.Y0,
				X1:       box.X1,
				Y1:       box.Y1,
				Color:    color,
				Flags:    flags,
			})
		}

		advance := g.width*ts.FontSize + ts.CharSpace
		if g.code == ' ' && (font == nil || !font.TwoByte) {
			advance += ts.WordSpace
		}
		p.textMatrix = MultiplyMatrix(TranslationMatrix(advance*scale, 0), p.textMatrix)
	}
}

// showTextArray handles TJ: strings interleaved with position adjustments
// in thousandths of text space
func (p *ContentStreamParser) showTextArray(arr pdfArray) {
	ts := &p.gs.Text
	for _, item := range arr {
		switch v := item.(type) {
		case pdfString:
			p.showText(v)
		case float64:
			tx := -v / 1000 * ts.FontSize * ts.Scale / 100
			p.textMatrix = MultiplyMatrix(TranslationMatrix(tx, 0), p.textMatrix)
		}
	}
}

// font returns the named font of the current resources, loading it once
func (p *ContentStreamParser) font(name string) *FontInfo {
	if f, ok := p.fonts[name]; ok {
		return f
	}

	var font *FontInfo
	fonts, err := p.r.dict(p.resources["Font"])
	if err == nil && fonts != nil {
		if obj, ok := fonts[name]; ok {
			font, err = loadFont(p.r, name, obj)
		} else {
			err = errors.Errorf("font %s not in resources", name)
		}
	} else if err == nil {
		err = errors.Errorf("font %s: no font resources", name)
	}
	if err != nil {
		p.objects.Skipped = append(p.objects.Skipped, SkippedObject{Kind: ObjectTypeFont, Index: len(p.fonts), Err: err})
	}
	if font == nil {
		font = &FontInfo{Name: name}
	}

	p.fonts[name] = font
	return font
}

func (p *ContentStreamParser) setFill(c Color, components int) {
	p.gs.FillColor = c
	p.gs.fillComponents = components
}

func (p *ContentStreamParser) setStroke(c Color, components int) {
	p.gs.StrokeColor = c
	p.gs.strokeComponents = components
}

// colorSpaceComponents returns the component count of the color space named
// by a cs/CS operand: 0 for patterns, -1 when unknown
func (p *ContentStreamParser) colorSpaceComponents(operands []any) int {
	if len(operands) == 0 {
		return -1
	}
	name, ok := operands[len(operands)-1].(pdfName)
	if !ok {
		return -1
	}
	switch name {
	case "DeviceGray", "G", "CalGray":
		return 1
	case "DeviceRGB", "RGB", "CalRGB", "Lab":
		return 3
	case "DeviceCMYK", "CMYK":
		return 4
	case "Pattern":
		return 0
	}

	spaces, err := p.r.dict(p.resources["ColorSpace"])
	if err != nil || spaces == nil {
		return -1
	}
	cs, err := p.r.array(spaces[string(name)])
	if err != nil || len(cs) == 0 {
		return -1
	}
	family, _ := p.r.name(cs[0])
	switch family {
	case "Pattern":
		return 0
	case "ICCBased":
		if len(cs) > 1 {
			if d, err := p.r.dict(cs[1]); err == nil && d != nil {
				if n, ok := p.r.number(d["N"]); ok {
					return int(n)
				}
			}
		}
	case "CalRGB", "Lab":
		return 3
	case "CalGray":
		return 1
	}
	return -1
}

// paint turns the current path into a drawing
func (p *ContentStreamParser) paint(fill, stroke bool) {
	path := p.path
	p.path = pathBuilder{}
	if len(path.points) == 0 {
		return
	}

	box := fromRect(r2.RectFromPoints(path.points...))
	d := Drawing{
		X0:       box.X0,
		Y0:       box.Y0,
		X1:       box.X1,
		Y1:       box.Y1,
		IsRect:   path.isRect(),
		Segments: path.segments,
	}
	if fill && p.gs.fillComponents != 0 {
		d.Fill = p.gs.FillColor
	}
	if stroke && p.gs.strokeComponents != 0 {
		d.Stroke = p.gs.StrokeColor
	}
	p.objects.Drawings = append(p.objects.Drawings, d)
}

// drawXObject interprets a form XObject; images are ignored
func (p *ContentStreamParser) drawXObject(name string) {
	if p.depth >= maxFormDepth {
		return
	}
	xobjects, err := p.r.dict(p.resources["XObject"])
	if err != nil || xobjects == nil {
		return
	}
	obj, ok := xobjects[name]
	if !ok {
		return
	}
	d, err := p.r.dict(obj)
	if err != nil || d == nil {
		return
	}
	if subtype, _ := p.r.name(d["Subtype"]); subtype != "Form" {
		return
	}

	content, err := p.r.stream(obj)
	if err != nil {
		p.objects.Skipped = append(p.objects.Skipped, SkippedObject{Kind: ObjectTypeForm, Err: errors.Wrapf(err, "form %s", name)})
		return
	}

	resources := p.resources
	if res, err := p.r.dict(d["Resources"]); err == nil && res != nil {
		resources = res
	}

	form := &ContentStreamParser{
		r:         p.r,
		resources: resources,
		gs:        p.gs,
		fonts:     make(map[string]*FontInfo),
		depth:     p.depth + 1,
	}
	if m := p.r.numbers(d["Matrix"]); len(m) == 6 {
		form.gs.CTM = MultiplyMatrix(Matrix{m[0], m[1], m[2], m[3], m[4], m[5]}, p.gs.CTM)
	}

	objects := form.Parse(content)
	p.objects.Chars = append(p.objects.Chars, objects.Chars...)
	p.objects.Drawings = append(p.objects.Drawings, objects.Drawings...)
	p.objects.Skipped = append(p.objects.Skipped, objects.Skipped...)
}

// pathBuilder accumulates the device-space points of the current path
type pathBuilder struct {
	points   []r2.Point
	segments int
	rects    int
	nonRect  bool
	rotated  bool
}

func (b *pathBuilder) add(ctm Matrix, x, y float64) {
	tx, ty := ctm.Transform(x, y)
	b.points = append(b.points, r2.Point{X: tx, Y: ty})
	if ctm.B != 0 || ctm.C != 0 {
		b.rotated = true
	}
}

func (b *pathBuilder) moveTo(ctm Matrix, x, y float64) {
	b.add(ctm, x, y)
	b.nonRect = true
}

func (b *pathBuilder) lineTo(ctm Matrix, x, y float64) {
	b.add(ctm, x, y)
	b.segments++
	b.nonRect = true
}

func (b *pathBuilder) curveTo(ctm Matrix, x1, y1, x2, y2, x3, y3 float64) {
	b.add(ctm, x1, y1)
	b.add(ctm, x2, y2)
	b.add(ctm, x3, y3)
	b.segments++
	b.nonRect = true
}

func (b *pathBuilder) rectangle(ctm Matrix, x, y, w, h float64) {
	b.add(ctm, x, y)
	b.add(ctm, x+w, y)
	b.add(ctm, x+w, y+h)
	b.add(ctm, x, y+h)
	b.segments += 4
	b.rects++
}

func (b *pathBuilder) isRect() bool {
	return b.rects == 1 && !b.nonRect && !b.rotated
}

// Operand helpers

func numbers(operands []any) []float64 {
	nums := make([]float64, 0, len(operands))
	for _, o := range operands {
		if n, ok := o.(float64); ok {
			nums = append(nums, n)
		}
	}
	return nums
}

func first(operands []any) float64 {
	if nums := numbers(operands); len(nums) > 0 {
		return nums[0]
	}
	return 0
}

func setNumber(dst *float64, operands []any) {
	if len(operands) > 0 {
		if n, ok := operands[len(operands)-1].(float64); ok {
			*dst = n
		}
	}
}

func lastString(operands []any) (pdfString, bool) {
	if len(operands) == 0 {
		return nil, false
	}
	s, ok := operands[len(operands)-1].(pdfString)
	return s, ok
}

func matrixOperand(operands []any) (Matrix, bool) {
	nums := numbers(operands)
	if len(nums) < 6 {
		return Matrix{}, false
	}
	n := nums[len(nums)-6:]
	return Matrix{A: n[0], B: n[1], C: n[2], D: n[3], E: n[4], F: n[5]}, true
}

// colorOperand builds a color from sc/scn operands. Pattern colors have no
// numeric value and yield nil.
func colorOperand(operands []any, components int) (Color, bool) {
	if components == 0 {
		return nil, true
	}
	nums := numbers(operands)
	switch {
	case len(nums) >= 4 && components != 3:
		return CMYKColor(nums[0], nums[1], nums[2], nums[3]), true
	case len(nums) >= 3:
		return RGBColor(nums[0], nums[1], nums[2]), true
	case len(nums) >= 1:
		return GrayColor(nums[0]), true
	}
	return nil, false
}

// initialColor is the color selected together with a new color space
func initialColor(components int) Color {
	switch components {
	case 0:
		return nil
	case 3:
		return RGBColor(0, 0, 0)
	case 4:
		return CMYKColor(0, 0, 0, 1)
	}
	return GrayColor(0)
}

// printable drops control characters from decoded glyph text
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// stripSubsetTag removes the ABCDEF+ prefix of embedded subset fonts
func stripSubsetTag(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}

// Matrix operations

func IdentityMatrix() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: 0, F: 0}
}

func TranslationMatrix(tx, ty float64) Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: tx, F: ty}
}

// MultiplyMatrix returns m1 × m2, i.e. m1 applied first
func MultiplyMatrix(m1, m2 Matrix) Matrix {
	return Matrix{
		A: m1.A*m2.A + m1.B*m2.C,
		B: m1.A*m2.B + m1.B*m2.D,
		C: m1.C*m2.A + m1.D*m2.C,
		D: m1.C*m2.B + m1.D*m2.D,
		E: m1.E*m2.A + m1.F*m2.C + m2.E,
		F: m1.E*m2.B + m1.F*m2.D + m2.F,
	}
}
