package pdf

import (
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// FontFlags describes the style of a glyph run
type FontFlags int

const (
	FlagSuperscript FontFlags = 1 << iota
	FlagItalic
	FlagSerif
	FlagMonospace
	FlagBold
)

var fontFlagNames = []struct {
	flag FontFlags
	name string
}{
	{FlagSuperscript, "superscript"},
	{FlagItalic, "italic"},
	{FlagSerif, "serif"},
	{FlagMonospace, "monospace"},
	{FlagBold, "bold"},
}

// String lists the set flags, e.g. "italic|bold"
func (f FontFlags) String() string {
	var names []string
	for _, fn := range fontFlagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseFontFlags converts flag names into a FontFlags set
func ParseFontFlags(names []string) (FontFlags, error) {
	var flags FontFlags
	for _, n := range names {
		found := false
		for _, fn := range fontFlagNames {
			if strings.EqualFold(strings.TrimSpace(n), fn.name) {
				flags |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Errorf("unknown font flag %q", n)
		}
	}
	return flags, nil
}

// FlagsFromFontName derives style flags from a PostScript font name
func FlagsFromFontName(name string) FontFlags {
	lower := strings.ToLower(name)
	var flags FontFlags
	if containsAny(lower, "bold", "black", "heavy", "semibold", "demi") {
		flags |= FlagBold
	}
	if containsAny(lower, "italic", "oblique") {
		flags |= FlagItalic
	}
	if containsAny(lower, "courier", "mono", "consol", "fixed") {
		flags |= FlagMonospace
	}
	if containsAny(lower, "times", "serif", "georgia", "garamond", "roman", "minion", "palatino", "cambria") &&
		!strings.Contains(lower, "sans") {
		flags |= FlagSerif
	}
	return flags
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FontInfo represents the parts of a font dictionary needed to decode text
type FontInfo struct {
	Name          string
	BaseFont      string
	Subtype       string
	Encoding      string
	TwoByte       bool
	FirstChar     int
	Widths        []float64
	DefaultWidth  float64
	CIDWidths     map[int]float64
	Differences   map[int]string
	ToUnicodeCMap *ToUnicodeCMap
	Flags         FontFlags
}

// glyph is one decoded character code
type glyph struct {
	code  int
	text  string
	width float64 // glyph space units / 1000
}

// decode splits a shown string into glyphs
func (f *FontInfo) decode(data []byte) []glyph {
	var glyphs []glyph
	if f != nil && f.TwoByte {
		for i := 0; i+1 < len(data); i += 2 {
			code := int(data[i])<<8 | int(data[i+1])
			text := ""
			if f.ToUnicodeCMap != nil {
				text, _ = f.ToUnicodeCMap.MapCIDToUnicode(uint16(code))
			}
			glyphs = append(glyphs, glyph{code: code, text: text, width: f.cidWidth(code, text)})
		}
		return glyphs
	}

	for _, b := range data {
		code := int(b)
		text := f.simpleText(b)
		glyphs = append(glyphs, glyph{code: code, text: text, width: f.simpleWidth(code, text)})
	}
	return glyphs
}

func (f *FontInfo) simpleText(b byte) string {
	if f == nil {
		return string(charmap.Windows1252.DecodeByte(b))
	}
	if f.ToUnicodeCMap != nil {
		if text, ok := f.ToUnicodeCMap.MapCIDToUnicode(uint16(b)); ok {
			return text
		}
	}
	if name, ok := f.Differences[int(b)]; ok {
		if text := glyphNameToText(name); text != "" {
			return text
		}
	}
	switch f.Encoding {
	case "MacRomanEncoding":
		return string(charmap.Macintosh.DecodeByte(b))
	case "StandardEncoding", "":
		if b < 0x80 {
			return standardASCII(b)
		}
		return string(charmap.ISO8859_1.DecodeByte(b))
	}
	return string(charmap.Windows1252.DecodeByte(b))
}

// standardASCII maps the few StandardEncoding codes below 0x80 that
// differ from ASCII
func standardASCII(b byte) string {
	switch b {
	case 0x27:
		return "’"
	case 0x60:
		return "‘"
	}
	return string(rune(b))
}

func (f *FontInfo) simpleWidth(code int, text string) float64 {
	if f != nil {
		if i := code - f.FirstChar; i >= 0 && i < len(f.Widths) && f.Widths[i] > 0 {
			return f.Widths[i] / 1000
		}
	}
	return approximateWidth(text)
}

func (f *FontInfo) cidWidth(code int, text string) float64 {
	if w, ok := f.CIDWidths[code]; ok {
		return w / 1000
	}
	if f.DefaultWidth > 0 {
		return f.DefaultWidth / 1000
	}
	return approximateWidth(text)
}

// approximateWidth returns an approximate glyph width in em for fonts
// without width tables
func approximateWidth(text string) float64 {
	switch text {
	case " ":
		return 0.25
	case "i", "l", "I", "j", "!", ".", ",", ";", ":", "'", "|":
		return 0.28
	case "f", "t", "r", "(", ")", "-", "\"":
		return 0.33
	case "m", "M", "W", "w":
		return 0.8
	}
	r := []rune(text)
	if len(r) == 1 && r[0] >= 0x2E80 {
		// CJK glyphs are full width
		return 1
	}
	if len(r) == 1 && r[0] >= 'A' && r[0] <= 'Z' {
		return 0.67
	}
	return 0.5
}

// loadFont reads a font dictionary
func loadFont(r resolver, name string, obj types.Object) (*FontInfo, error) {
	d, err := r.dict(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "font %s", name)
	}
	if d == nil {
		return nil, errors.Errorf("font %s: missing dictionary", name)
	}

	f := &FontInfo{Name: name}
	f.BaseFont, _ = r.name(d["BaseFont"])
	f.Subtype, _ = r.name(d["Subtype"])
	f.Flags = FlagsFromFontName(f.BaseFont)

	if enc, ok := r.name(d["Encoding"]); ok {
		f.Encoding = enc
	} else if encDict, err := r.dict(d["Encoding"]); err == nil && encDict != nil {
		f.Encoding, _ = r.name(encDict["BaseEncoding"])
		f.Differences = parseDifferences(r, encDict["Differences"])
	}

	if f.Subtype == "Type0" {
		f.TwoByte = strings.HasPrefix(f.Encoding, "Identity") || strings.HasSuffix(f.Encoding, "-UCS2") ||
			strings.HasSuffix(f.Encoding, "-H") || strings.HasSuffix(f.Encoding, "-V")
		if descendants, err := r.array(d["DescendantFonts"]); err == nil && len(descendants) > 0 {
			if cid, err := r.dict(descendants[0]); err == nil && cid != nil {
				if dw, ok := r.number(cid["DW"]); ok {
					f.DefaultWidth = dw
				} else {
					f.DefaultWidth = 1000
				}
				f.CIDWidths = parseCIDWidths(r, cid["W"])
				f.Flags |= descriptorFlags(r, cid["FontDescriptor"])
			}
		}
	} else {
		if fc, ok := r.number(d["FirstChar"]); ok {
			f.FirstChar = int(fc)
		}
		f.Widths = r.numbers(d["Widths"])
		f.Flags |= descriptorFlags(r, d["FontDescriptor"])
	}

	if tu := d["ToUnicode"]; tu != nil {
		data, err := r.stream(tu)
		if err != nil {
			return f, errors.Wrapf(err, "font %s: ToUnicode", name)
		}
		cmap := NewToUnicodeCMap()
		if err := cmap.Parse(data); err != nil {
			return f, errors.Wrapf(err, "font %s: ToUnicode", name)
		}
		f.ToUnicodeCMap = cmap
	}

	return f, nil
}

// descriptorFlags maps the /Flags of a font descriptor
func descriptorFlags(r resolver, obj types.Object) FontFlags {
	d, err := r.dict(obj)
	if err != nil || d == nil {
		return 0
	}
	n, ok := r.number(d["Flags"])
	if !ok {
		return 0
	}
	pdfFlags := int(n)
	var flags FontFlags
	if pdfFlags&(1<<0) != 0 {
		flags |= FlagMonospace
	}
	if pdfFlags&(1<<1) != 0 {
		flags |= FlagSerif
	}
	if pdfFlags&(1<<6) != 0 {
		flags |= FlagItalic
	}
	if pdfFlags&(1<<18) != 0 {
		flags |= FlagBold
	}
	return flags
}

// parseDifferences reads [code /name /name code /name ...]
func parseDifferences(r resolver, obj types.Object) map[int]string {
	a, err := r.array(obj)
	if err != nil || len(a) == 0 {
		return nil
	}
	diffs := make(map[int]string)
	code := 0
	for _, item := range a {
		if n, ok := r.number(item); ok {
			code = int(n)
			continue
		}
		if name, ok := r.name(item); ok {
			diffs[code] = name
			code++
		}
	}
	return diffs
}

// parseCIDWidths reads a CIDFont /W array: c [w1 w2 ...] or cfirst clast w
func parseCIDWidths(r resolver, obj types.Object) map[int]float64 {
	a, err := r.array(obj)
	if err != nil || len(a) == 0 {
		return nil
	}
	widths := make(map[int]float64)
	for i := 0; i < len(a); {
		first, ok := r.number(a[i])
		if !ok || i+1 >= len(a) {
			break
		}
		if list, err := r.array(a[i+1]); err == nil && list != nil {
			for j, w := range list {
				if n, ok := r.number(w); ok {
					widths[int(first)+j] = n
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(a) {
			break
		}
		last, ok1 := r.number(a[i+1])
		w, ok2 := r.number(a[i+2])
		if ok1 && ok2 {
			for c := int(first); c <= int(last); c++ {
				widths[c] = w
			}
		}
		i += 3
	}
	return widths
}

var glyphNames = map[string]string{
	"space": " ", "exclam": "!", "quotedbl": "\"", "numbersign": "#", "dollar": "$",
	"percent": "%", "ampersand": "&", "quotesingle": "'", "quoteright": "’", "quoteleft": "‘",
	"parenleft": "(", "parenright": ")", "asterisk": "*", "plus": "+", "comma": ",",
	"hyphen": "-", "period": ".", "slash": "/", "colon": ":", "semicolon": ";",
	"less": "<", "equal": "=", "greater": ">", "question": "?", "at": "@",
	"bracketleft": "[", "backslash": "\\", "bracketright": "]", "underscore": "_",
	"braceleft": "{", "bar": "|", "braceright": "}", "asciitilde": "~",
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"quotedblleft": "“", "quotedblright": "”", "endash": "–", "emdash": "—",
	"bullet": "•", "ellipsis": "…", "fi": "fi", "fl": "fl", "ff": "ff", "ffi": "ffi", "ffl": "ffl",
}

// glyphNameToText maps a glyph name to text. Unknown names return "".
func glyphNameToText(name string) string {
	if text, ok := glyphNames[name]; ok {
		return text
	}
	if len(name) == 1 {
		return name
	}
	for _, prefix := range []string{"uni", "u"} {
		if hex, ok := strings.CutPrefix(name, prefix); ok && len(hex) >= 4 && len(hex) <= 6 {
			if cp, err := strconv.ParseUint(hex[:4], 16, 32); err == nil && prefix == "uni" {
				return string(rune(cp))
			}
			if cp, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return string(rune(cp))
			}
		}
	}
	return ""
}
