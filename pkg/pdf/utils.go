package pdf

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// resolver dereferences objects of one pdfcpu context. A nil context
// leaves objects as they are, which is enough for direct objects.
type resolver struct {
	ctx *model.Context
}

func (r resolver) object(o types.Object) (types.Object, error) {
	if o == nil {
		return nil, nil
	}
	if ref, ok := o.(*types.IndirectRef); ok && ref != nil {
		o = *ref
	}
	if r.ctx == nil {
		return o, nil
	}
	return r.ctx.Dereference(o)
}

func (r resolver) dict(o types.Object) (types.Dict, error) {
	obj, err := r.object(o)
	if err != nil || obj == nil {
		return nil, err
	}
	switch v := obj.(type) {
	case types.Dict:
		return v, nil
	case types.StreamDict:
		return v.Dict, nil
	}
	return nil, errors.Errorf("expected dict, got %T", obj)
}

func (r resolver) array(o types.Object) (types.Array, error) {
	obj, err := r.object(o)
	if err != nil || obj == nil {
		return nil, err
	}
	if a, ok := obj.(types.Array); ok {
		return a, nil
	}
	return nil, errors.Errorf("expected array, got %T", obj)
}

func (r resolver) number(o types.Object) (float64, bool) {
	obj, err := r.object(o)
	if err != nil {
		return 0, false
	}
	switch v := obj.(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func (r resolver) numbers(o types.Object) []float64 {
	a, err := r.array(o)
	if err != nil {
		return nil
	}
	nums := make([]float64, 0, len(a))
	for _, item := range a {
		if n, ok := r.number(item); ok {
			nums = append(nums, n)
		}
	}
	return nums
}

func (r resolver) name(o types.Object) (string, bool) {
	obj, err := r.object(o)
	if err != nil {
		return "", false
	}
	if n, ok := obj.(types.Name); ok {
		return string(n), true
	}
	return "", false
}

// text decodes a PDF text string (PDFDocEncoding or UTF-16BE).
func (r resolver) text(o types.Object) (string, bool) {
	obj, err := r.object(o)
	if err != nil {
		return "", false
	}
	var s string
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err = types.StringLiteralToString(v)
	case types.HexLiteral:
		s, err = types.HexLiteralToString(v)
	default:
		return "", false
	}
	if err != nil {
		return "", false
	}
	return strings.TrimRight(s, "\x00"), true
}

// stream returns the decoded content of a stream object
func (r resolver) stream(o types.Object) ([]byte, error) {
	obj, err := r.object(o)
	if err != nil {
		return nil, err
	}
	sd, ok := obj.(types.StreamDict)
	if !ok {
		return nil, errors.Errorf("expected stream, got %T", obj)
	}
	if len(sd.Content) == 0 {
		if err := sd.Decode(); err != nil {
			return nil, errors.Wrap(err, "decode stream")
		}
	}
	return sd.Content, nil
}

// color reads an annotation color array: 0 components is transparent,
// 1 gray, 3 RGB and 4 CMYK.
func (r resolver) color(o types.Object) Color {
	c := r.numbers(o)
	switch len(c) {
	case 1:
		return GrayColor(c[0])
	case 3:
		return RGBColor(c[0], c[1], c[2])
	case 4:
		return CMYKColor(c[0], c[1], c[2], c[3])
	}
	return nil
}

// parsePDFDate parses a PDF date string of the form D:YYYYMMDDHHmmSSOHH'mm'.
// Any prefix of the date part is accepted.
func parsePDFDate(dateStr string) time.Time {
	dateStr = strings.TrimPrefix(strings.TrimSpace(dateStr), "D:")
	if len(dateStr) < 4 {
		return time.Time{}
	}

	digits := dateStr
	rest := ""
	for i, c := range dateStr {
		if c < '0' || c > '9' {
			digits, rest = dateStr[:i], dateStr[i:]
			break
		}
	}
	if len(digits) < 4 {
		return time.Time{}
	}
	if len(digits) > 14 {
		digits = digits[:14]
	}

	// Pad missing fields with the earliest valid value
	const defaults = "00000101000000"
	if len(digits) < len(defaults) {
		digits += defaults[len(digits):]
	}

	t, err := time.Parse("20060102150405", digits)
	if err != nil {
		return time.Time{}
	}

	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		offset := strings.NewReplacer("'", "").Replace(rest[1:])
		hours, _ := strconv.Atoi(firstN(offset, 2))
		minutes, _ := strconv.Atoi(firstN(strings.TrimPrefix(offset, firstN(offset, 2)), 2))
		secs := hours*3600 + minutes*60
		if rest[0] == '-' {
			secs = -secs
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.FixedZone("", secs))
	}

	return t
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
