package pdf

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	bfCharSectionRe  = regexp.MustCompile(`(?s)beginbfchar(.*?)endbfchar`)
	bfCharEntryRe    = regexp.MustCompile(`<([0-9A-Fa-f\s]+)>\s*<([0-9A-Fa-f\s]*)>`)
	bfRangeSectionRe = regexp.MustCompile(`(?s)beginbfrange(.*?)endbfrange`)
	bfRangeEntryRe   = regexp.MustCompile(`<([0-9A-Fa-f\s]+)>\s*<([0-9A-Fa-f\s]+)>\s*(<[0-9A-Fa-f\s]*>|\[[^\]]*\])`)
	hexTokenRe       = regexp.MustCompile(`<([0-9A-Fa-f\s]*)>`)
)

// ToUnicodeCMap maps character codes of a font to Unicode text
type ToUnicodeCMap struct {
	// Direct character mappings (from beginbfchar sections)
	cidToUnicode map[uint16]string

	// Range mappings (from beginbfrange sections)
	ranges []cmapRange
}

// cmapRange is a contiguous range mapping from beginbfrange
type cmapRange struct {
	startCID     uint16
	endCID       uint16
	startUnicode []uint16 // UTF-16 units; the last unit is incremented across the range
	unicodeArray []string // for the [<dst1> <dst2> ...] form
}

// NewToUnicodeCMap creates an empty CMap
func NewToUnicodeCMap() *ToUnicodeCMap {
	return &ToUnicodeCMap{
		cidToUnicode: make(map[uint16]string),
		ranges:       []cmapRange{},
	}
}

// Parse parses a ToUnicode CMap stream
func (cmap *ToUnicodeCMap) Parse(data []byte) error {
	content := string(data)
	if !strings.Contains(content, "beginbfchar") && !strings.Contains(content, "beginbfrange") {
		return fmt.Errorf("no bfchar or bfrange sections")
	}

	cmap.parseBFChar(content)
	cmap.parseBFRange(content)

	return nil
}

// parseBFChar parses beginbfchar...endbfchar sections
//
//	N beginbfchar
//	<src> <dst>
//	endbfchar
func (cmap *ToUnicodeCMap) parseBFChar(content string) {
	for _, section := range bfCharSectionRe.FindAllStringSubmatch(content, -1) {
		for _, m := range bfCharEntryRe.FindAllStringSubmatch(section[1], -1) {
			src, ok := decodeCode(m[1])
			if !ok {
				continue
			}
			dst, err := decodeHex(m[2])
			if err != nil {
				continue
			}
			cmap.cidToUnicode[src] = utf16BytesToString(dst)
		}
	}
}

// parseBFRange parses beginbfrange...endbfrange sections
//
//	N beginbfrange
//	<srcStart> <srcEnd> <dst>
//	<srcStart> <srcEnd> [<dst1> <dst2> ...]
//	endbfrange
func (cmap *ToUnicodeCMap) parseBFRange(content string) {
	for _, section := range bfRangeSectionRe.FindAllStringSubmatch(content, -1) {
		for _, m := range bfRangeEntryRe.FindAllStringSubmatch(section[1], -1) {
			start, ok1 := decodeCode(m[1])
			end, ok2 := decodeCode(m[2])
			if !ok1 || !ok2 || end < start {
				continue
			}

			r := cmapRange{startCID: start, endCID: end}
			if strings.HasPrefix(m[3], "[") {
				for _, item := range hexTokenRe.FindAllStringSubmatch(m[3], -1) {
					dst, err := decodeHex(item[1])
					if err != nil {
						dst = nil
					}
					r.unicodeArray = append(r.unicodeArray, utf16BytesToString(dst))
				}
			} else {
				dst, err := decodeHex(strings.Trim(m[3], "<>"))
				if err != nil || len(dst) == 0 {
					continue
				}
				r.startUnicode = bytesToUnits(dst)
			}
			cmap.ranges = append(cmap.ranges, r)
		}
	}
}

// MapCIDToUnicode maps a code to its Unicode string
func (cmap *ToUnicodeCMap) MapCIDToUnicode(cid uint16) (string, bool) {
	if text, ok := cmap.cidToUnicode[cid]; ok {
		return text, true
	}

	for _, r := range cmap.ranges {
		if cid < r.startCID || cid > r.endCID {
			continue
		}
		offset := cid - r.startCID
		if r.unicodeArray != nil {
			if int(offset) < len(r.unicodeArray) {
				return r.unicodeArray[offset], true
			}
			continue
		}
		units := make([]uint16, len(r.startUnicode))
		copy(units, r.startUnicode)
		units[len(units)-1] += offset
		return string(utf16.Decode(units)), true
	}

	return "", false
}

// GetMappingCount returns the total number of mapped codes
func (cmap *ToUnicodeCMap) GetMappingCount() int {
	count := len(cmap.cidToUnicode)
	for _, r := range cmap.ranges {
		if r.unicodeArray != nil {
			count += len(r.unicodeArray)
		} else {
			count += int(r.endCID-r.startCID) + 1
		}
	}
	return count
}

// String returns a summary of the CMap for debugging
func (cmap *ToUnicodeCMap) String() string {
	return fmt.Sprintf("ToUnicodeCMap{direct: %d, ranges: %d, total: %d}",
		len(cmap.cidToUnicode), len(cmap.ranges), cmap.GetMappingCount())
}

func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 == 1 {
		s += "0"
	}
	return hex.DecodeString(s)
}

// decodeCode reads a one or two byte source code
func decodeCode(s string) (uint16, bool) {
	b, err := decodeHex(s)
	if err != nil || len(b) == 0 {
		return 0, false
	}
	if len(b) == 1 {
		return uint16(b[0]), true
	}
	return uint16(b[len(b)-2])<<8 | uint16(b[len(b)-1]), true
}

func bytesToUnits(b []byte) []uint16 {
	if len(b) == 1 {
		return []uint16{uint16(b[0])}
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return units
}

// utf16BytesToString decodes a UTF-16BE destination, dropping a leading BOM
func utf16BytesToString(b []byte) string {
	units := bytesToUnits(b)
	if len(units) > 0 && units[0] == 0xFEFF {
		units = units[1:]
	}
	return string(utf16.Decode(units))
}
