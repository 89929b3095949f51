package pdf

import (
	"bytes"
	"strconv"
)

// Content stream operands
type (
	pdfString []byte
	pdfName   string
	pdfArray  []any
	pdfDict   struct{}
)

// contentLexer splits a content stream into operands and operators
type contentLexer struct {
	data []byte
	pos  int
}

func newContentLexer(data []byte) *contentLexer {
	return &contentLexer{data: data}
}

// next returns the next operand, or the next operator when isOp is true.
// ok is false at the end of the stream.
func (l *contentLexer) next() (operand any, operator string, isOp, ok bool) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.data) {
		return nil, "", false, false
	}

	b := l.data[l.pos]
	switch b {
	case '(':
		l.pos++
		return l.readStringLiteral(), "", false, true
	case '<':
		if l.peek(1) == '<' {
			l.pos += 2
			l.skipDict()
			return pdfDict{}, "", false, true
		}
		l.pos++
		return l.readHexString(), "", false, true
	case '[':
		l.pos++
		return l.readArray(), "", false, true
	case ']', '>', ')', '{', '}':
		// Stray delimiter
		l.pos++
		return l.next()
	case '/':
		l.pos++
		return pdfName(l.readRegular()), "", false, true
	}

	token := l.readRegular()
	if token == "" {
		l.pos++
		return l.next()
	}
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return n, "", false, true
	}
	switch token {
	case "true":
		return true, "", false, true
	case "false":
		return false, "", false, true
	case "null":
		return nil, "", false, true
	}
	return nil, token, true, true
}

func (l *contentLexer) peek(offset int) byte {
	if l.pos+offset < len(l.data) {
		return l.data[l.pos+offset]
	}
	return 0
}

func (l *contentLexer) skipSpaceAndComments() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// readStringLiteral reads a (string) after the opening parenthesis
func (l *contentLexer) readStringLiteral() pdfString {
	var result []byte
	depth := 1

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '\\':
			if l.pos >= len(l.data) {
				return result
			}
			next := l.data[l.pos]
			l.pos++
			switch next {
			case 'n':
				result = append(result, '\n')
			case 'r':
				result = append(result, '\r')
			case 't':
				result = append(result, '\t')
			case 'b':
				result = append(result, '\b')
			case 'f':
				result = append(result, '\f')
			case '\r':
				// Line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if next >= '0' && next <= '7' {
					val := int(next - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						val = val*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					result = append(result, byte(val))
				} else {
					result = append(result, next)
				}
			}
		case '(':
			depth++
			result = append(result, b)
		case ')':
			depth--
			if depth == 0 {
				return result
			}
			result = append(result, b)
		default:
			result = append(result, b)
		}
	}

	return result
}

// readHexString reads a <hex string> after the opening bracket
func (l *contentLexer) readHexString() pdfString {
	var digits []byte
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			break
		}
		if isHexDigit(b) {
			digits = append(digits, b)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	result := make([]byte, len(digits)/2)
	for i := range result {
		result[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
	}
	return result
}

func (l *contentLexer) readArray() pdfArray {
	var items pdfArray
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.data) {
			return items
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return items
		}
		operand, _, isOp, ok := l.next()
		if !ok {
			return items
		}
		if !isOp {
			items = append(items, operand)
		}
	}
}

// skipDict skips an inline dictionary, e.g. marked-content properties
func (l *contentLexer) skipDict() {
	depth := 1
	for l.pos < len(l.data) && depth > 0 {
		switch {
		case l.data[l.pos] == '(':
			l.pos++
			l.readStringLiteral()
			continue
		case bytes.HasPrefix(l.data[l.pos:], []byte("<<")):
			depth++
			l.pos += 2
			continue
		case bytes.HasPrefix(l.data[l.pos:], []byte(">>")):
			depth--
			l.pos += 2
			continue
		}
		l.pos++
	}
}

// readRegular reads a run of regular characters
func (l *contentLexer) readRegular() string {
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// skipInlineImage skips the dictionary and data of an inline image,
// up to and including the EI operator
func (l *contentLexer) skipInlineImage() {
	for {
		_, op, isOp, ok := l.next()
		if !ok {
			return
		}
		if isOp && op == "ID" {
			break
		}
	}
	// A single whitespace byte follows ID
	l.pos++

	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			l.pos > 0 && isWhitespace(l.data[l.pos-1]) &&
			(l.pos+2 >= len(l.data) || isWhitespace(l.data[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

// isWhitespace checks if a byte is whitespace
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

// isDelimiter checks if a byte is a delimiter
func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
