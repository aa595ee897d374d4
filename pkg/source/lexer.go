package source

import (
	"errors"
	"strconv"
)

// errEndOfStream ends token iteration.
var errEndOfStream = errors.New("end of content stream")

type tokenKind uint8

const (
	tokenOperand tokenKind = iota + 1
	tokenOperator
)

// token is one lexical unit of a content stream. Operand values are
// float64, []byte (strings), string (names), or []any (arrays).
type token struct {
	kind  tokenKind
	value any
}

// contentLexer tokenizes a decoded PDF content stream.
type contentLexer struct {
	data []byte
	pos  int
}

func newContentLexer(data []byte) *contentLexer {
	return &contentLexer{data: data}
}

func (l *contentLexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return token{}, errEndOfStream
	}

	switch ch := l.data[l.pos]; {
	case ch == '(':
		return l.readString()
	case ch == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return token{kind: tokenOperand, value: "<<"}, nil
		}
		return l.readHexString()
	case ch == '[':
		return l.readArray()
	case ch == '/':
		return l.readName()
	case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
		return l.readNumber()
	case ch == '%':
		l.skipComment()
		return l.next()
	default:
		return l.readOperator()
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == 0
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *contentLexer) skipSpace() {
	for l.pos < len(l.data) && isSpace(l.data[l.pos]) {
		l.pos++
	}
}

func (l *contentLexer) skipComment() {
	for l.pos < len(l.data) && l.data[l.pos] != '\n' {
		l.pos++
	}
}

func (l *contentLexer) readString() (token, error) {
	l.pos++
	start := l.pos
	depth := 1
	escaped := false
	for l.pos < len(l.data) && depth > 0 {
		ch := l.data[l.pos]
		if escaped {
			escaped = false
		} else {
			switch ch {
			case '\\':
				escaped = true
			case '(':
				depth++
			case ')':
				depth--
			}
		}
		l.pos++
	}
	if depth > 0 {
		return token{}, errors.New("unterminated string literal")
	}
	return token{kind: tokenOperand, value: unescapeString(l.data[start : l.pos-1])}, nil
}

func (l *contentLexer) readHexString() (token, error) {
	l.pos++
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	if l.pos >= len(l.data) {
		return token{}, errors.New("unterminated hex string")
	}
	raw := l.data[start:l.pos]
	l.pos++

	digits := make([]byte, 0, len(raw))
	for _, b := range raw {
		if (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') {
			digits = append(digits, b)
		}
	}
	if len(digits)%2 == 1 {
		// An odd final hex digit reads as if followed by zero.
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, _ := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		out = append(out, byte(v))
	}
	return token{kind: tokenOperand, value: out}, nil
}

func (l *contentLexer) readArray() (token, error) {
	l.pos++
	var arr []any
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return token{}, errors.New("unterminated array")
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return token{kind: tokenOperand, value: arr}, nil
		}
		elem, err := l.next()
		if err != nil {
			return token{}, err
		}
		arr = append(arr, elem.value)
	}
}

func (l *contentLexer) readName() (token, error) {
	l.pos++
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return token{kind: tokenOperand, value: string(l.data[start:l.pos])}, nil
}

func (l *contentLexer) readNumber() (token, error) {
	start := l.pos
	seenDot := false
	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		switch {
		case ch == '.':
			if seenDot {
				goto done
			}
			seenDot = true
		case ch == '+' || ch == '-':
			if l.pos != start {
				goto done
			}
		case ch < '0' || ch > '9':
			goto done
		}
		l.pos++
	}
done:
	v, _ := strconv.ParseFloat(string(l.data[start:l.pos]), 64)
	return token{kind: tokenOperand, value: v}, nil
}

func (l *contentLexer) readOperator() (token, error) {
	start := l.pos
	for l.pos < len(l.data) {
		ch := l.data[l.pos]
		if isSpace(ch) || ch == '(' || ch == '<' || ch == '[' || ch == '/' || ch == '%' ||
			ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9') {
			break
		}
		l.pos++
	}
	return token{kind: tokenOperator, value: string(l.data[start:l.pos])}, nil
}

func unescapeString(text []byte) []byte {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			out = append(out, text[i])
			continue
		}
		i++
		if i >= len(text) {
			break
		}
		switch c := text[i]; c {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '\\', '(', ')':
			out = append(out, c)
		case '\n':
			// Line continuation.
		default:
			if c >= '0' && c <= '7' {
				end := i
				for end < len(text) && end < i+3 && text[end] >= '0' && text[end] <= '7' {
					end++
				}
				v, _ := strconv.ParseUint(string(text[i:end]), 8, 16)
				out = append(out, byte(v))
				i = end - 1
			} else {
				out = append(out, c)
			}
		}
	}
	return out
}
