package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/binpack/semidoc"
)

// lex turns a JSON text document into the flat TextToken stream Parse
// expects. It lives here rather than in the root package because a text
// lexer is a convenience the core container format never needed: every
// other entry point builds trees directly through Builder or decodes an
// already-packed Container. This is the smallest reasonable one, not a
// general-purpose JSON parser — good enough to drive the smoke test
// commands below from a file or pipe.
func lex(src []byte) ([]semidoc.TextToken, error) {
	l := &lexer{src: src}
	var toks []semidoc.TextToken
	l.skipSpace()
	for l.pos < len(l.src) {
		tok, err := l.next(false)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok...)
		l.skipSpace()
	}
	return toks, nil
}

type lexer struct {
	src []byte
	pos int
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// next lexes one value (scalar or composite) starting at l.pos, or, if
// expectKey is true, a single "key": pair's worth of tokens (a TextKey
// followed by the value's own tokens).
func (l *lexer) next(expectKey bool) ([]semidoc.TextToken, error) {
	if l.pos >= len(l.src) {
		return nil, fmt.Errorf("semidocctl: unexpected end of input")
	}
	if expectKey {
		key, err := l.lexString()
		if err != nil {
			return nil, err
		}
		l.skipSpace()
		if l.pos >= len(l.src) || l.src[l.pos] != ':' {
			return nil, fmt.Errorf("semidocctl: expected ':' after object key")
		}
		l.pos++
		l.skipSpace()
		rest, err := l.next(false)
		if err != nil {
			return nil, err
		}
		return append([]semidoc.TextToken{{Kind: semidoc.TextKey, Bytes: key}}, rest...), nil
	}

	switch c := l.src[l.pos]; {
	case c == '{':
		return l.lexObject()
	case c == '[':
		return l.lexArray()
	case c == '"':
		s, err := l.lexString()
		if err != nil {
			return nil, err
		}
		return []semidoc.TextToken{{Kind: semidoc.TextString, Bytes: s}}, nil
	case c == 't' || c == 'f':
		return l.lexLiteral(semidoc.TextBool)
	case c == 'n':
		return l.lexLiteral(semidoc.TextNull)
	case c == '-' || (c >= '0' && c <= '9'):
		return l.lexNumber()
	default:
		return nil, fmt.Errorf("semidocctl: unexpected character %q", c)
	}
}

func (l *lexer) lexObject() ([]semidoc.TextToken, error) {
	l.pos++ // consume '{'
	toks := []semidoc.TextToken{{Kind: semidoc.TextBeginObject}}
	l.skipSpace()
	if l.pos < len(l.src) && l.src[l.pos] == '}' {
		l.pos++
		return append(toks, semidoc.TextToken{Kind: semidoc.TextEndObject}), nil
	}
	for {
		l.skipSpace()
		pair, err := l.next(true)
		if err != nil {
			return nil, err
		}
		toks = append(toks, pair...)
		l.skipSpace()
		if l.pos >= len(l.src) {
			return nil, fmt.Errorf("semidocctl: unterminated object")
		}
		if l.src[l.pos] == ',' {
			l.pos++
			continue
		}
		if l.src[l.pos] == '}' {
			l.pos++
			return append(toks, semidoc.TextToken{Kind: semidoc.TextEndObject}), nil
		}
		return nil, fmt.Errorf("semidocctl: expected ',' or '}' in object")
	}
}

func (l *lexer) lexArray() ([]semidoc.TextToken, error) {
	l.pos++ // consume '['
	toks := []semidoc.TextToken{{Kind: semidoc.TextBeginArray}}
	l.skipSpace()
	if l.pos < len(l.src) && l.src[l.pos] == ']' {
		l.pos++
		return append(toks, semidoc.TextToken{Kind: semidoc.TextEndArray}), nil
	}
	for {
		l.skipSpace()
		elem, err := l.next(false)
		if err != nil {
			return nil, err
		}
		toks = append(toks, elem...)
		l.skipSpace()
		if l.pos >= len(l.src) {
			return nil, fmt.Errorf("semidocctl: unterminated array")
		}
		if l.src[l.pos] == ',' {
			l.pos++
			continue
		}
		if l.src[l.pos] == ']' {
			l.pos++
			return append(toks, semidoc.TextToken{Kind: semidoc.TextEndArray}), nil
		}
		return nil, fmt.Errorf("semidocctl: expected ',' or ']' in array")
	}
}

func (l *lexer) lexString() ([]byte, error) {
	if l.src[l.pos] != '"' {
		return nil, fmt.Errorf("semidocctl: expected '\"'")
	}
	l.pos++
	var out []byte
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			return out, nil
		}
		if c == '\\' {
			l.pos++
			if l.pos >= len(l.src) {
				return nil, fmt.Errorf("semidocctl: unterminated escape")
			}
			switch l.src[l.pos] {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case '/':
				out = append(out, '/')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case 'u':
				if l.pos+4 >= len(l.src) {
					return nil, fmt.Errorf("semidocctl: truncated \\u escape")
				}
				var r rune
				for _, h := range l.src[l.pos+1 : l.pos+5] {
					r <<= 4
					switch {
					case h >= '0' && h <= '9':
						r |= rune(h - '0')
					case h >= 'a' && h <= 'f':
						r |= rune(h-'a') + 10
					case h >= 'A' && h <= 'F':
						r |= rune(h-'A') + 10
					default:
						return nil, fmt.Errorf("semidocctl: invalid \\u escape")
					}
				}
				var buf [utf8.UTFMax]byte
				n := utf8.EncodeRune(buf[:], r)
				out = append(out, buf[:n]...)
				l.pos += 4
			default:
				return nil, fmt.Errorf("semidocctl: unknown escape '\\%c'", l.src[l.pos])
			}
			l.pos++
			continue
		}
		out = append(out, c)
		l.pos++
	}
	return nil, fmt.Errorf("semidocctl: unterminated string")
}

func (l *lexer) lexLiteral(kind semidoc.TextTokenKind) ([]semidoc.TextToken, error) {
	start := l.pos
	for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
		l.pos++
	}
	return []semidoc.TextToken{{Kind: kind, Bytes: l.src[start:l.pos]}}, nil
}

func (l *lexer) lexNumber() ([]semidoc.TextToken, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isNumberByte(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return nil, fmt.Errorf("semidocctl: malformed number")
	}
	return []semidoc.TextToken{{Kind: semidoc.TextNumber, Bytes: l.src[start:l.pos]}}, nil
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }

func isNumberByte(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', '+', '-', 'e', 'E':
		return true
	default:
		return false
	}
}
