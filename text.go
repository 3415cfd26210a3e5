package semidoc

import "fmt"

// TextTokenKind identifies the shape of one token in the pre-tokenized
// stream Parse consumes. The lexer that turns raw JSON-like source text
// into this stream is out of scope; TextTokenKind stands in for
// jsonb_in_scalar's own dispatch over a (already-lexed) token.
type TextTokenKind uint8

const (
	TextBeginArray TextTokenKind = iota
	TextEndArray
	TextBeginObject
	TextEndObject
	TextKey
	TextNull
	TextBool
	TextString
	TextNumber
)

// TextToken is one unit of the stream Parse drives a Builder with. Bytes
// carries the token's payload for Key/Bool/String/Number and is ignored
// for the structural kinds.
type TextToken struct {
	Kind  TextTokenKind
	Bytes []byte
}

// Parse builds a Value from a pre-tokenized stream, the push-event glue
// that jsonb_in_scalar plays between the text lexer and pushJsonbValue
// in jsonb_support.c. A single bare scalar token is wrapped exactly as
// WrapScalar does for a top-level scalar document (§3, §4.4); anything
// else is driven through a Builder via Push so the caller's token loop
// doesn't need to track array-vs-object context itself.
func Parse(tokens []TextToken) (Value, error) {
	if len(tokens) == 1 && isScalarTextToken(tokens[0].Kind) {
		v, err := scalarTextValue(tokens[0])
		if err != nil {
			return Value{}, err
		}
		return WrapScalar(v), nil
	}
	b := NewBuilder()
	for _, tok := range tokens {
		var err error
		switch tok.Kind {
		case TextBeginArray:
			err = b.BeginArray()
		case TextEndArray:
			_, err = b.EndArray()
		case TextBeginObject:
			err = b.BeginObject()
		case TextEndObject:
			_, err = b.EndObject()
		case TextKey:
			err = b.Key(tok.Bytes)
		default:
			var v Value
			v, err = scalarTextValue(tok)
			if err == nil {
				err = b.Push(v)
			}
		}
		if err != nil {
			return Value{}, err
		}
	}
	return b.Root(), nil
}

func isScalarTextToken(k TextTokenKind) bool {
	switch k {
	case TextNull, TextBool, TextString, TextNumber:
		return true
	default:
		return false
	}
}

func scalarTextValue(tok TextToken) (Value, error) {
	switch tok.Kind {
	case TextNull:
		return Null(), nil
	case TextBool:
		switch string(tok.Bytes) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		default:
			return Value{}, fmt.Errorf("%w: invalid boolean literal %q", ErrDomain, tok.Bytes)
		}
	case TextString:
		return String(tok.Bytes), nil
	case TextNumber:
		return Numeric(tok.Bytes), nil
	default:
		return Value{}, fmt.Errorf("%w: token kind %d is not a scalar", ErrProtocol, tok.Kind)
	}
}

// AppendText appends c's JSON-like text form to buf and returns the
// extended slice, mirroring JsonbToCString in jsonb.c closely enough to
// keep its one notable quirk: composite separators are the two bytes
// ", " (comma, space), not a bare comma.
func AppendText(buf []byte, c Container) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return appendContainerText(buf, c), nil
}

func appendContainerText(buf []byte, c Container) []byte {
	h := c.header()
	if h.isScalar() {
		es := c.entries()
		return appendChildText(buf, es[0], c.child(es, 0))
	}
	if h.isObject() {
		return appendObjectText(buf, c)
	}
	return appendArrayText(buf, c)
}

func appendArrayText(buf []byte, c Container) []byte {
	es := c.entries()
	n := len(es)
	buf = append(buf, '[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ',', ' ')
		}
		buf = appendChildText(buf, es[i], c.child(es, i))
	}
	return append(buf, ']')
}

func appendObjectText(buf []byte, c Container) []byte {
	es := c.entries()
	n := Len(c)
	buf = append(buf, '{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ',', ' ')
		}
		buf = appendEscapedString(buf, c.child(es, i))
		buf = append(buf, ':', ' ')
		buf = appendChildText(buf, es[n+i], c.child(es, n+i))
	}
	return append(buf, '}')
}

func appendChildText(buf []byte, e entry, payload []byte) []byte {
	switch {
	case e.isNull():
		return append(buf, "null"...)
	case e.isBool():
		if e.isTrue() {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case e.isString():
		return appendEscapedString(buf, payload)
	case e.isNumeric():
		return append(buf, payload...)
	case e.isNest():
		return appendContainerText(buf, Container(payload))
	default:
		panic("semidoc: appendChildText called on an unrecognized entry type")
	}
}

func appendEscapedString(buf []byte, s []byte) []byte {
	buf = append(buf, '"')
	for _, c := range s {
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if c < 0x20 {
				const hex = "0123456789abcdef"
				buf = append(buf, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
				continue
			}
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}
