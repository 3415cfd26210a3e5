package semidoc

import "fmt"

// The wire format is deliberately simpler than the on-disk Container
// layout (§4.4, entry.go): every child is a plain 32-bit length
// followed by that many bytes, with length 0xFFFFFFFF (-1 as a signed
// 32-bit count) denoting null — the same shape jsonb's ancestor hstore
// used for its binary send/recv, long before the bit-packed entry
// descriptor existed. Send/Recv exist to interoperate with that older,
// simpler wire contract; ordinary in-process use should stay on
// Container/Compact/Decode, which never leaves the compact layout.
const wireNullLength uint32 = 0xFFFFFFFF

// Wire type tags identify what a non-null child blob holds. Keys have
// no tag: an object's member names are always strings, matching
// hstore's wire format where every key is text by construction.
const (
	wireTagTrue      byte = 't'
	wireTagFalse     byte = 'f'
	wireTagString    byte = 's'
	wireTagNumeric   byte = 'z'
	wireTagComposite byte = 'c'
)

// Send serializes c in the wire format: the root header word (count and
// IS_ARRAY/IS_OBJECT/IS_SCALAR flags, reusing the same header encoding
// as the on-disk layout) followed by each child as a length-prefixed
// blob, recursively for nested composites. Grounded on jsonb_send's
// shape (a version/format marker followed by the value's serialized
// body) without carrying its one-byte version prefix, since this
// format has no prior version to distinguish itself from.
func Send(c Container) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return appendWireComposite(nil, Decode(c)), nil
}

// Recv parses data in the format Send produces and compacts the result
// back into the on-disk Container layout — the core package only ever
// operates on that layout; Recv is the migration boundary. If the root
// header has neither IS_ARRAY nor IS_OBJECT set, IS_OBJECT is inferred,
// matching the legacy compatibility rule for containers written before
// the array/object distinction existed (§6).
func Recv(data []byte) (Container, error) {
	r := &wireReader{b: data}
	v, err := r.readComposite()
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.b) {
		return nil, fmt.Errorf("%w: trailing bytes after wire payload", ErrMalformed)
	}
	return Compact(v)
}

func appendWireComposite(buf []byte, v Value) []byte {
	switch v.Kind {
	case KindArray:
		h := makeHeader(uint32(len(v.Elems)), true, false, v.Scalar)
		buf = appendU32(buf, uint32(h))
		for _, e := range v.Elems {
			buf = appendWireChild(buf, e)
		}
		return buf
	case KindObject:
		h := makeHeader(uint32(len(v.Pairs)), false, true, false)
		buf = appendU32(buf, uint32(h))
		for _, p := range v.Pairs {
			buf = appendWireKey(buf, p.Key)
			buf = appendWireChild(buf, p.Value)
		}
		return buf
	default:
		panic("semidoc: appendWireComposite called on a non-composite value")
	}
}

func appendWireKey(buf, key []byte) []byte {
	buf = appendU32(buf, uint32(len(key)))
	return append(buf, key...)
}

func appendWireChild(buf []byte, v Value) []byte {
	if v.Kind == KindNull {
		return appendU32(buf, wireNullLength)
	}
	var blob []byte
	switch v.Kind {
	case KindBool:
		if v.Bool {
			blob = []byte{wireTagTrue}
		} else {
			blob = []byte{wireTagFalse}
		}
	case KindString:
		blob = append([]byte{wireTagString}, v.Str...)
	case KindNumeric:
		blob = append([]byte{wireTagNumeric}, v.Numeric...)
	case KindArray, KindObject:
		blob = appendWireComposite([]byte{wireTagComposite}, v)
	default:
		panic("semidoc: appendWireChild called on a Value with an unrecognized Kind")
	}
	buf = appendU32(buf, uint32(len(blob)))
	return append(buf, blob...)
}

type wireReader struct {
	b   []byte
	pos int
}

func (r *wireReader) u32() (uint32, error) {
	if r.pos+4 > len(r.b) {
		return 0, fmt.Errorf("%w: wire payload truncated before a 32-bit field", ErrMalformed)
	}
	v := getU32(r.b[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *wireReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.b) {
		return nil, fmt.Errorf("%w: wire payload truncated before its declared length", ErrMalformed)
	}
	b := r.b[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *wireReader) readComposite() (Value, error) {
	hv, err := r.u32()
	if err != nil {
		return Value{}, err
	}
	h := header(hv)
	isArray, isObject := h.isArray(), h.isObject()
	if !isArray && !isObject {
		isObject = true
	}
	n := int(h.count())
	if isArray {
		elems := make([]Value, n)
		for i := 0; i < n; i++ {
			v, err := r.readChild()
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{Kind: KindArray, Elems: elems, Scalar: h.isScalar()}, nil
	}
	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		key, err := r.readKey()
		if err != nil {
			return Value{}, err
		}
		val, err := r.readChild()
		if err != nil {
			return Value{}, err
		}
		pairs[i] = Pair{Key: key, Value: val}
	}
	return Value{Kind: KindObject, Pairs: pairs}, nil
}

func (r *wireReader) readKey() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("%w: wire payload truncated before a key length", ErrMalformed)
	}
	return r.bytes(int(n))
}

func (r *wireReader) readChild() (Value, error) {
	length, err := r.u32()
	if err != nil {
		return Value{}, fmt.Errorf("%w: wire payload truncated before a child length", ErrMalformed)
	}
	if length == wireNullLength {
		return Null(), nil
	}
	blob, err := r.bytes(int(length))
	if err != nil {
		return Value{}, fmt.Errorf("%w: wire payload truncated before a child body", ErrMalformed)
	}
	if len(blob) == 0 {
		return Value{}, fmt.Errorf("%w: wire child blob missing its type tag", ErrMalformed)
	}
	tag, content := blob[0], blob[1:]
	switch tag {
	case wireTagTrue:
		return Bool(true), nil
	case wireTagFalse:
		return Bool(false), nil
	case wireTagString:
		return String(content), nil
	case wireTagNumeric:
		return Numeric(content), nil
	case wireTagComposite:
		sub := &wireReader{b: content}
		v, err := sub.readComposite()
		if err != nil {
			return Value{}, err
		}
		if sub.pos != len(sub.b) {
			return Value{}, fmt.Errorf("%w: trailing bytes in a nested wire child", ErrMalformed)
		}
		return v, nil
	default:
		return Value{}, fmt.Errorf("%w: unrecognized wire type tag %q", ErrMalformed, tag)
	}
}
