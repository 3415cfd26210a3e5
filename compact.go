package semidoc

import "fmt"

// Compact packs an in-memory Value tree produced by a Builder into a
// Container: a single contiguous byte slice with no internal pointers,
// laid out as described in §4.4. The root must be an array or an
// object — a bare top-level scalar must first be wrapped with
// WrapScalar, matching how a Builder always finishes at a composite.
//
// Compact performs one depth-first pass. Each composite's header and
// entry array are reserved up front (their size is known from the
// child count before any child is visited) and entries are back-patched
// as children are emitted, so nothing is revisited. Numeric and nested
// children are preceded by zero padding so they begin on a 4-byte
// boundary relative to the start of their container's payload; since
// every container's own payload begins 4-byte aligned (the header is 4
// bytes and every entry is 4 bytes), a child's required alignment
// depends only on its offset within the payload, not on any absolute
// position — so the padding decision never needs to look further up the
// tree than the immediately enclosing container.
//
// Before returning, Compact asserts the bytes it actually emitted fit
// within root.size, the bound the Builder computed while constructing
// the tree; a violation means the size bookkeeping and the emission
// logic have drifted apart, and Compact panics rather than hand back a
// Container some other piece of this package silently mis-sized (§7
// "Invariant breach"). A root whose size is zero carries no bound — a
// Builder never produces one, but Decode, Recv and hand-built trees do —
// and is compacted without the assertion.
func Compact(root Value) (Container, error) {
	if root.Kind != KindArray && root.Kind != KindObject {
		return nil, fmt.Errorf("%w: container root must be an array or object", ErrDomain)
	}
	buf := make([]byte, 0, root.size+16)
	buf, err := emitComposite(buf, root)
	if err != nil {
		return nil, err
	}
	if root.size != 0 && uint32(len(buf)) > root.size {
		panic(fmt.Sprintf("semidoc: compactor emitted %d bytes, exceeding the builder-computed bound of %d", len(buf), root.size))
	}
	return Container(buf), nil
}

func emitComposite(buf []byte, v Value) ([]byte, error) {
	switch v.Kind {
	case KindArray:
		return emitArray(buf, v)
	case KindObject:
		return emitObject(buf, v)
	default:
		panic("semidoc: emitComposite called on a non-composite value")
	}
}

func emitArray(buf []byte, v Value) ([]byte, error) {
	count := len(v.Elems)
	if uint32(count) > headerCountMask {
		return nil, fmt.Errorf("%w: array has too many elements", ErrDomain)
	}
	h := makeHeader(uint32(count), true, false, v.Scalar)
	buf = appendU32(buf, uint32(h))
	entriesAt := len(buf)
	buf = append(buf, make([]byte, 4*count)...)
	payloadAt := len(buf)

	for i, elem := range v.Elems {
		var (
			tc  typeCode
			err error
		)
		buf, tc, err = emitChild(buf, elem, payloadAt)
		if err != nil {
			return nil, err
		}
		relEnd := uint32(len(buf) - payloadAt)
		e := makeEntry(i == 0, tc, relEnd)
		putU32(buf[entriesAt+4*i:], uint32(e))
	}
	return buf, nil
}

func emitObject(buf []byte, v Value) ([]byte, error) {
	count := len(v.Pairs)
	if uint32(count) > headerCountMask {
		return nil, fmt.Errorf("%w: object has too many pairs", ErrDomain)
	}
	h := makeHeader(uint32(count), false, true, false)
	buf = appendU32(buf, uint32(h))
	// Keys get one entry array, values get a second, immediately
	// following: all key entries first, then all value entries, then
	// all key payloads, then all value payloads (§4.4). This mirrors
	// how the packed walker and cursor expect to find a pair's key
	// entry at index i and its value entry at index count+i.
	entriesAt := len(buf)
	buf = append(buf, make([]byte, 8*count)...)
	payloadAt := len(buf)

	for i, p := range v.Pairs {
		if len(p.Key) > MaxStringLen {
			return nil, ErrStringTooLong
		}
		buf = append(buf, p.Key...)
		relEnd := uint32(len(buf) - payloadAt)
		e := makeEntry(i == 0, typeString, relEnd)
		putU32(buf[entriesAt+4*i:], uint32(e))
	}
	for i, p := range v.Pairs {
		var (
			tc  typeCode
			err error
		)
		buf, tc, err = emitChild(buf, p.Value, payloadAt)
		if err != nil {
			return nil, err
		}
		relEnd := uint32(len(buf) - payloadAt)
		e := makeEntry(false, tc, relEnd)
		putU32(buf[entriesAt+4*(count+i):], uint32(e))
	}
	return buf, nil
}

// emitChild appends one scalar/nested payload to buf, returning the
// entry type code to record for it. payloadAt is the absolute offset at
// which the enclosing container's payload begins, used to compute the
// relative offset that alignment padding is measured against.
func emitChild(buf []byte, v Value, payloadAt int) ([]byte, typeCode, error) {
	switch v.Kind {
	case KindNull:
		return buf, typeNull, nil
	case KindBool:
		if v.Bool {
			return buf, typeTrue, nil
		}
		return buf, typeFalse, nil
	case KindString:
		if len(v.Str) > MaxStringLen {
			return nil, 0, ErrStringTooLong
		}
		buf = append(buf, v.Str...)
		return buf, typeString, nil
	case KindNumeric:
		buf = padAlign4(buf, payloadAt)
		buf = append(buf, v.Numeric...)
		return buf, typeNumeric, nil
	case KindArray, KindObject:
		buf = padAlign4(buf, payloadAt)
		var err error
		buf, err = emitComposite(buf, v)
		return buf, typeNest, err
	case KindBinary:
		// A pre-packed subtree spliced in verbatim: on the wire it is
		// indistinguishable from an ordinary nested container.
		buf = padAlign4(buf, payloadAt)
		buf = append(buf, v.Bin...)
		return buf, typeNest, nil
	default:
		panic("semidoc: emitChild called on a Value with an unrecognized Kind")
	}
}

func padAlign4(buf []byte, payloadAt int) []byte {
	rel := len(buf) - payloadAt
	n := align4(rel)
	for i := 0; i < n; i++ {
		buf = append(buf, 0)
	}
	return buf
}

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
