package semidoc

import "fmt"

// Container is a packed, immutable binary value: the output of Compact
// and the input to every read-only operation in this package
// (WalkContainer, Cursor, Find, Compare, DeepContains). It owns no
// pointers and can be memory-mapped, embedded in a larger buffer, or
// sent over the wire verbatim — reading it never requires copying, only
// reinterpreting the bytes in place (§1, §4.4).
//
// A Container's zero value is not valid; construct one with New or by
// receiving bytes produced elsewhere (Recv, or a slice of another
// Container).
type Container []byte

// New builds a Container from a completed Value tree, equivalent to
// calling Compact directly.
func New(root Value) (Container, error) {
	return Compact(root)
}

// minContainerLen is the smallest possible packed buffer: a header with
// zero elements and no entries or payload.
const minContainerLen = 4

func (c Container) header() header {
	return header(getU32(c))
}

// entries returns the entry array of c's outermost composite. For an
// object this is 2*count entries: count key entries followed by count
// value entries, sharing one monotonic end-position sequence.
func (c Container) entries() []entry {
	h := c.header()
	n := int(h.count())
	m := n
	if h.isObject() {
		m = n * 2
	}
	es := make([]entry, m)
	for i := range es {
		es[i] = entry(getU32(c[4+4*i:]))
	}
	return es
}

func (c Container) payloadStart() int {
	h := c.header()
	n := int(h.count())
	if h.isObject() {
		n *= 2
	}
	return 4 + 4*n
}

// child returns the raw bytes of the i-th entry's payload (a key, a
// scalar, or — for a typeNest entry — a complete nested Container).
func (c Container) child(entries []entry, i int) []byte {
	base := c.payloadStart()
	start := base + int(off(entries, i))
	end := base + int(entries[i].endPos())
	return c[start:end]
}

// validate performs the structural sanity checks a reader must run on a
// Container it did not itself produce via Compact (§7 "Domain
// violation" for malformed input, as opposed to "Invariant breach" for
// data this package produced itself).
func (c Container) validate() error {
	if len(c) < minContainerLen {
		return fmt.Errorf("%w: buffer shorter than a header", ErrMalformed)
	}
	h := c.header()
	if h.isArray() == h.isObject() {
		return fmt.Errorf("%w: header must mark exactly one of array/object", ErrMalformed)
	}
	n := int(h.count())
	m := n
	if h.isObject() {
		m = n * 2
	}
	need := 4 + 4*m
	if len(c) < need {
		return fmt.Errorf("%w: buffer shorter than its declared entry array", ErrMalformed)
	}
	if m > 0 {
		es := c.entries()
		if !es[0].isFirst() {
			return fmt.Errorf("%w: first entry missing isFirst flag", ErrMalformed)
		}
		var prev uint32
		for i, e := range es {
			if i > 0 && e.isFirst() {
				return fmt.Errorf("%w: isFirst flag set on a non-leading entry", ErrMalformed)
			}
			if e.endPos() < prev {
				return fmt.Errorf("%w: entry end-positions are not monotonic", ErrMalformed)
			}
			prev = e.endPos()
		}
		if need+int(prev) > len(c) {
			return fmt.Errorf("%w: entry end-positions run past the buffer", ErrMalformed)
		}
	}
	return nil
}

// TypeOf reports the Kind of the value a Container holds. A container
// built from a scalar (via WrapScalar, then Compact) reports the
// wrapped scalar's Kind rather than KindArray, matching jsonb_typeof's
// treatment of scalar jsonb values (§4.4 "Scalar marker").
func TypeOf(c Container) Kind {
	h := c.header()
	if h.isScalar() {
		es := c.entries()
		return kindForEntry(es[0], c.child(es, 0))
	}
	if h.isObject() {
		return KindObject
	}
	return KindArray
}

func kindForEntry(e entry, payload []byte) Kind {
	switch {
	case e.isNull():
		return KindNull
	case e.isBool():
		return KindBool
	case e.isString():
		return KindString
	case e.isNumeric():
		return KindNumeric
	case e.isNest():
		return TypeOf(Container(payload))
	default:
		panic("semidoc: entry has an unrecognized type code")
	}
}

// Len returns the number of direct elements (array) or pairs (object)
// in c's outermost composite, matching jsonb's container element count
// regardless of the scalar marker.
func Len(c Container) int {
	return int(c.header().count())
}

// IsScalar reports whether c is the one-element wrapper array produced
// by WrapScalar.
func IsScalar(c Container) bool {
	return c.header().isScalar()
}

// Decode fully materializes a Container back into a Value tree. It is
// the inverse of Compact (modulo the unexported size bookkeeping
// Compact uses internally), useful for tests, for feeding a packed
// value back through a Builder, and for Compare's treatment of
// KindBinary operands.
func Decode(c Container) Value {
	return decodeValue(c)
}

func decodeValue(c Container) Value {
	h := c.header()
	es := c.entries()
	n := int(h.count())
	if h.isObject() {
		pairs := make([]Pair, n)
		for i := 0; i < n; i++ {
			key := c.child(es, i)
			ve := es[n+i]
			vp := c.child(es, n+i)
			var v Value
			if ve.isNest() {
				v = decodeValue(Container(vp))
			} else {
				v = scalarValue(ve, vp)
			}
			pairs[i] = Pair{Key: key, Value: v}
		}
		return Value{Kind: KindObject, Pairs: pairs}
	}
	elems := make([]Value, n)
	for i := 0; i < n; i++ {
		ee := es[i]
		ep := c.child(es, i)
		if ee.isNest() {
			elems[i] = decodeValue(Container(ep))
		} else {
			elems[i] = scalarValue(ee, ep)
		}
	}
	return Value{Kind: KindArray, Elems: elems, Scalar: h.isScalar()}
}
