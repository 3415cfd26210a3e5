package semidoc

// Package semidoc implements a compact, self-describing, immutable binary
// container for schema-less semi-structured values: nulls, booleans,
// numerics, strings, ordered arrays and key-sorted objects. A Container
// packs an arbitrarily nested tree into a single contiguous byte slice
// with constant-time child access and no heap pointers, while retaining
// enough type information to walk it without an external schema.
//
// Values are built from a stream of push events (see Builder), compacted
// into a Container (see Compact), and read back out through either a
// recursive Walk over an unpacked Value or a stack-based forward Cursor
// over a packed Container. Both emit the same event stream.

// Kind identifies the variant of a Value. The numeric ordering of Kind
// constants is significant: it is the total order used to rank values of
// different kinds against each other in Compare (§4.7 of the design:
// Null < String < Numeric < Bool < Array < Object < Binary).
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumeric
	KindBool
	KindArray
	KindObject
	KindBinary
)

// String returns a lower-case name for the Kind, suitable for error
// messages and the TypeOf helper.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumeric:
		return "number"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Value is an in-memory node of an unpacked tree. It is a tagged union:
// only the fields relevant to Kind are meaningful. Scalars carry their
// payload directly (no heap boxing of numbers/bools); composites carry
// child slices.
//
// A Value tree is produced by a Builder, consumed once by Compact, and
// then discarded — it is not retained by the resulting Container.
type Value struct {
	Kind Kind

	Bool    bool
	Numeric []byte // opaque arbitrary-precision decimal, resolved externally
	Str     []byte // raw bytes, not NUL-terminated, byte-transparent

	Elems  []Value // KindArray children, in order
	Scalar bool     // KindArray only: true if this array is a one-element
	// wrapper around a top-level scalar (the IS_SCALAR marker, §3)

	Pairs []Pair // KindObject children, sorted per Pair ordering once built

	Bin []byte // KindBinary: bytes of an already-packed subtree

	// size is a running upper bound, in bytes, on the packed
	// representation of this value and everything beneath it. It is
	// maintained by the Builder and consulted by Compact to size the
	// output buffer and assert against runaway emission (§4.4, §7).
	size uint32
}

// Pair is one key/value entry of an object under construction. order
// records the push sequence number so that, when two pushed keys
// compare equal under the object key order, the dedupe pass in
// Builder.EndObject can keep the later push (§4.3).
type Pair struct {
	Key   []byte
	Value Value
	order uint32
}

// Null returns the null scalar Value.
func Null() Value { return Value{Kind: KindNull, size: entrySize} }

// Bool returns a boolean scalar Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b, size: entrySize} }

// String returns a string scalar Value. b is not copied.
func String(b []byte) Value {
	return Value{Kind: KindString, Str: b, size: entrySize + uint32(len(b))}
}

// Numeric returns a numeric scalar Value wrapping an opaque,
// externally-produced decimal byte representation. b is not copied.
func Numeric(b []byte) Value {
	return Value{Kind: KindNumeric, Numeric: b, size: 2*entrySize + uint32(len(b))}
}

// entrySize is the on-disk size, in bytes, of one JEntry-equivalent
// descriptor; used when estimating the upper bound consulted by Compact.
const entrySize = 4

// compareKeyOrder returns a negative, zero or positive int as key a sorts
// before, equal to or after key b under the object key total order:
// shorter keys first, ties broken by raw
// byte comparison (§3, §4.7). This order is intentionally not
// locale-aware: it is a pure byte/length order by design (§1 Non-goals).
func compareKeyOrder(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return compareBytes(a, b)
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
