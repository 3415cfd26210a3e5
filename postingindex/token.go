package postingindex

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Token is a posting-list key: the byte representation of a GIN search
// token (a flagged key/element/value token from the ginindex package, a
// hashed path fingerprint, or any other caller-defined lexeme). Use the
// provided constructors to build Tokens from primitive types or
// normalized strings so that Tokens derived from the same logical value
// always compare equal and sort consistently.
//
// Integer encoding policy
// -----------------------
// All integer constructors produce an 8-byte big-endian representation
// (most-significant byte first). To ensure consistent, order-preserving
// comparisons across signed and unsigned types and across different
// integer widths, every integer constructor adds an offset of `1<<63`
// before encoding the numeric value. For signed constructors the value
// is first converted to `int64`, for unsigned constructors it is treated
// as `uint64`; in both cases the offset is added and the resulting
// unsigned 64-bit value is written big-endian into the Token.
//
// This mapping has two useful properties:
//   - Lexicographic byte-wise comparison of Tokens corresponds to
//     numeric ordering of the original values (taking signedness into
//     account). Unsigned values of 1<<63 and above wrap when the offset
//     is added and sort before zero, so this holds for them only below
//     1<<63.
//   - Values produced from different source widths are comparable (for
//     example `FromInt32(x)` equals `FromInt64(x)` for the same numeric x).
type Token []byte

// FromBytes returns a copy of the provided byte slice as a Token. If b is
// nil this returns an empty (zero-length) Token (not nil).
func FromBytes(b []byte) Token {
	if b == nil {
		return []byte{}
	}
	kb := make([]byte, len(b))
	copy(kb, b)
	return Token(kb)
}

// FromString returns a Token produced from the provided string after
// normalizing it to Unicode NFC. The resulting Token contains the UTF-8
// encoding of the normalized string. (FromString does not alter case or
// trim spaces.)
func FromString(s string) Token {
	s = norm.NFC.String(s)
	return FromBytes([]byte(s))
}

// FromInt converts an `int` to an 8-byte big-endian Token. The signed
// integer range is shifted by adding 1<<63 so that negative values
// compare before positive values when Tokens are compared lexically.
func FromInt(i int) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	u := uint64(int64(i)) + offset
	binary.BigEndian.PutUint64(b[:], u)
	return FromBytes(b[:])
}

// FromInt64 converts an int64 to an 8-byte big-endian Token, shifted by
// 1<<63 so that lexical Token order matches numeric order.
func FromInt64(i int64) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	u := uint64(i) + offset
	binary.BigEndian.PutUint64(b[:], u)
	return FromBytes(b[:])
}

// FromInt32 converts an int32 to an 8-byte big-endian Token (value is
// encoded into 64 bits, shifted by 1<<63 for order-preserving behavior
// across widths).
func FromInt32(i int32) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	u := uint64(int64(i)) + offset
	binary.BigEndian.PutUint64(b[:], u)
	return FromBytes(b[:])
}

// FromInt16 converts an int16 to an 8-byte big-endian Token.
func FromInt16(i int16) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	u := uint64(int64(i)) + offset
	binary.BigEndian.PutUint64(b[:], u)
	return FromBytes(b[:])
}

// FromInt8 converts an int8 to an 8-byte big-endian Token.
func FromInt8(i int8) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	u := uint64(int64(i)) + offset
	binary.BigEndian.PutUint64(b[:], u)
	return FromBytes(b[:])
}

// FromUint converts a uint to an 8-byte big-endian Token (MSB first).
func FromUint(u uint) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	binary.BigEndian.PutUint64(b[:], uint64(u)+offset)
	return FromBytes(b[:])
}

// FromUint64 converts a uint64 to an 8-byte big-endian Token (MSB first).
func FromUint64(u uint64) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	binary.BigEndian.PutUint64(b[:], u+offset)
	return FromBytes(b[:])
}

// FromUint32 converts a uint32 to an 8-byte big-endian Token.
func FromUint32(u uint32) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	binary.BigEndian.PutUint64(b[:], uint64(u)+offset)
	return FromBytes(b[:])
}

// FromUint16 converts a uint16 to an 8-byte big-endian Token.
func FromUint16(u uint16) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	binary.BigEndian.PutUint64(b[:], uint64(u)+offset)
	return FromBytes(b[:])
}

// FromUint8 converts a uint8 to an 8-byte big-endian Token.
func FromUint8(u uint8) Token {
	var b [8]byte
	const offset = uint64(1) << 63
	binary.BigEndian.PutUint64(b[:], uint64(u)+offset)
	return FromBytes(b[:])
}

// FromByte is an alias for FromUint8.
func FromByte(b byte) Token { return FromUint8(uint8(b)) }

// FromRune converts a rune to its UTF-8 encoding as a Token.
func FromRune(r rune) Token {
	var buf [4]byte
	n := utf8EncodeRune(buf[:], r)
	return FromBytes(buf[:n])
}

// Bytes returns a copy of the Token as a byte slice.
func (k Token) Bytes() []byte {
	if k == nil {
		return nil
	}
	b := make([]byte, len(k))
	copy(b, k)
	return b
}

// Clone returns an independent copy of the Token. If k is nil, Clone
// returns nil.
func (k Token) Clone() Token {
	if k == nil {
		return nil
	}
	kb := make([]byte, len(k))
	copy(kb, k)
	return Token(kb)
}

// String returns the Token as uppercase hex byte tuples, comma
// separated and bracketed (e.g. "[01,AB,00]").
func (k Token) String() string {
	if len(k) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	const hex = "0123456789ABCDEF"
	for i, b := range k {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteByte(hex[b>>4])
		sb.WriteByte(hex[b&0x0F])
	}
	sb.WriteByte(']')
	return sb.String()
}

// Equal reports whether k and other have the same contents.
func (k Token) Equal(other Token) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// LessThan reports whether k is lexicographically less than other.
func (k Token) LessThan(other Token) bool {
	for i := 0; i < len(k) && i < len(other); i++ {
		if k[i] < other[i] {
			return true
		} else if k[i] > other[i] {
			return false
		}
	}
	return len(k) < len(other)
}

// IsEmpty returns whether the Token is empty or nil.
func (k Token) IsEmpty() bool { return len(k) == 0 }

func utf8EncodeRune(buf []byte, r rune) int {
	switch {
	case r <= 0x7F:
		buf[0] = byte(r)
		return 1
	case r <= 0x7FF:
		buf[0] = 0xC0 | byte(r>>6)
		buf[1] = 0x80 | byte(r)&0x3F
		return 2
	case r <= 0xFFFF:
		buf[0] = 0xE0 | byte(r>>12)
		buf[1] = 0x80 | byte(r>>6)&0x3F
		buf[2] = 0x80 | byte(r)&0x3F
		return 3
	default:
		buf[0] = 0xF0 | byte(r>>18)
		buf[1] = 0x80 | byte(r>>12)&0x3F
		buf[2] = 0x80 | byte(r>>6)&0x3F
		buf[3] = 0x80 | byte(r)&0x3F
		return 4
	}
}
