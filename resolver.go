package semidoc

// NumericResolver interprets the opaque byte payload carried by
// KindNumeric values well enough to order and hash them. This package
// never decodes a numeric payload itself — doing so would require
// committing to one arbitrary-precision representation — so every
// operation that needs to compare or hash numerics takes a
// NumericResolver explicitly (§5 "Resolution failure").
//
// The numeric subpackage provides a ready-to-use implementation backed
// by math/big; callers with their own decimal representation can supply
// their own.
type NumericResolver interface {
	// Cmp returns -1, 0, or 1 as the numeric encoded by a is less than,
	// equal to, or greater than the numeric encoded by b.
	Cmp(a, b []byte) (int, error)
	// Eq reports whether a and b encode the same numeric value. It may
	// be cheaper than Cmp(a, b) == 0 for representations with a fast
	// equality path.
	Eq(a, b []byte) (bool, error)
	// Hash returns a hash of the numeric value encoded by a, consistent
	// with Eq: Eq(a, b) implies Hash(a) == Hash(b).
	Hash(a []byte) (uint64, error)
}
