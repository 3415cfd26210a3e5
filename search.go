package semidoc

import "fmt"

// FindKey performs a binary search for key among an object Container's
// pairs — objects are always stored key-sorted (§4.3), so this is
// always O(log n), unlike array element lookup. It panics if c does not
// hold an object.
func FindKey(c Container, key []byte) (Value, bool) {
	v, ok, _ := FindKeyFrom(c, key, 0)
	return v, ok
}

// FindKeyFrom is FindKey with a starting index hint: the search never
// looks below lowbound, so a scan of two key-sorted sides can become a
// single forward merge instead of a fresh binary search per key (§4.7;
// DeepContains applies the same idea through binarySearchPairsFrom).
// The returned index is where the next search for a larger key may
// safely start.
func FindKeyFrom(c Container, key []byte, lowbound int) (Value, bool, int) {
	h := c.header()
	if !h.isObject() {
		panic("semidoc: FindKeyFrom called on a non-object container")
	}
	n := int(h.count())
	es := c.entries()
	lo, hi := lowbound, n
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := compareKeyOrder(c.child(es, mid), key)
		switch {
		case cmp == 0:
			ve := es[n+mid]
			vp := c.child(es, n+mid)
			if ve.isNest() {
				return Value{Kind: KindBinary, Bin: vp}, true, mid + 1
			}
			return scalarValue(ve, vp), true, mid + 1
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Value{}, false, lo
}

// FindElem reports whether target occurs among an array Container's
// elements, via Compare (so nested elements compare structurally rather
// than by identity). Arrays are not key-sorted, so this is a linear
// scan; ginindex applies its own linear/binary crossover heuristic when
// scanning sorted token lists, which is a distinct concern from this
// function. It panics if c does not hold an array.
func FindElem(c Container, target Value, resolver NumericResolver) (int, bool, error) {
	h := c.header()
	if !h.isArray() {
		panic("semidoc: FindElem called on a non-array container")
	}
	n := int(h.count())
	es := c.entries()
	for i := 0; i < n; i++ {
		ee := es[i]
		ep := c.child(es, i)
		var v Value
		if ee.isNest() {
			v = Value{Kind: KindBinary, Bin: ep}
		} else {
			v = scalarValue(ee, ep)
		}
		cmp, err := Compare(v, target, resolver)
		if err != nil {
			return 0, false, err
		}
		if cmp == 0 {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// Compare orders two Values under the fixed Kind ranking declared on
// the Kind type, then a per-kind comparator for values of the same
// Kind. KindNumeric comparisons are delegated to resolver, which may be
// nil only when neither operand is KindNumeric (§5, §7 "Resolution
// failure"). KindBinary operands — raw packed sub-containers, as
// returned by FindKeyFrom/FindElem/Cursor.Next(skipNested=true) for
// nested children — are fully decoded and compared structurally; the
// resulting order is total and deterministic but carries no domain
// meaning beyond "equal or not", since this format defines no natural
// ordering between two composite values (§4.7).
func Compare(a, b Value, resolver NumericResolver) (int, error) {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1, nil
		}
		return 1, nil
	}
	switch a.Kind {
	case KindNull:
		return 0, nil
	case KindString:
		return compareBytes(a.Str, b.Str), nil
	case KindNumeric:
		if resolver == nil {
			return 0, fmt.Errorf("%w: nil resolver cannot compare numeric payloads", ErrResolution)
		}
		return resolver.Cmp(a.Numeric, b.Numeric)
	case KindBool:
		switch {
		case a.Bool == b.Bool:
			return 0, nil
		case !a.Bool:
			return -1, nil
		default:
			return 1, nil
		}
	case KindArray:
		return compareValueSlice(a.Elems, b.Elems, resolver)
	case KindObject:
		return compareObject(a, b, resolver)
	case KindBinary:
		return compareBinary(a.Bin, b.Bin, resolver)
	default:
		panic("semidoc: Compare called with an unrecognized Kind")
	}
}

func compareValueSlice(a, b []Value, resolver NumericResolver) (int, error) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		cmp, err := Compare(a[i], b[i], resolver)
		if err != nil {
			return 0, err
		}
		if cmp != 0 {
			return cmp, nil
		}
	}
	switch {
	case len(a) < len(b):
		return -1, nil
	case len(a) > len(b):
		return 1, nil
	default:
		return 0, nil
	}
}

func compareObject(a, b Value, resolver NumericResolver) (int, error) {
	n := len(a.Pairs)
	if len(b.Pairs) < n {
		n = len(b.Pairs)
	}
	for i := 0; i < n; i++ {
		if c := compareKeyOrder(a.Pairs[i].Key, b.Pairs[i].Key); c != 0 {
			return c, nil
		}
		cmp, err := Compare(a.Pairs[i].Value, b.Pairs[i].Value, resolver)
		if err != nil {
			return 0, err
		}
		if cmp != 0 {
			return cmp, nil
		}
	}
	switch {
	case len(a.Pairs) < len(b.Pairs):
		return -1, nil
	case len(a.Pairs) > len(b.Pairs):
		return 1, nil
	default:
		return 0, nil
	}
}

func compareBinary(aBin, bBin []byte, resolver NumericResolver) (int, error) {
	return Compare(decodeValue(Container(aBin)), decodeValue(Container(bBin)), resolver)
}

// DeepContains reports whether containee is existentially contained in
// container (§4.7): every pair of an object containee must be present
// in the corresponding object of container with a deeply-contained
// value, and every element of an array containee must match some
// element of the corresponding array of container. A mismatch of
// container shape (object vs array) at any level of recursion is not
// contained. Top-level scalars must already be wrapped (WrapScalar)
// before reaching this function, matching how Compact only ever
// accepts an array or object root.
func DeepContains(container, containee Container, resolver NumericResolver) (bool, error) {
	if err := container.validate(); err != nil {
		return false, err
	}
	if err := containee.validate(); err != nil {
		return false, err
	}
	return valueDeepContains(decodeValue(container), decodeValue(containee), resolver)
}

func valueDeepContains(container, sub Value, resolver NumericResolver) (bool, error) {
	switch sub.Kind {
	case KindObject:
		if container.Kind != KindObject {
			return false, nil
		}
		lowbound := 0
		for _, sp := range sub.Pairs {
			idx, next := binarySearchPairsFrom(container.Pairs, sp.Key, lowbound)
			if idx < 0 {
				return false, nil
			}
			lowbound = next
			ok, err := containsOne(container.Pairs[idx].Value, sp.Value, resolver)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case KindArray:
		if container.Kind != KindArray {
			return false, nil
		}
		for _, se := range sub.Elems {
			found := false
			for _, ce := range container.Elems {
				ok, err := containsOne(ce, se, resolver)
				if err != nil {
					return false, err
				}
				if ok {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: DeepContains operands must be arrays or objects", ErrDomain)
	}
}

func containsOne(container, sub Value, resolver NumericResolver) (bool, error) {
	if sub.Kind == KindObject || sub.Kind == KindArray {
		return valueDeepContains(container, sub, resolver)
	}
	cmp, err := Compare(container, sub, resolver)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// binarySearchPairsFrom looks up key among pairs (sorted ascending, as
// every decoded object's Pairs are) without searching below lowbound,
// returning the found index (or -1) and the index at which the next,
// larger key may safely resume searching.
func binarySearchPairsFrom(pairs []Pair, key []byte, lowbound int) (int, int) {
	lo, hi := lowbound, len(pairs)
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := compareKeyOrder(pairs[mid].Key, key)
		switch {
		case cmp == 0:
			return mid, mid + 1
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return -1, lo
}
