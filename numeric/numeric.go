// Package numeric provides a default implementation of the numeric
// resolution interface (semidoc.NumericResolver, consumed structurally
// so this package need not import semidoc) used wherever a Numeric
// Value's opaque payload must be ordered, tested for equality, or
// hashed — comparing array elements, extracting GIN tokens, and so on.
package numeric

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/dolthub/maphash"
)

// Resolver treats a numeric payload as the ASCII decimal text of the
// value (an optional sign, digits, an optional "/denominator" or
// decimal point) — the simplest concrete encoding that satisfies
// "opaque, externally-resolved decimal" without inventing a bespoke
// binary format nothing else in the retrieval pack would recognize.
// math/big is the only arbitrary-precision package available anywhere
// in the pack, so it is the natural backing representation.
//
// Resolver caches parsed values keyed by their raw byte payload so
// repeated comparisons of the same literal within one document are not
// repeatedly re-parsed. The cache is a mutex-guarded append-and-scan
// slice, the same shape array_based.go's MultiMap uses — appropriate
// here because one Resolver's cache only ever holds the bounded set of
// distinct numeric literals seen in documents it has touched, not an
// unbounded index that would need a real hash table.
type Resolver struct {
	mu     sync.RWMutex
	cache  []cacheEntry
	hasher maphash.Hasher[string]
}

type cacheEntry struct {
	key []byte
	val *big.Rat
}

// New returns a ready-to-use Resolver.
func New() *Resolver {
	return &Resolver{hasher: maphash.NewHasher[string]()}
}

func (r *Resolver) parse(b []byte) (*big.Rat, error) {
	if v, ok := r.lookup(b); ok {
		return v, nil
	}
	rat, ok := new(big.Rat).SetString(string(b))
	if !ok {
		return nil, fmt.Errorf("numeric: %q is not a decimal literal", b)
	}
	r.store(b, rat)
	return rat, nil
}

func (r *Resolver) lookup(b []byte) (*big.Rat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.cache {
		if string(e.key) == string(b) {
			return e.val, true
		}
	}
	return nil, false
}

func (r *Resolver) store(b []byte, v *big.Rat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := make([]byte, len(b))
	copy(key, b)
	r.cache = append(r.cache, cacheEntry{key: key, val: v})
}

// Cmp implements semidoc.NumericResolver.
func (r *Resolver) Cmp(a, b []byte) (int, error) {
	av, err := r.parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := r.parse(b)
	if err != nil {
		return 0, err
	}
	return av.Cmp(bv), nil
}

// Eq implements semidoc.NumericResolver.
func (r *Resolver) Eq(a, b []byte) (bool, error) {
	c, err := r.Cmp(a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// Hash implements semidoc.NumericResolver. Two payloads that Eq reports
// equal always hash the same, since both are routed through the
// canonical big.Rat string form rather than the raw input bytes (which
// may differ, e.g. "1.50" vs "3/2").
func (r *Resolver) Hash(a []byte) (uint64, error) {
	v, err := r.parse(a)
	if err != nil {
		return 0, err
	}
	return r.hasher.Hash(v.RatString()), nil
}
