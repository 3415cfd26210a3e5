// Package anyset implements the "any-array" secondary variant referred
// to throughout this module: generic operations over a plain,
// arbitrary-element sorted array (PostgreSQL's contrib/anyarray, as
// opposed to semidoc's own tree-shaped Containers), plus the glue that
// lets such an array feed a gistsig.Signature or a set of GIN tokens.
// Grounded on anyarray.c (aa_set/aa_icount/aa_sort/aa_uniq/aa_idx/
// aa_subarray/aa_union_elem) and anyarray_util.c (getSimilarity).
package anyset

import (
	"errors"
	"math"

	"github.com/dolthub/maphash"

	"github.com/binpack/semidoc"
	"github.com/binpack/semidoc/gistsig"
	"github.com/binpack/semidoc/sortedset"
)

// ErrUnknownMetric is returned by Similarity for a SimilarityMetric
// value this package does not recognize.
var ErrUnknownMetric = errors.New("anyset: unrecognized similarity metric")

// ErrNullElement is returned by NewChecked when isNull reports an item
// as null — an any-array element has no NULL representation the way a
// semidoc.Value scalar does, so a caller whose element type can be null
// (e.g. semidoc.Value itself) must reject it before it enters a Set.
var ErrNullElement = errors.New("anyset: null element is not permitted in an any-array")

// Set is a generic sorted, deduplicated array — aa_set's shape, minus
// PostgreSQL's dependency on a catalog-registered btree opclass: the
// caller supplies the ordering directly as a sortedset.Cmp.
type Set[T comparable] struct {
	items []T
	cmp   sortedset.Cmp[T]
}

// New builds a Set from items, sorting and deduplicating them
// immediately (aa_set followed by aa_uniq — the two are fused here
// because nothing in this package ever needs the unsorted form).
func New[T comparable](items []T, cmp sortedset.Cmp[T]) *Set[T] {
	s := &Set[T]{items: append([]T(nil), items...), cmp: cmp}
	s.SortAsc()
	s.Uniq()
	return s
}

// NewChecked is New with an explicit null check: isNull is run over
// items first, and ErrNullElement is returned (wrapping no items into a
// Set) if any reports true. Use this instead of New whenever T can
// represent a null value — a plain Go zero value of most T instantiations
// (0, "", false) is not null in the domain sense, so the check cannot be
// done generically without the caller's help.
func NewChecked[T comparable](items []T, cmp sortedset.Cmp[T], isNull func(T) bool) (*Set[T], error) {
	for _, v := range items {
		if isNull(v) {
			return nil, ErrNullElement
		}
	}
	return New(items, cmp), nil
}

// SortAsc sorts the set ascending under its comparator (aa_sort_asc).
func (s *Set[T]) SortAsc() { sortedset.Sort(s.items, s.cmp) }

// SortDesc sorts the set descending (aa_sort_desc).
func (s *Set[T]) SortDesc() {
	sortedset.Sort(s.items, func(a, b T) int { return -s.cmp(a, b) })
}

// Uniq removes adjacent duplicates in place (aa_uniq). The set must
// already be sorted ascending.
func (s *Set[T]) Uniq() { s.items = sortedset.Unique(s.items, s.cmp) }

// ICount returns the element count (aa_icount).
func (s *Set[T]) ICount() int { return len(s.items) }

// Idx returns the index of v, or -1 if absent (aa_idx).
func (s *Set[T]) Idx(v T) int { return sortedset.IndexOf(s.items, v, s.cmp) }

// Subarray extracts a 1-based, clamped subrange (aa_subarray); see
// sortedset.Subarray for the exact clamping rule.
func (s *Set[T]) Subarray(start, length int) []T {
	return sortedset.Subarray(s.items, start, length)
}

// UnionElem returns the sorted union of s and other (aa_union_elem).
func (s *Set[T]) UnionElem(other *Set[T]) *Set[T] {
	return &Set[T]{items: sortedset.UnionWith(s.items, other.items, s.cmp), cmp: s.cmp}
}

// Items returns the set's elements in sorted order. The returned slice
// aliases the Set's storage and must not be mutated.
func (s *Set[T]) Items() []T { return s.items }

// Similarity computes how alike two sets are under metric, mirroring
// anyarray_util.c's getSimilarity: cosine is intersection size over the
// geometric mean of the two sizes, Jaccard is intersection over union
// size, overlap is intersection over the smaller size. Unlike
// gistsig.Consistent's inner-page estimate, every metric here is exact
// (both sets are fully materialized, not lossy bitmaps), so Jaccard is
// supported at this level even though it is not at gistsig's.
func Similarity[T comparable](a, b *Set[T], metric semidoc.SimilarityMetric) (float64, error) {
	inter := sortedset.IntersectCount(a.items, b.items, a.cmp)
	na, nb := len(a.items), len(b.items)
	switch metric {
	case semidoc.SimilarityCosine:
		if na == 0 || nb == 0 {
			return 0, nil
		}
		return float64(inter) / math.Sqrt(float64(na)*float64(nb)), nil
	case semidoc.SimilarityJaccard:
		union := na + nb - inter
		if union == 0 {
			return 0, nil
		}
		return float64(inter) / float64(union), nil
	case semidoc.SimilarityOverlap:
		minN := na
		if nb < minN {
			minN = nb
		}
		if minN == 0 {
			return 0, nil
		}
		return float64(inter) / float64(minN), nil
	default:
		return 0, ErrUnknownMetric
	}
}

// Signature builds a gistsig.Signature over s's elements, hashing each
// with dolthub/maphash's generic comparable-keyed hasher — the GiST
// support companion that lets a Set participate in a bounding-box
// index the same way ginindex's token output does.
func Signature[T comparable](s *Set[T]) gistsig.Signature {
	h := maphash.NewHasher[T]()
	hashes := make([]uint32, len(s.items))
	for i, v := range s.items {
		hashes[i] = uint32(h.Hash(v))
	}
	return gistsig.Compress(hashes)
}

// Tokens encodes each element of s with encode, producing the GIN
// support companion: a token set suitable for a posting-list index,
// analogous to ginindex's token extraction but over an arbitrary
// element type rather than a semidoc.Container.
func Tokens[T comparable](s *Set[T], encode func(T) []byte) [][]byte {
	toks := make([][]byte, len(s.items))
	for i, v := range s.items {
		toks[i] = encode(v)
	}
	return toks
}
