package ginindex

import (
	set3 "github.com/TomTonic/Set3"

	"github.com/binpack/semidoc"
	"github.com/binpack/semidoc/postingindex"
)

// Catalog accumulates the Extract tokens of many containers into a
// posting-list index keyed by item id, the storage layer a real GIN
// access method would call a posting list. Unlike MatchTokens, which
// tests one item's token list at a time, a Catalog answers a query by
// looking the query tokens up directly and intersecting/unioning their
// postings, without ever re-extracting or re-scanning an item's tokens.
type Catalog[T comparable] struct {
	idx postingindex.Index[T]
}

// NewCatalog returns an empty Catalog.
func NewCatalog[T comparable]() *Catalog[T] {
	return &Catalog[T]{idx: postingindex.New[T]()}
}

// Add extracts c's tokens (§4.8, via Extract) and records id against
// each of them.
func (cat *Catalog[T]) Add(id T, c semidoc.Container) {
	for _, tok := range Extract(c) {
		cat.idx.Add(postingindex.FromBytes(tok), id)
	}
}

// Remove drops id from every token c asserts.
func (cat *Catalog[T]) Remove(id T, c semidoc.Container) {
	for _, tok := range Extract(c) {
		cat.idx.Remove(postingindex.FromBytes(tok), id)
	}
}

// Query evaluates strategy over queryTokens against the catalog,
// mirroring Consistent's per-strategy combination logic but operating
// on posting sets instead of a single item's boolean "have" array:
//
//   - Contains: intersection of every query token's postings (every
//     item that asserts ALL of them), always requiring a recheck since
//     flagValue tokens ignore which key a value sits under.
//   - Exists: the single token's postings, precise.
//   - ExistsAny: the union of every query token's postings, precise.
//   - ExistsAll: the intersection of every query token's postings,
//     precise.
func (cat *Catalog[T]) Query(strategy Strategy, queryTokens [][]byte) (matched *set3.Set3[T], recheck bool) {
	if len(queryTokens) == 0 {
		return set3.Empty[T](), strategy == Contains
	}
	postings := make([]*set3.Set3[T], len(queryTokens))
	for i, tok := range queryTokens {
		postings[i] = cat.idx.Postings(postingindex.FromBytes(tok))
	}
	switch strategy {
	case Contains, ExistsAll:
		result := postings[0]
		for _, p := range postings[1:] {
			result = intersect(result, p)
		}
		return result, strategy == Contains
	case Exists:
		return postings[0], false
	case ExistsAny:
		result := set3.Empty[T]()
		for _, p := range postings {
			result.AddAll(p)
		}
		return result, false
	default:
		panic("ginindex: Query called with an unrecognized Strategy")
	}
}

func intersect[T comparable](a, b *set3.Set3[T]) *set3.Set3[T] {
	result := set3.EmptyWithCapacity[T](0)
	for _, v := range a.ToSlice() {
		if b.Contains(v) {
			result.Add(v)
		}
	}
	return result
}
