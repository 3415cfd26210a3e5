// Package postingindex implements the posting-list storage a GIN-style
// inverted index needs: a map from a search Token to the set of item
// identifiers asserting it. ginindex extracts the tokens a Container
// asserts; postingindex is where a catalog of many containers
// accumulates those tokens into queryable postings.
//
// Concurrency: all exported methods are safe for concurrent use by
// multiple goroutines.
package postingindex

import (
	set3 "github.com/TomTonic/Set3"
)

// Index maps Tokens to the set of item identifiers that assert them.
// Implementations must clone Tokens on insertion and return cloned
// postings sets so callers cannot mutate internal state.
type Index[T comparable] interface {
	// Add records that item v asserts token.
	Add(token Token, v T)
	// Remove drops the assertion that item v makes token, if present.
	Remove(token Token, v T)
	// Contains reports whether any item currently asserts token.
	Contains(token Token) bool
	// RemoveToken drops token and every item asserting it.
	RemoveToken(token Token)
	// Postings returns the set of items asserting token.
	Postings(token Token) *set3.Set3[T]
	// AllPostings returns the union of every item across every token.
	AllPostings() *set3.Set3[T]
	// PostingsBetweenInclusive returns the union of postings for every
	// token in [from, to].
	PostingsBetweenInclusive(from, to Token) *set3.Set3[T]
	// PostingsBetweenExclusive returns the union of postings for every
	// token in (from, to).
	PostingsBetweenExclusive(from, to Token) *set3.Set3[T]
	// PostingsFromInclusive returns the union of postings for every
	// token >= from.
	PostingsFromInclusive(from Token) *set3.Set3[T]
	// PostingsToInclusive returns the union of postings for every token
	// <= to.
	PostingsToInclusive(to Token) *set3.Set3[T]
	// PostingsFromExclusive returns the union of postings for every
	// token > from.
	PostingsFromExclusive(from Token) *set3.Set3[T]
	// PostingsToExclusive returns the union of postings for every token
	// < to.
	PostingsToExclusive(to Token) *set3.Set3[T]
	// TokenCount returns the number of distinct tokens currently stored.
	TokenCount() uint64
	// Tokens returns every distinct token currently stored.
	Tokens() []Token
	// Clear removes every token and posting.
	Clear()
}

// New returns a new Index using the default array-based implementation.
func New[T comparable]() Index[T] { return NewArrayBased[T]() }

// NewArrayBased explicitly constructs an Index backed by the
// array-based implementation.
func NewArrayBased[T comparable]() Index[T] { return newArrayBased[T]() }
