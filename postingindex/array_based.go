package postingindex

import (
	"sync"

	set3 "github.com/TomTonic/Set3"
)

// arrayBasedIndex is the default Index implementation: a slice of
// token/postings pairs, scanned linearly. It favors the common
// GIN-catalog case of a modest number of distinct tokens, each with a
// potentially large postings set, over a balanced-tree lookup.
type arrayBasedIndex[T comparable] struct {
	mu   sync.RWMutex
	data []tokenPostings[T]
}

type tokenPostings[T comparable] struct {
	token    Token
	postings *set3.Set3[T]
}

func newArrayBased[T comparable]() *arrayBasedIndex[T] {
	return &arrayBasedIndex[T]{
		data: make([]tokenPostings[T], 0, 20),
	}
}

func (idx *arrayBasedIndex[T]) Add(token Token, v T) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i := range idx.data {
		if idx.data[i].token.Equal(token) {
			if idx.data[i].postings == nil {
				idx.data[i].postings = set3.Empty[T]()
			}
			idx.data[i].postings.Add(v)
			return
		}
	}
	entry := tokenPostings[T]{
		token:    token.Clone(),
		postings: set3.Empty[T](),
	}
	entry.postings.Add(v)
	idx.data = append(idx.data, entry)
}

func (idx *arrayBasedIndex[T]) Remove(token Token, v T) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i := range idx.data {
		if idx.data[i].token.Equal(token) {
			if idx.data[i].postings != nil {
				idx.data[i].postings.Remove(v)
			}
			return
		}
	}
}

func (idx *arrayBasedIndex[T]) Contains(token Token) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for i := range idx.data {
		if idx.data[i].token.Equal(token) {
			return true
		}
	}
	return false
}

func (idx *arrayBasedIndex[T]) RemoveToken(token Token) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i := range idx.data {
		if idx.data[i].token.Equal(token) {
			idx.data[i] = idx.data[len(idx.data)-1]
			idx.data = idx.data[:len(idx.data)-1]
			return
		}
	}
}

func (idx *arrayBasedIndex[T]) Postings(token Token) *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for i := range idx.data {
		if idx.data[i].token.Equal(token) {
			if idx.data[i].postings != nil {
				return idx.data[i].postings.Clone()
			}
			return set3.EmptyWithCapacity[T](0)
		}
	}
	return set3.EmptyWithCapacity[T](0)
}

func (idx *arrayBasedIndex[T]) AllPostings() *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := set3.Empty[T]()
	for i := range idx.data {
		if idx.data[i].postings != nil {
			result.AddAll(idx.data[i].postings)
		}
	}
	return result
}

func (idx *arrayBasedIndex[T]) PostingsBetweenInclusive(from, to Token) *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := set3.Empty[T]()
	for _, e := range idx.data {
		if (e.token.LessThan(to) || e.token.Equal(to)) && (from.LessThan(e.token) || from.Equal(e.token)) {
			if e.postings != nil {
				result.AddAll(e.postings)
			}
		}
	}
	return result
}

func (idx *arrayBasedIndex[T]) PostingsBetweenExclusive(from, to Token) *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := set3.Empty[T]()
	for _, e := range idx.data {
		if e.token.LessThan(to) && from.LessThan(e.token) {
			if e.postings != nil {
				result.AddAll(e.postings)
			}
		}
	}
	return result
}

func (idx *arrayBasedIndex[T]) PostingsFromInclusive(from Token) *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := set3.Empty[T]()
	for _, e := range idx.data {
		if from.LessThan(e.token) || from.Equal(e.token) {
			if e.postings != nil {
				result.AddAll(e.postings)
			}
		}
	}
	return result
}

func (idx *arrayBasedIndex[T]) PostingsToInclusive(to Token) *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := set3.Empty[T]()
	for _, e := range idx.data {
		if e.token.LessThan(to) || e.token.Equal(to) {
			if e.postings != nil {
				result.AddAll(e.postings)
			}
		}
	}
	return result
}

func (idx *arrayBasedIndex[T]) PostingsFromExclusive(from Token) *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := set3.Empty[T]()
	for _, e := range idx.data {
		if from.LessThan(e.token) {
			if e.postings != nil {
				result.AddAll(e.postings)
			}
		}
	}
	return result
}

func (idx *arrayBasedIndex[T]) PostingsToExclusive(to Token) *set3.Set3[T] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := set3.Empty[T]()
	for _, e := range idx.data {
		if e.token.LessThan(to) {
			if e.postings != nil {
				result.AddAll(e.postings)
			}
		}
	}
	return result
}

func (idx *arrayBasedIndex[T]) TokenCount() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return uint64(len(idx.data))
}

func (idx *arrayBasedIndex[T]) Tokens() []Token {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	result := make([]Token, 0, len(idx.data))
	for i := range idx.data {
		result = append(result, idx.data[i].token.Clone())
	}
	return result
}

func (idx *arrayBasedIndex[T]) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.data = make([]tokenPostings[T], 0, 20)
}
