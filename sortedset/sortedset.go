// Package sortedset is a small generic kernel of operations on sorted,
// deduplicated slices: sort, unique (with or without occurrence
// counts), binary search, intersection, a PostgreSQL-array-style
// clamped subarray slice, and sorted-union merge.
//
// It underlies the anyset package's secondary sorted-array variant and
// gistsig's array-form Union: the same handful of
// merge/binary-search primitives anyarray_util.c provides once in C
// (sortSimpleArray, uniqSimpleArray, numOfIntersect) and every anyarray
// entry point reuses.
package sortedset

import "sort"

// Cmp orders two elements the same way as the standard library's
// slices.Compare family: negative if a < b, zero if equal, positive if
// a > b.
type Cmp[T any] func(a, b T) int

// Sort sorts s in place according to cmp. It is not guaranteed stable;
// callers that need stability should use sort.SliceStable directly.
func Sort[T any](s []T, cmp Cmp[T]) {
	sort.Slice(s, func(i, j int) bool { return cmp(s[i], s[j]) < 0 })
}

// Unique compacts a sorted slice in place, keeping the first element of
// each run of equal elements, and returns the shortened slice. s must
// already be sorted under cmp (Sort it first if not). This is the plain
// mode of anyarray_util.c's uniqSimpleArray.
func Unique[T any](s []T, cmp Cmp[T]) []T {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if cmp(out[len(out)-1], v) != 0 {
			out = append(out, v)
		}
	}
	return out
}

// UniqueCounted is uniqSimpleArray's counting mode: it compacts s the
// same way Unique does, but also returns, for each surviving element, a
// count of how many consecutive duplicates it absorbed.
func UniqueCounted[T any](s []T, cmp Cmp[T]) ([]T, []int) {
	if len(s) == 0 {
		return s, nil
	}
	vals := s[:1]
	counts := make([]int, 1, 8)
	counts[0] = 1
	for _, v := range s[1:] {
		if cmp(vals[len(vals)-1], v) == 0 {
			counts[len(counts)-1]++
			continue
		}
		vals = append(vals, v)
		counts = append(counts, 1)
	}
	return vals, counts
}

// BinarySearch looks up target in a sorted slice s, returning its index
// and true if found, or the insertion point and false otherwise.
func BinarySearch[T any](s []T, target T, cmp Cmp[T]) (int, bool) {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := (lo + hi) / 2
		c := cmp(s[mid], target)
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// IndexOf returns the index of target in s, or -1 if absent.
func IndexOf[T any](s []T, target T, cmp Cmp[T]) int {
	if i, ok := BinarySearch(s, target, cmp); ok {
		return i
	}
	return -1
}

// IntersectCount returns the number of elements common to a and b,
// both assumed sorted and deduplicated, by a single merge pass —
// numOfIntersect's shape, used where only the count (not the elements)
// is needed, e.g. a quick Jaccard/overlap estimate.
func IntersectCount[T any](a, b []T, cmp Cmp[T]) int {
	i, j, n := 0, 0, 0
	for i < len(a) && j < len(b) {
		c := cmp(a[i], b[j])
		switch {
		case c == 0:
			n++
			i++
			j++
		case c < 0:
			i++
		default:
			j++
		}
	}
	return n
}

// Intersect returns the sorted elements common to a and b, both assumed
// sorted and deduplicated.
func Intersect[T any](a, b []T, cmp Cmp[T]) []T {
	out := make([]T, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		c := cmp(a[i], b[j])
		switch {
		case c == 0:
			out = append(out, a[i])
			i++
			j++
		case c < 0:
			i++
		default:
			j++
		}
	}
	return out
}

// UnionWith merges two sorted, deduplicated slices into their sorted,
// deduplicated union (aa_union_elem's region, generalized past ints).
func UnionWith[T any](a, b []T, cmp Cmp[T]) []T {
	out := make([]T, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		c := cmp(a[i], b[j])
		switch {
		case c == 0:
			out = append(out, a[i])
			i++
			j++
		case c < 0:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Subarray extracts a 1-based, PostgreSQL-array-slice-style subrange of
// s, mirroring aa_subarray's clamping: start is 1-based and may be
// below 1 or above len(s); length is the requested element count and
// may request more elements than remain. Both are clamped rather than
// erroring, and a request that, after clamping, describes zero or a
// negative number of elements returns an empty slice:
//
//   - if start < 1, the requested length is reduced by (1-start) — the
//     portion of the range that would have fallen before the array —
//     and start is clamped to 1;
//   - if the (possibly reduced) length is <= 0, or start > len(s), the
//     result is empty;
//   - the end of the range is min(start+length-1, len(s)).
func Subarray[T any](s []T, start, length int) []T {
	if start < 1 {
		length += start - 1
		start = 1
	}
	if length <= 0 || start > len(s) {
		return s[:0]
	}
	end := start + length - 1
	if end > len(s) {
		end = len(s)
	}
	return s[start-1 : end]
}
