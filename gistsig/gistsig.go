// Package gistsig implements a bounding-box signature suitable for a
// GiST index over sets of integer tokens (as produced by ginindex, or
// by anyset over an integer array): a small sorted array while the set
// is small, collapsing to a fixed-width bitmap once it grows past a
// threshold, with a third sentinel state meaning "matches anything"
// for use at degenerate tree nodes. Grounded on anyarray_gist.c's
// SignAnyArray tagged union and jsonb_gist.c's simpler array-only
// BITVEC signature; the tagged-union-over-a-single-struct idiom itself
// is grounded on _examples/TomTonic-multimap/art/node_types.go and
// common_node_functions.go.
package gistsig

import (
	"errors"
	"math"
	"math/bits"
	"sort"

	set3 "github.com/TomTonic/Set3"

	"github.com/binpack/semidoc/sortedset"
)

// SigWords and SigBits size the bitmap representation: 16 uint64 words,
// 1024 bits, comparable to anyarray_gist.c's SIGLENINT=31 (992 bits)
// and jsonb_gist.c's SIGLENINT=4 (128 bits) — picked wide enough that
// realistic token sets stay sparse, which keeps Similarity meaningful.
const (
	SigWords = 16
	SigBits  = SigWords * 64
)

// ArrayMaxLen is the largest token count Compress keeps in array form
// before collapsing to a bitmap. Exported so callers with unusually
// large or small expected set sizes can retune the crossover.
var ArrayMaxLen = 32

// ErrUnsupportedSimilarity is returned by Consistent's similarity
// strategy for a SimilarityMetric this inner-page estimate cannot
// evaluate from a lossy signature. Jaccard needs the exact union and
// intersection sizes of the original sets; a bitmap only ever gives an
// upper bound on intersection size (shared bits may come from different
// tokens that hashed to the same bit) and no bound on union size at
// all, so anyarray_gist.c's own consistent function only implements
// cosine and overlap at this level, erroring on anything else — this
// mirrors that restriction rather than silently returning a wrong
// estimate (§ Open Questions).
var ErrUnsupportedSimilarity = errors.New("gistsig: similarity metric not supported for inner-page estimate")

type kind uint8

const (
	kindArray kind = iota
	kindBitmap
	kindAllTrue
)

// Bitmap is a fixed-width bit vector, one bit per hashed token.
type Bitmap [SigWords]uint64

func (b *Bitmap) set(i uint32)      { b[i/64] |= 1 << (i % 64) }
func (b Bitmap) get(i uint32) bool  { return b[i/64]&(1<<(i%64)) != 0 }
func (b Bitmap) popcount() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}
func (b Bitmap) or(o Bitmap) Bitmap {
	var r Bitmap
	for i := range b {
		r[i] = b[i] | o[i]
	}
	return r
}
func (b Bitmap) and(o Bitmap) Bitmap {
	var r Bitmap
	for i := range b {
		r[i] = b[i] & o[i]
	}
	return r
}

// Signature is the tagged union: exactly one of arr/bits is meaningful,
// selected by kind. The zero Signature is the empty array signature.
type Signature struct {
	k    kind
	arr  []uint32
	bits Bitmap
}

// AllTrue returns the sentinel signature that is considered to contain
// every possible token — used for a GiST internal entry whose true
// contents are unknown or too heterogeneous to usefully bound.
func AllTrue() Signature { return Signature{k: kindAllTrue} }

// Compress builds a Signature from a set of raw token hashes (typically
// crc32 or fnv output, or small integers directly from anyset), hashing
// any collisions away first via set3's generic Set — grounded on
// array_based.go's Set3-of-values idiom, repurposed here for a one-shot
// build-then-discard dedupe rather than a persistent multimap value.
func Compress(hashes []uint32) Signature {
	seen := set3.EmptyWithCapacity[uint32](uint32(len(hashes)))
	uniq := make([]uint32, 0, len(hashes))
	for _, h := range hashes {
		if seen.Contains(h) {
			continue
		}
		seen.Add(h)
		uniq = append(uniq, h)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
	if len(uniq) <= ArrayMaxLen {
		return Signature{k: kindArray, arr: uniq}
	}
	return Signature{k: kindBitmap, bits: bitmapOf(uniq)}
}

func bitmapOf(hashes []uint32) Bitmap {
	var bm Bitmap
	for _, h := range hashes {
		bm.set(h % SigBits)
	}
	return bm
}

func (s Signature) toBitmap() Bitmap {
	switch s.k {
	case kindBitmap:
		return s.bits
	case kindArray:
		return bitmapOf(s.arr)
	case kindAllTrue:
		var bm Bitmap
		for i := range bm {
			bm[i] = ^uint64(0)
		}
		return bm
	default:
		panic("gistsig: toBitmap called on an unrecognized Signature kind")
	}
}

// Union combines two signatures the way a GiST internal page combines
// its children's keys: the result must be "at least as large" as
// either input under Consistent's containment test (§4.9).
func Union(a, b Signature) Signature {
	if a.k == kindAllTrue || b.k == kindAllTrue {
		return AllTrue()
	}
	if a.k == kindArray && b.k == kindArray {
		merged := sortedset.UnionWith(a.arr, b.arr, func(x, y uint32) int {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		})
		if len(merged) <= ArrayMaxLen {
			return Signature{k: kindArray, arr: merged}
		}
		return Signature{k: kindBitmap, bits: bitmapOf(merged)}
	}
	return Signature{k: kindBitmap, bits: a.toBitmap().or(b.toBitmap())}
}

// Penalty estimates the cost, in newly-set bits, of expanding orig's
// bounding signature to also cover added — the Hamming distance between
// orig's bitmap and their union's, mirroring jsonb_gist.c's
// gjsonb_penalty. AllTrue never needs expanding (penalty 0); expanding
// into AllTrue costs the most (every bit).
func Penalty(orig, added Signature) float64 {
	if orig.k == kindAllTrue {
		return 0
	}
	if added.k == kindAllTrue {
		return SigBits
	}
	before := orig.toBitmap().popcount()
	after := Union(orig, added).toBitmap().popcount()
	return float64(after - before)
}

// Same reports structural equality, used by a GiST implementation to
// detect when re-inserting a key would be a no-op.
func Same(a, b Signature) bool {
	if a.k != b.k {
		return false
	}
	switch a.k {
	case kindAllTrue:
		return true
	case kindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if a.arr[i] != b.arr[i] {
				return false
			}
		}
		return true
	case kindBitmap:
		return a.bits == b.bits
	default:
		panic("gistsig: Same called on an unrecognized Signature kind")
	}
}

// hemdist is the Hamming distance between two signatures' bitmaps,
// mirroring anyarray_gist.c's hemdist/hemdistcache: AllTrue is treated
// as a bitmap of all ones without materializing one, so its distance to
// a concrete signature is just that signature's bit deficit from full.
func hemdist(a, b Signature) int {
	if a.k == kindAllTrue {
		if b.k == kindAllTrue {
			return 0
		}
		return SigBits - b.toBitmap().popcount()
	}
	if b.k == kindAllTrue {
		return SigBits - a.toBitmap().popcount()
	}
	ab, bb := a.toBitmap(), b.toBitmap()
	dist := 0
	for i := range ab {
		dist += bits.OnesCount64(ab[i] ^ bb[i])
	}
	return dist
}

// wishF is PostgreSQL gistsplit.c's WISH_F tie-break: a cubic penalty on
// the imbalance between the two group sizes, weighted by c, so that as
// one side grows larger the cubic term makes it progressively more
// expensive to keep favoring it over a closer call on the other side.
func wishF(a, b int, c float64) float64 {
	d := float64(a - b)
	return -(d * d * d) * c
}

// PickSplit partitions entries (by index) into a left and right group
// for a GiST page split, following anyarray_gist.c's ganyarray_picksplit
// directly: seeds are the pair with maximum Hamming distance (an O(n^2)
// scan over hemdist), every other entry is ranked by
// |hemdist(seed_l, entry) - hemdist(seed_r, entry)| and walked in
// ascending order of that rank — so entries the seeds disagree on least
// are assigned first, while the running per-side union is still small —
// and each entry goes to whichever side's union it is Hamming-closer
// to, with WISH_F(nleft, nright, 0.1) added to the right-hand distance
// as a tie-break that discourages widening an already-larger group.
func PickSplit(entries []Signature) (left, right []int) {
	n := len(entries)
	if n < 2 {
		panic("gistsig: PickSplit requires at least two entries")
	}

	seedL, seedR := 0, 1
	if n > 2 {
		bestDist := -1
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d := hemdist(entries[i], entries[j])
				if d > bestDist {
					bestDist = d
					seedL, seedR = i, j
				}
			}
		}
	}

	leftSig, rightSig := entries[seedL], entries[seedR]
	left = []int{seedL}
	right = []int{seedR}

	type ranked struct {
		idx  int
		cost int
	}
	rest := make([]ranked, 0, n-2)
	for i := 0; i < n; i++ {
		if i == seedL || i == seedR {
			continue
		}
		d := hemdist(entries[seedL], entries[i]) - hemdist(entries[seedR], entries[i])
		if d < 0 {
			d = -d
		}
		rest = append(rest, ranked{idx: i, cost: d})
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].cost < rest[j].cost })

	for _, r := range rest {
		i := r.idx
		sizeAlpha := hemdist(leftSig, entries[i])
		sizeBeta := hemdist(rightSig, entries[i])
		if float64(sizeAlpha) < float64(sizeBeta)+wishF(len(left), len(right), 0.1) {
			left = append(left, i)
			leftSig = Union(leftSig, entries[i])
		} else {
			right = append(right, i)
			rightSig = Union(rightSig, entries[i])
		}
	}
	return left, right
}

// Strategy identifies a GiST query test Consistent can evaluate.
type Strategy uint8

const (
	Contains Strategy = iota
	ContainedBy
	Overlaps
	SimilarTo
)

// SimilarityMetric mirrors semidoc.SimilarityMetric without importing
// the root package (gistsig is usable standalone against any
// token-hash source, not only semidoc containers).
type SimilarityMetric uint8

const (
	MetricCosine SimilarityMetric = iota
	MetricJaccard
	MetricOverlap
)

// Consistent evaluates whether key could satisfy strategy against
// query at a GiST inner page: a true result means "descend into this
// subtree", always erring toward true on information loss, since a
// bitmap signature only ever over-approximates (§4.9). SimilarTo
// additionally needs metric and threshold; ErrUnsupportedSimilarity is
// returned for MetricJaccard, which cannot be soundly estimated from a
// lossy signature (see its doc comment).
func Consistent(key, query Signature, strategy Strategy, metric SimilarityMetric, threshold float64) (bool, error) {
	switch strategy {
	case Contains:
		return bitmapSubset(query.toBitmap(), key.toBitmap()) || key.k == kindAllTrue, nil
	case ContainedBy:
		return bitmapSubset(key.toBitmap(), query.toBitmap()) || query.k == kindAllTrue, nil
	case Overlaps:
		if key.k == kindAllTrue || query.k == kindAllTrue {
			return true, nil
		}
		return key.toBitmap().and(query.toBitmap()).popcount() > 0, nil
	case SimilarTo:
		return similarEnough(key, query, metric, threshold)
	default:
		panic("gistsig: Consistent called with an unrecognized Strategy")
	}
}

func bitmapSubset(sub, super Bitmap) bool {
	for i := range sub {
		if sub[i]&^super[i] != 0 {
			return false
		}
	}
	return true
}

func similarEnough(a, b Signature, metric SimilarityMetric, threshold float64) (bool, error) {
	if a.k == kindAllTrue || b.k == kindAllTrue {
		return true, nil
	}
	ab, bb := a.toBitmap(), b.toBitmap()
	inter := float64(ab.and(bb).popcount())
	na, nb := float64(ab.popcount()), float64(bb.popcount())
	switch metric {
	case MetricCosine:
		if na == 0 || nb == 0 {
			return false, nil
		}
		return inter/math.Sqrt(na*nb) >= threshold, nil
	case MetricOverlap:
		minN := na
		if nb < minN {
			minN = nb
		}
		if minN == 0 {
			return false, nil
		}
		return inter/minN >= threshold, nil
	case MetricJaccard:
		return false, ErrUnsupportedSimilarity
	default:
		panic("gistsig: similarEnough called with an unrecognized SimilarityMetric")
	}
}
