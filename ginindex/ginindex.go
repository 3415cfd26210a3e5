// Package ginindex extracts inverted-index tokens from a semidoc
// Container, for building a GIN-style posting-list index and for
// evaluating the query strategies such an index supports: existential
// containment (Contains, "@>"), single-key existence (Exists, "?"),
// and the any/all variants of checking several keys at once (ExistsAny
// "?|", ExistsAll "?&"). It is grounded on jsonb_gin.c's two index
// opclasses: the default, token-per-fact scheme (Extract) and the
// coarser, smaller per-path-hash scheme (ExtractHashed).
package ginindex

import (
	"bytes"
	"hash/crc32"
	"sort"

	"github.com/binpack/semidoc"
)

// Strategy identifies one of the query operators this package supports.
type Strategy uint8

const (
	Contains Strategy = iota
	Exists
	ExistsAny
	ExistsAll
)

// Token flag bytes. Every extracted token begins with exactly one of
// these, so tokens of different kinds never collide even when their
// payloads happen to share bytes.
const (
	flagKey   byte = 'K' // a top-level object key
	flagElem  byte = 'E' // a top-level array scalar element
	flagValue byte = 'V' // a scalar value found anywhere in the tree
	flagNull  byte = 'N' // a null scalar found anywhere in the tree (no payload)
)

// LinearScanMaxLen and BinarySearchMinLen bound MatchTokens' choice
// between a linear scan and a sort-then-binary-search strategy when
// testing query tokens against one item's token list. Below
// LinearScanMaxLen items, scanning is cheaper than sorting first; at or
// above BinarySearchMinLen, sorting once and binary-searching always
// wins. Between the two lengths either is acceptable and MatchTokens
// scans linearly; exported so a caller tuning for a specific workload's
// typical item size can move the crossover without forking this
// package.
var (
	LinearScanMaxLen   = 3
	BinarySearchMinLen = 5
)

// Extract returns the token set jsonb_ops-style extraction produces for
// c (§4.8): a flagKey token per top-level object key, a flagElem token
// per top-level array scalar element, a flagNull token for every null
// scalar anywhere in the tree, and a flagValue token for every other
// scalar anywhere in the tree. Restricting flagKey/flagElem to the
// outermost level matches the "?"/"?|"/"?&" operators, which are
// themselves defined only over a document's top-level keys/elements;
// flagValue's blanket anywhere-in-the-tree scope makes Contains a
// conservative superset filter that always needs a recheck against the
// real value (see Consistent).
func Extract(c semidoc.Container) [][]byte {
	v := semidoc.Decode(c)
	var toks [][]byte
	extract(v, 0, &toks)
	return toks
}

func extract(v semidoc.Value, depth int, toks *[][]byte) {
	switch v.Kind {
	case semidoc.KindObject:
		for _, p := range v.Pairs {
			if depth == 0 {
				*toks = append(*toks, tokenKey(p.Key))
			}
			extract(p.Value, depth+1, toks)
		}
	case semidoc.KindArray:
		for _, e := range v.Elems {
			if depth == 0 && e.Kind != semidoc.KindArray && e.Kind != semidoc.KindObject {
				*toks = append(*toks, tokenScalar(flagElem, e))
			}
			extract(e, depth+1, toks)
		}
	default:
		*toks = append(*toks, tokenScalar(flagValue, v))
	}
}

func tokenKey(key []byte) []byte {
	t := make([]byte, 1+len(key))
	t[0] = flagKey
	copy(t[1:], key)
	return t
}

func tokenScalar(flag byte, v semidoc.Value) []byte {
	if v.Kind == semidoc.KindNull {
		return []byte{flagNull}
	}
	tag, payload := encodeScalar(v)
	t := make([]byte, 2+len(payload))
	t[0] = flag
	t[1] = tag
	copy(t[2:], payload)
	return t
}

func encodeScalar(v semidoc.Value) (byte, []byte) {
	switch v.Kind {
	case semidoc.KindBool:
		if v.Bool {
			return 'b', []byte(" t")
		}
		return 'b', []byte(" f")
	case semidoc.KindString:
		return 's', v.Str
	case semidoc.KindNumeric:
		return 'z', v.Numeric
	default:
		panic("ginindex: encodeScalar called on a non-scalar Value")
	}
}

// ExtractHashed implements jsonb_hash_ops-style extraction (§4.8): one
// CRC-32 token per scalar leaf, folding in the full root-to-leaf chain
// of object keys (array traversal contributes no path segment, so two
// leaves reachable only through different array indices but the same
// key chain hash identically — a deliberate, documented imprecision
// that trades index size for resolving power, same as the C
// implementation it mirrors). The resulting index is much smaller than
// Extract's, but supports only Contains, not the exists-family
// operators, since no per-key-alone token exists.
func ExtractHashed(c semidoc.Container) []uint32 {
	v := semidoc.Decode(c)
	var toks []uint32
	var path [][]byte
	hashWalk(v, &path, &toks)
	return toks
}

func hashWalk(v semidoc.Value, path *[][]byte, toks *[]uint32) {
	switch v.Kind {
	case semidoc.KindObject:
		for _, p := range v.Pairs {
			*path = append(*path, p.Key)
			hashWalk(p.Value, path, toks)
			*path = (*path)[:len(*path)-1]
		}
	case semidoc.KindArray:
		for _, e := range v.Elems {
			hashWalk(e, path, toks)
		}
	default:
		*toks = append(*toks, hashLeaf(*path, v))
	}
}

func hashLeaf(path [][]byte, v semidoc.Value) uint32 {
	h := crc32.NewIEEE()
	for _, k := range path {
		h.Write(k)
		h.Write([]byte{0})
	}
	tag, payload := encodeScalarForHash(v)
	h.Write([]byte{tag})
	h.Write(payload)
	return h.Sum32()
}

func encodeScalarForHash(v semidoc.Value) (byte, []byte) {
	switch v.Kind {
	case semidoc.KindNull:
		return 'n', []byte("NULL")
	case semidoc.KindBool:
		if v.Bool {
			return 'b', []byte(" t")
		}
		return 'b', []byte(" f")
	case semidoc.KindString:
		return 's', v.Str
	case semidoc.KindNumeric:
		return 'z', v.Numeric
	default:
		panic("ginindex: encodeScalarForHash called on a non-scalar Value")
	}
}

// ExtractContainsQuery returns the tokens a Contains ("@>") query
// against containee must all be present for a candidate item (it is
// simply containee's own Extract output: every fact the containee
// asserts must also be a fact of the container for containment to even
// be possible).
func ExtractContainsQuery(containee semidoc.Container) [][]byte {
	return Extract(containee)
}

// ExtractExistsQuery returns the single token an Exists ("?") query for
// key requires.
func ExtractExistsQuery(key []byte) [][]byte {
	return [][]byte{tokenKey(key)}
}

// ExtractExistsKeysQuery returns one token per key, for ExistsAny
// ("?|") or ExistsAll ("?&") queries — the two strategies share the
// same query tokens and differ only in how Consistent combines them.
func ExtractExistsKeysQuery(keys [][]byte) [][]byte {
	toks := make([][]byte, len(keys))
	for i, k := range keys {
		toks[i] = tokenKey(k)
	}
	return toks
}

// MatchTokens reports, for each query token, whether it occurs in
// itemTokens — the "have" array Consistent expects. See
// LinearScanMaxLen/BinarySearchMinLen for the strategy this chooses.
func MatchTokens(itemTokens, queryTokens [][]byte) []bool {
	have := make([]bool, len(queryTokens))
	switch {
	case len(itemTokens) >= BinarySearchMinLen:
		sorted := make([][]byte, len(itemTokens))
		copy(sorted, itemTokens)
		sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })
		for i, q := range queryTokens {
			lo, hi := 0, len(sorted)
			for lo < hi {
				mid := (lo + hi) / 2
				c := bytes.Compare(sorted[mid], q)
				if c == 0 {
					have[i] = true
					break
				}
				if c < 0 {
					lo = mid + 1
				} else {
					hi = mid
				}
			}
		}
	default:
		for i, q := range queryTokens {
			for _, t := range itemTokens {
				if bytes.Equal(t, q) {
					have[i] = true
					break
				}
			}
		}
	}
	return have
}

// Consistent combines a "have" array (as produced by MatchTokens, or by
// a real GIN posting-list lookup) into a match verdict and a recheck
// flag, mirroring gin_consistent_jsonb's per-strategy logic:
//
//   - Contains requires every query token present, but is never
//     precise (flagValue tokens ignore which key a value sits under),
//     so recheck is always true.
//   - Exists requires its single token present and is precise.
//   - ExistsAny requires at least one token present and is precise.
//   - ExistsAll requires every token present and is precise.
func Consistent(strategy Strategy, have []bool) (matched, recheck bool) {
	switch strategy {
	case Contains:
		for _, h := range have {
			if !h {
				return false, true
			}
		}
		return true, true
	case Exists:
		return have[0], false
	case ExistsAny:
		for _, h := range have {
			if h {
				return true, false
			}
		}
		return false, false
	case ExistsAll:
		for _, h := range have {
			if !h {
				return false, false
			}
		}
		return true, false
	default:
		panic("ginindex: Consistent called with an unrecognized Strategy")
	}
}
