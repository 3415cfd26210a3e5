package gistsig

import "testing"

func TestCompressSmallStaysArray(t *testing.T) {
	sig := Compress([]uint32{5, 1, 3, 1, 5})
	if sig.k != kindArray {
		t.Fatalf("expected array representation, got kind %d", sig.k)
	}
	if len(sig.arr) != 3 {
		t.Fatalf("expected 3 unique values, got %d", len(sig.arr))
	}
}

func TestCompressLargeBecomesBitmap(t *testing.T) {
	hashes := make([]uint32, ArrayMaxLen+10)
	for i := range hashes {
		hashes[i] = uint32(i)
	}
	sig := Compress(hashes)
	if sig.k != kindBitmap {
		t.Fatalf("expected bitmap representation, got kind %d", sig.k)
	}
}

func TestUnionContainsInputs(t *testing.T) {
	a := Compress([]uint32{1, 2, 3})
	b := Compress([]uint32{3, 4, 5})
	u := Union(a, b)
	ok, err := Consistent(u, a, Contains, MetricCosine, 0)
	if err != nil || !ok {
		t.Fatalf("union should contain a: ok=%v err=%v", ok, err)
	}
	ok, err = Consistent(u, b, Contains, MetricCosine, 0)
	if err != nil || !ok {
		t.Fatalf("union should contain b: ok=%v err=%v", ok, err)
	}
}

func TestAllTrueAbsorbs(t *testing.T) {
	a := Compress([]uint32{1, 2, 3})
	u := Union(a, AllTrue())
	if !Same(u, AllTrue()) {
		t.Fatal("union with AllTrue should be AllTrue")
	}
	if Penalty(AllTrue(), a) != 0 {
		t.Fatal("expanding AllTrue should never cost anything")
	}
}

func TestOverlaps(t *testing.T) {
	a := Compress([]uint32{1, 2, 3})
	b := Compress([]uint32{3, 4, 5})
	c := Compress([]uint32{100, 200})
	ok, err := Consistent(a, b, Overlaps, MetricCosine, 0)
	if err != nil || !ok {
		t.Fatalf("expected overlap: ok=%v err=%v", ok, err)
	}
	ok, err = Consistent(a, c, Overlaps, MetricCosine, 0)
	if err != nil || ok {
		t.Fatalf("expected no overlap: ok=%v err=%v", ok, err)
	}
}

func TestJaccardUnsupported(t *testing.T) {
	a := Compress([]uint32{1, 2, 3})
	b := Compress([]uint32{2, 3, 4})
	_, err := Consistent(a, b, SimilarTo, MetricJaccard, 0.5)
	if err == nil {
		t.Fatal("expected ErrUnsupportedSimilarity")
	}
}

func TestPickSplitProducesTwoNonEmptyGroups(t *testing.T) {
	entries := []Signature{
		Compress([]uint32{1, 2}),
		Compress([]uint32{1, 2, 3}),
		Compress([]uint32{500, 501}),
		Compress([]uint32{500, 502, 503}),
	}
	left, right := PickSplit(entries)
	if len(left) == 0 || len(right) == 0 {
		t.Fatalf("expected both groups non-empty, got %d/%d", len(left), len(right))
	}
	if len(left)+len(right) != len(entries) {
		t.Fatalf("expected every entry assigned exactly once, got %d+%d for %d entries", len(left), len(right), len(entries))
	}
}

func bitmapSig(bits uint64) Signature {
	var bm Bitmap
	bm[0] = bits
	return Signature{k: kindBitmap, bits: bm}
}

// entries whose bitmaps are 0b0011, 0b1100, 0b0101, 0b1010: the two
// disjoint pairs (0,1) and (2,3) tie for maximal Hamming distance (4 of
// 4 bits differ), the first found (0,1) wins the seed slots, and the
// remaining two entries split one to each side to keep the groups
// balanced.
func TestPickSplitDeterministicSeedsAndBalance(t *testing.T) {
	entries := []Signature{
		bitmapSig(0b0011),
		bitmapSig(0b1100),
		bitmapSig(0b0101),
		bitmapSig(0b1010),
	}
	left, right := PickSplit(entries)
	if len(left) != 2 || len(right) != 2 {
		t.Fatalf("expected a balanced 2/2 split, got %d/%d", len(left), len(right))
	}
	if left[0] != 0 || right[0] != 1 {
		t.Fatalf("expected seeds (0,1), got left=%v right=%v", left, right)
	}
	seen := map[int]bool{}
	for _, i := range append(append([]int{}, left...), right...) {
		seen[i] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected every entry assigned exactly once, got %v / %v", left, right)
	}
}

// entries of differing popcounts (1, 1, 1, 3): the maximum-Hamming-
// distance pair is (2,3) — 0b1000 and 0b0111 disagree on all 4 bits —
// even though a union-popcount-based seed search would instead settle
// on the disjoint-and-small pair (0,1), since 0b0001 and 0b0010 union
// to exactly the sum of their sizes with no overlap. Differing
// popcounts are required to tell the two seed criteria apart; equal-
// popcount bitmaps (as above) let them agree by coincidence.
func TestPickSplitSeedsByHammingDistanceNotUnionWaste(t *testing.T) {
	entries := []Signature{
		bitmapSig(0b0001),
		bitmapSig(0b0010),
		bitmapSig(0b1000),
		bitmapSig(0b0111),
	}
	left, right := PickSplit(entries)
	if len(left)+len(right) != len(entries) {
		t.Fatalf("expected every entry assigned exactly once, got %d+%d for %d entries", len(left), len(right), len(entries))
	}
	if left[0] != 2 || right[0] != 3 {
		t.Fatalf("expected seeds (2,3) by Hamming distance, got left=%v right=%v", left, right)
	}
}
