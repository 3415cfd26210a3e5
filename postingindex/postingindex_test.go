package postingindex

import (
	"testing"

	set3 "github.com/TomTonic/Set3"
)

func TestAddTokenCountAndContains(t *testing.T) {
	idx := New[int]()
	if idx.TokenCount() != 0 {
		t.Fatalf("new index should be empty")
	}

	idx.Add(FromString("k1"), 1)
	if idx.TokenCount() != 1 {
		t.Fatalf("expected 1 token, got %d", idx.TokenCount())
	}
	if !idx.Contains(FromString("k1")) {
		t.Fatalf("expected Contains(k1) true")
	}

	idx.Add(FromString("k1"), 2)
	if idx.TokenCount() != 1 {
		t.Fatalf("expected token count still 1 after a second posting for k1, got %d", idx.TokenCount())
	}

	idx.Add(FromString("k2"), 3)
	if idx.TokenCount() != 2 {
		t.Fatalf("expected 2 tokens after adding k2, got %d", idx.TokenCount())
	}
}

func TestTokensAndRemoveToken(t *testing.T) {
	idx := New[string]()
	idx.Add(FromString("a"), "v1")
	idx.Add(FromString("b"), "v2")

	toks := idx.Tokens()
	if len(toks) != int(idx.TokenCount()) {
		t.Fatalf("Tokens length %d does not match TokenCount %d", len(toks), idx.TokenCount())
	}

	idx.RemoveToken(FromString("a"))
	if idx.Contains(FromString("a")) {
		t.Fatalf("expected a to be removed")
	}
	if idx.TokenCount() != 1 {
		t.Fatalf("expected 1 token after removing a, got %d", idx.TokenCount())
	}
}

func TestClear(t *testing.T) {
	idx := New[int]()
	idx.Add(FromString("x"), 1)
	idx.Add(FromString("y"), 2)
	if idx.TokenCount() == 0 {
		t.Fatalf("expected non-empty before Clear")
	}
	idx.Clear()
	if idx.TokenCount() != 0 {
		t.Fatalf("expected 0 tokens after Clear, got %d", idx.TokenCount())
	}
	if len(idx.Tokens()) != 0 {
		t.Fatalf("expected no tokens after Clear")
	}
}

func TestRangeQueriesReturnExpectedSets(t *testing.T) {
	idx := New[int]()
	idx.Add(FromString("a"), 1)
	idx.Add(FromString("b"), 2)
	idx.Add(FromString("c"), 3)
	idx.Add(FromString("d"), 4)

	res := idx.PostingsBetweenInclusive(FromString("a"), FromString("c"))
	want := set3.From(1, 2, 3)
	if !res.Equals(want) {
		t.Fatalf("BetweenInclusive(a,c) returned unexpected set")
	}

	res = idx.PostingsBetweenExclusive(FromString("a"), FromString("c"))
	want = set3.From(2)
	if !res.Equals(want) {
		t.Fatalf("BetweenExclusive(a,c) returned unexpected set")
	}

	res = idx.PostingsFromInclusive(FromString("b"))
	want = set3.From(2, 3, 4)
	if !res.Equals(want) {
		t.Fatalf("FromInclusive(b) returned unexpected set")
	}

	res = idx.PostingsToInclusive(FromString("c"))
	want = set3.From(1, 2, 3)
	if !res.Equals(want) {
		t.Fatalf("ToInclusive(c) returned unexpected set")
	}

	res = idx.PostingsFromExclusive(FromString("b"))
	want = set3.From(3, 4)
	if !res.Equals(want) {
		t.Fatalf("FromExclusive(b) returned unexpected set")
	}

	res = idx.PostingsToExclusive(FromString("c"))
	want = set3.From(1, 2)
	if !res.Equals(want) {
		t.Fatalf("ToExclusive(c) returned unexpected set")
	}
}

func TestRemovePostingAndPostingsClone(t *testing.T) {
	idx := New[int]()
	k := FromString("key")
	idx.Add(k, 1)
	idx.Add(k, 2)

	idx.Remove(k, 1)
	res := idx.Postings(k)
	want := set3.From(2)
	if !res.Equals(want) {
		t.Fatalf("after Remove expected {2}, got unexpected set")
	}

	// the returned set is a clone; mutating it must not affect storage.
	res.Add(999)
	res2 := idx.Postings(k)
	if res2.Equals(set3.From(2, 999)) {
		t.Fatalf("modifying returned set should not affect stored set")
	}

	idx.Remove(k, 42)
	if !idx.Postings(k).Equals(want) {
		t.Fatalf("Remove of a non-existent posting mutated the set")
	}
}

func TestAllPostingsAggregates(t *testing.T) {
	idx := New[int]()
	idx.Add(FromString("a"), 1)
	idx.Add(FromString("b"), 2)
	idx.Add(FromString("a"), 3)

	all := idx.AllPostings()
	want := set3.From(1, 2, 3)
	if !all.Equals(want) {
		t.Fatalf("AllPostings expected {1,2,3}, got unexpected set")
	}
}

func TestAddClonesToken(t *testing.T) {
	idx := New[int]()
	tok := Token([]byte{0x61})
	idx.Add(tok, 7)
	tok[0] = 0x62
	toks := idx.Tokens()
	if len(toks) != 1 {
		t.Fatalf("expected one token")
	}
	if toks[0].Bytes()[0] != 0x61 {
		t.Fatalf("stored token was mutated when the caller's token changed")
	}
}

func TestConcurrentAdds(t *testing.T) {
	idx := New[int]()
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(i int) {
			for j := 0; j < 100; j++ {
				idx.Add(FromString("k"), i*100+j)
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	if idx.TokenCount() == 0 {
		t.Fatalf("expected non-empty index after concurrent adds")
	}
}

func TestRangeQueriesWithNegativeInts(t *testing.T) {
	idx := New[int]()
	idx.Add(FromInt64(-3), -3)
	idx.Add(FromInt64(-1), -1)
	idx.Add(FromInt64(0), 0)
	idx.Add(FromInt64(2), 2)

	res := idx.PostingsBetweenInclusive(FromInt64(-2), FromUint64(1))
	want := set3.From(-1, 0)
	if !res.Equals(want) {
		t.Fatalf("BetweenInclusive(-2,1) expected %v got %v", want, res)
	}

	res = idx.PostingsToInclusive(FromInt64(0))
	want = set3.From(-3, -1, 0)
	if !res.Equals(want) {
		t.Fatalf("ToInclusive(int64(0)) expected %v got %v", want, res)
	}

	res = idx.PostingsFromExclusive(FromInt64(0))
	want = set3.From(2)
	if !res.Equals(want) {
		t.Fatalf("FromExclusive(0) expected %v got %v", want, res)
	}
}
