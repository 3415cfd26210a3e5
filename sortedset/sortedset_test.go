package sortedset

import (
	"reflect"
	"testing"
)

func intCmp(a, b int) int { return a - b }

func TestSortUnique(t *testing.T) {
	s := []int{5, 3, 3, 1, 4, 1, 5}
	Sort(s, intCmp)
	if !reflect.DeepEqual(s, []int{1, 1, 3, 3, 4, 5, 5}) {
		t.Fatalf("Sort: got %v", s)
	}
	u := Unique(s, intCmp)
	if !reflect.DeepEqual(u, []int{1, 3, 4, 5}) {
		t.Fatalf("Unique: got %v", u)
	}
}

func TestUniqueCounted(t *testing.T) {
	s := []int{1, 1, 1, 2, 3, 3}
	vals, counts := UniqueCounted(s, intCmp)
	if !reflect.DeepEqual(vals, []int{1, 2, 3}) {
		t.Fatalf("vals: got %v", vals)
	}
	if !reflect.DeepEqual(counts, []int{3, 1, 2}) {
		t.Fatalf("counts: got %v", counts)
	}
}

func TestBinarySearch(t *testing.T) {
	s := []int{1, 3, 5, 7, 9}
	for _, tc := range []struct {
		target int
		idx    int
		found  bool
	}{
		{5, 2, true},
		{1, 0, true},
		{9, 4, true},
		{0, 0, false},
		{4, 2, false},
		{10, 5, false},
	} {
		idx, found := BinarySearch(s, tc.target, intCmp)
		if idx != tc.idx || found != tc.found {
			t.Errorf("BinarySearch(%d) = (%d, %v), want (%d, %v)", tc.target, idx, found, tc.idx, tc.found)
		}
	}
}

func TestIntersectAndCount(t *testing.T) {
	a := []int{1, 2, 3, 5, 8}
	b := []int{2, 3, 4, 8, 9}
	got := Intersect(a, b, intCmp)
	if !reflect.DeepEqual(got, []int{2, 3, 8}) {
		t.Fatalf("Intersect: got %v", got)
	}
	if n := IntersectCount(a, b, intCmp); n != 3 {
		t.Fatalf("IntersectCount: got %d, want 3", n)
	}
}

func TestUnionWith(t *testing.T) {
	a := []int{1, 3, 5}
	b := []int{2, 3, 4}
	got := UnionWith(a, b, intCmp)
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("UnionWith: got %v", got)
	}
}

func TestSubarray(t *testing.T) {
	s := []int{10, 20, 30, 40, 50}
	for _, tc := range []struct {
		start, length int
		want          []int
	}{
		{1, 3, []int{10, 20, 30}},
		{2, 10, []int{20, 30, 40, 50}},
		{-1, 5, []int{10, 20, 30}}, // start<1: length shrinks by 2
		{0, 2, []int{10}},
		{10, 2, []int{}},
		{1, 0, []int{}},
		{-5, 3, []int{}},
	} {
		got := Subarray(s, tc.start, tc.length)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Subarray(%d, %d) = %v, want %v", tc.start, tc.length, got, tc.want)
		}
	}
}
