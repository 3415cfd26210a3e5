package postingindex

import (
	"fmt"

	set3 "github.com/TomTonic/Set3"
)

func Example_basicUsage() {
	idx := New[int]()
	idx.Add(FromString("Alice"), 1)
	idx.Add(FromString("Bob"), 2)

	fmt.Println(idx.TokenCount())
	// Output:
	// 2
}

func Example_rangeQuery() {
	idx := New[int]()
	idx.Add(FromString("a"), 1)
	idx.Add(FromString("b"), 2)
	idx.Add(FromString("c"), 3)

	postings := idx.PostingsBetweenInclusive(FromString("a"), FromString("b"))
	fmt.Println(postings.Equals(set3.From(1, 2)))
	// Output:
	// true
}
