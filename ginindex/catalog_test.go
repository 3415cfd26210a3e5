package ginindex_test

import (
	"testing"

	"github.com/binpack/semidoc"
	"github.com/binpack/semidoc/ginindex"
)

func buildTaggedDoc(t *testing.T, name string, tags ...string) semidoc.Container {
	t.Helper()
	b := semidoc.NewBuilder()
	must(t, b.BeginObject())
	must(t, b.Key([]byte("name")))
	must(t, b.Value(semidoc.String([]byte(name))))
	must(t, b.Key([]byte("tags")))
	must(t, b.BeginArray())
	for _, tag := range tags {
		must(t, b.Elem(semidoc.String([]byte(tag))))
	}
	_, err := b.EndArray()
	must(t, err)
	root, err := b.EndObject()
	must(t, err)
	c, err := semidoc.Compact(root)
	must(t, err)
	return c
}

func TestCatalogExistsFindsAssertingItems(t *testing.T) {
	cat := ginindex.NewCatalog[int]()
	cat.Add(1, buildTaggedDoc(t, "ada", "go", "rust"))
	cat.Add(2, buildTaggedDoc(t, "grace", "cobol"))
	cat.Add(3, buildTaggedDoc(t, "linus", "c", "go"))

	query := ginindex.ExtractExistsQuery([]byte("tags"))
	matched, recheck := cat.Query(ginindex.Exists, query)
	if recheck {
		t.Fatal("Exists should never require a recheck")
	}
	if matched.Size() != 3 {
		t.Fatalf("expected all 3 items to have a tags key, got %d", matched.Size())
	}
}

func TestCatalogContainsIntersectsAndRechecks(t *testing.T) {
	cat := ginindex.NewCatalog[string]()
	cat.Add("ada", buildTaggedDoc(t, "ada", "go", "rust"))
	cat.Add("grace", buildTaggedDoc(t, "grace", "cobol"))
	cat.Add("linus", buildTaggedDoc(t, "linus", "c", "go"))

	cb := semidoc.NewBuilder()
	must(t, cb.BeginObject())
	must(t, cb.Key([]byte("tags")))
	must(t, cb.BeginArray())
	must(t, cb.Elem(semidoc.String([]byte("go"))))
	_, err := cb.EndArray()
	must(t, err)
	containeeRoot, err := cb.EndObject()
	must(t, err)
	containee, err := semidoc.Compact(containeeRoot)
	must(t, err)
	query := ginindex.ExtractContainsQuery(containee)
	matched, recheck := cat.Query(ginindex.Contains, query)
	if !recheck {
		t.Fatal("Contains must always require a recheck")
	}
	if matched.Size() == 0 || matched.Contains("grace") {
		t.Fatalf("expected only items asserting a \"go\" tag, got size=%d", matched.Size())
	}
	if !matched.Contains("ada") || !matched.Contains("linus") {
		t.Fatal("expected ada and linus to both assert the go tag")
	}
}

func TestCatalogExistsAnyUnions(t *testing.T) {
	cat := ginindex.NewCatalog[int]()
	cat.Add(1, buildTaggedDoc(t, "ada", "go"))
	cat.Add(2, buildTaggedDoc(t, "grace", "cobol"))

	query := ginindex.ExtractExistsKeysQuery([][]byte{[]byte("tags"), []byte("missing")})
	matched, recheck := cat.Query(ginindex.ExistsAny, query)
	if recheck {
		t.Fatal("ExistsAny should never require a recheck")
	}
	if matched.Size() != 2 {
		t.Fatalf("expected both items to match ExistsAny on tags/missing, got %d", matched.Size())
	}
}

func TestCatalogRemoveDropsPostings(t *testing.T) {
	cat := ginindex.NewCatalog[int]()
	doc := buildTaggedDoc(t, "ada", "go")
	cat.Add(1, doc)
	cat.Remove(1, doc)

	matched, _ := cat.Query(ginindex.Exists, ginindex.ExtractExistsQuery([]byte("tags")))
	if matched.Size() != 0 {
		t.Fatalf("expected no postings after Remove, got %d", matched.Size())
	}
}
