package semidoc

import (
	"testing"

	"github.com/binpack/semidoc/numeric"
)

func TestFindElemLinearScan(t *testing.T) {
	arr, err := Compact(mustArray(t, String([]byte("x")), Numeric([]byte("7")), Bool(true)))
	mustText(t, err)

	idx, ok, err := FindElem(arr, Numeric([]byte("7")), numeric.New())
	mustText(t, err)
	if !ok || idx != 1 {
		t.Fatalf("expected element 7 at index 1, got idx=%d ok=%v", idx, ok)
	}

	_, ok, err = FindElem(arr, Numeric([]byte("99")), numeric.New())
	mustText(t, err)
	if ok {
		t.Fatal("expected no match for an absent element")
	}
}

func TestComparePanicsOnNonArrayForFindElem(t *testing.T) {
	obj := buildObject(t, map[string]Value{"a": Numeric([]byte("1"))}, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected FindElem to panic on a non-array container")
		}
	}()
	_, _, _ = FindElem(obj, Numeric([]byte("1")), numeric.New())
}

func TestCompareKindRanking(t *testing.T) {
	// Null < String < Numeric < Bool < Array < Object < Binary.
	cmp, err := Compare(Null(), String([]byte("a")), nil)
	mustText(t, err)
	if cmp >= 0 {
		t.Fatalf("expected Null < String, got %d", cmp)
	}
	cmp, err = Compare(Bool(false), mustArray(t), nil)
	mustText(t, err)
	if cmp >= 0 {
		t.Fatalf("expected Bool < Array, got %d", cmp)
	}
}

func TestCompareNumericWithoutResolverErrors(t *testing.T) {
	_, err := Compare(Numeric([]byte("1")), Numeric([]byte("1")), nil)
	if err == nil {
		t.Fatal("expected an error comparing numerics with a nil resolver")
	}
}

func TestCompareBinaryDecodesStructurally(t *testing.T) {
	inner := buildObject(t, map[string]Value{"x": Numeric([]byte("1"))}, nil)
	a := Value{Kind: KindBinary, Bin: []byte(inner)}
	b := Value{Kind: KindBinary, Bin: []byte(inner)}
	cmp, err := Compare(a, b, numeric.New())
	mustText(t, err)
	if cmp != 0 {
		t.Fatalf("expected two binaries of the same object to compare equal, got %d", cmp)
	}
}

func TestDeepContainsShapeMismatch(t *testing.T) {
	obj := buildObject(t, map[string]Value{"a": Numeric([]byte("1"))}, nil)
	arr, err := Compact(mustArray(t, Numeric([]byte("1"))))
	mustText(t, err)

	ok, err := DeepContains(obj, arr, numeric.New())
	mustText(t, err)
	if ok {
		t.Fatal("an object should never deep-contain an array")
	}
}

func TestDeepContainsArrayOfScalars(t *testing.T) {
	container, err := Compact(mustArray(t, Numeric([]byte("1")), Numeric([]byte("2")), Numeric([]byte("3"))))
	mustText(t, err)
	sub, err := Compact(mustArray(t, Numeric([]byte("3")), Numeric([]byte("1"))))
	mustText(t, err)

	ok, err := DeepContains(container, sub, numeric.New())
	mustText(t, err)
	if !ok {
		t.Fatal("expected array containment regardless of element order")
	}
}

func TestDeepContainsScalarWrapperBehavesAsArray(t *testing.T) {
	scalar, err := Compact(WrapScalar(Numeric([]byte("1"))))
	mustText(t, err)
	obj := buildObject(t, nil, nil)

	// A scalar wrapper decodes as a one-element KindArray, so checking
	// it against an object containee is an ordinary shape mismatch, not
	// an error.
	ok, err := DeepContains(scalar, obj, numeric.New())
	mustText(t, err)
	if ok {
		t.Fatal("a scalar-wrapper array should not deep-contain an object")
	}
}
