package semidoc

import "testing"

func TestCompactRejectsBareScalarRoot(t *testing.T) {
	_, err := Compact(Numeric([]byte("1")))
	if err == nil {
		t.Fatal("expected an error compacting a non-composite root")
	}
}

func TestCompactAlignsNumericAndNestedChildren(t *testing.T) {
	b := NewBuilder()
	mustText(t, b.BeginArray())
	mustText(t, b.Elem(String([]byte("x")))) // 1 byte, forces misalignment
	mustText(t, b.Elem(Numeric([]byte("123"))))
	mustText(t, b.BeginArray())
	mustText(t, b.Elem(Numeric([]byte("9"))))
	_, err := b.EndArray()
	mustText(t, err)
	root, err := b.EndArray()
	mustText(t, err)

	c, err := Compact(root)
	mustText(t, err)

	es := c.entries()
	payloadAt := c.payloadStart()
	for i := 1; i < len(es); i++ {
		if es[i].isNumeric() || es[i].isNest() {
			start := int(off(es, i))
			if (payloadAt+start)%4 != 0 {
				t.Fatalf("entry %d (numeric/nested) not 4-byte aligned: abs offset %d", i, payloadAt+start)
			}
		}
	}
}

func TestCompactObjectEntryLayoutKeysThenValues(t *testing.T) {
	c := buildObject(t, map[string]Value{
		"a": Numeric([]byte("1")),
		"b": String([]byte("x")),
	}, nil)

	h := c.header()
	if !h.isObject() {
		t.Fatal("expected an object header")
	}
	es := c.entries()
	if len(es) != 4 {
		t.Fatalf("expected 2*count=4 entries, got %d", len(es))
	}
	// The first count entries describe keys (typeString); the second
	// count describe values.
	for i := 0; i < 2; i++ {
		if !es[i].isString() {
			t.Fatalf("expected entry %d (a key) to be typeString, got %+v", i, es[i])
		}
	}
}

func TestBuilderRejectsOversizedKey(t *testing.T) {
	b := NewBuilder()
	mustText(t, b.BeginObject())
	bigKey := make([]byte, MaxStringLen+1)
	if err := b.Key(bigKey); err == nil {
		t.Fatal("expected Builder.Key to reject an oversized key before Compact ever runs")
	}
}

func TestCompactPanicsWhenEmittedExceedsBound(t *testing.T) {
	// A hand-built root with a deliberately understated size bound:
	// Compact must still emit the correct bytes, so it overruns the
	// bound and the internal assertion must fire.
	root := Value{
		Kind:  KindArray,
		Elems: []Value{Numeric([]byte("12345"))},
		size:  1,
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected Compact to panic when emitted bytes exceed the precomputed bound")
		}
	}()
	_, _ = Compact(root)
}

func TestAppendU32RoundTrips(t *testing.T) {
	var buf []byte
	buf = appendU32(buf, 0xDEADBEEF)
	if got := getU32(buf); got != 0xDEADBEEF {
		t.Fatalf("getU32(appendU32(x)) = %#x, want %#x", got, uint32(0xDEADBEEF))
	}
}
