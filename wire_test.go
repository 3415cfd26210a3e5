package semidoc

import (
	"testing"

	"github.com/binpack/semidoc/numeric"
)

func buildWireDoc(t *testing.T) Container {
	t.Helper()
	b := NewBuilder()
	mustText(t, b.BeginObject())
	mustText(t, b.Key([]byte("n")))
	mustText(t, b.Value(Null()))
	mustText(t, b.Key([]byte("tags")))
	mustText(t, b.BeginArray())
	mustText(t, b.Elem(String([]byte("x"))))
	mustText(t, b.Elem(Numeric([]byte("7"))))
	_, err := b.EndArray()
	mustText(t, err)
	root, err := b.EndObject()
	mustText(t, err)
	c, err := Compact(root)
	mustText(t, err)
	return c
}

func TestSendRecvRoundTrip(t *testing.T) {
	orig := buildWireDoc(t)
	wire, err := Send(orig)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Recv(wire)
	if err != nil {
		t.Fatal(err)
	}
	resolver := numeric.New()
	ok, err := DeepContains(back, orig, resolver)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("round-tripped container should deep-contain the original")
	}
	ok, err = DeepContains(orig, back, resolver)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("original should deep-contain the round-tripped container")
	}
}

func TestRecvLegacyObjectInference(t *testing.T) {
	// A root header with neither IS_ARRAY nor IS_OBJECT set, one member,
	// mimicking a pre-array/object legacy wire payload.
	h := makeHeader(1, false, false, false)
	var buf []byte
	buf = appendU32(buf, uint32(h))
	buf = appendWireKey(buf, []byte("k"))
	buf = appendWireChild(buf, String([]byte("v")))

	c, err := Recv(buf)
	if err != nil {
		t.Fatal(err)
	}
	if TypeOf(c) != KindObject {
		t.Fatalf("expected legacy payload to infer an object, got %v", TypeOf(c))
	}
	found, ok := FindKey(c, []byte("k"))
	if !ok || string(found.Str) != "v" {
		t.Fatalf("expected key k -> \"v\", got %+v, ok=%v", found, ok)
	}
}

func TestRecvRejectsTrailingBytes(t *testing.T) {
	orig := buildWireDoc(t)
	wire, err := Send(orig)
	if err != nil {
		t.Fatal(err)
	}
	wire = append(wire, 0xFF)
	if _, err := Recv(wire); err == nil {
		t.Fatal("expected an error for trailing bytes")
	}
}

func TestRecvRejectsUnknownTag(t *testing.T) {
	h := makeHeader(1, true, false, false)
	var buf []byte
	buf = appendU32(buf, uint32(h))
	buf = appendU32(buf, 1) // length 1: just the bad tag byte
	buf = append(buf, '?')
	if _, err := Recv(buf); err == nil {
		t.Fatal("expected an error for an unrecognized wire type tag")
	}
}
