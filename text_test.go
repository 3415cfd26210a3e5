package semidoc

import "testing"

func buildTextDoc(t *testing.T) Container {
	t.Helper()
	b := NewBuilder()
	mustText(t, b.BeginObject())
	mustText(t, b.Key([]byte("name")))
	mustText(t, b.Value(String([]byte("ada \"lovelace\""))))
	mustText(t, b.Key([]byte("tags")))
	mustText(t, b.BeginArray())
	mustText(t, b.Elem(Numeric([]byte("1"))))
	mustText(t, b.Elem(Null()))
	mustText(t, b.Elem(Bool(true)))
	_, err := b.EndArray()
	mustText(t, err)
	root, err := b.EndObject()
	mustText(t, err)
	c, err := Compact(root)
	mustText(t, err)
	return c
}

func mustText(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestAppendTextEscapesAndSeparators(t *testing.T) {
	c := buildTextDoc(t)
	buf, err := AppendText(nil, c)
	if err != nil {
		t.Fatal(err)
	}
	got := string(buf)
	want := `{"name": "ada \"lovelace\"", "tags": [1, null, true]}`
	if got != want {
		t.Fatalf("AppendText = %q, want %q", got, want)
	}
}

func TestParseScalarWraps(t *testing.T) {
	v, err := Parse([]TextToken{{Kind: TextNumber, Bytes: []byte("42")}})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindArray || !v.Scalar || len(v.Elems) != 1 {
		t.Fatalf("expected a scalar wrapper array, got %+v", v)
	}
	if v.Elems[0].Kind != KindNumeric || string(v.Elems[0].Numeric) != "42" {
		t.Fatalf("unexpected wrapped scalar: %+v", v.Elems[0])
	}
}

func TestParseObjectRoundTrip(t *testing.T) {
	tokens := []TextToken{
		{Kind: TextBeginObject},
		{Kind: TextKey, Bytes: []byte("a")},
		{Kind: TextString, Bytes: []byte("x")},
		{Kind: TextKey, Bytes: []byte("b")},
		{Kind: TextBool, Bytes: []byte("false")},
		{Kind: TextEndObject},
	}
	v, err := Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Compact(v)
	if err != nil {
		t.Fatal(err)
	}
	found, ok := FindKey(c, []byte("a"))
	if !ok || found.Kind != KindString || string(found.Str) != "x" {
		t.Fatalf("expected key a -> \"x\", got %+v, ok=%v", found, ok)
	}
}

func TestParseInvalidBoolLiteral(t *testing.T) {
	_, err := Parse([]TextToken{{Kind: TextBool, Bytes: []byte("nope")}})
	if err == nil {
		t.Fatal("expected an error for an invalid boolean literal")
	}
}
