package numeric

import "testing"

func TestCmp(t *testing.T) {
	r := New()
	cases := []struct {
		a, b string
		want int
	}{
		{"1", "2", -1},
		{"2", "1", 1},
		{"3", "3", 0},
		{"1.50", "3/2", 0},
		{"-5", "5", -1},
	}
	for _, c := range cases {
		got, err := r.Cmp([]byte(c.a), []byte(c.b))
		if err != nil {
			t.Fatalf("Cmp(%q, %q): %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Errorf("Cmp(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestEqAndHashConsistent(t *testing.T) {
	r := New()
	eq, err := r.Eq([]byte("1.50"), []byte("3/2"))
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatal("expected 1.50 and 3/2 to be equal")
	}
	h1, err := r.Hash([]byte("1.50"))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r.Hash([]byte("3/2"))
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatalf("equal numerics hashed differently: %d vs %d", h1, h2)
	}
}

func TestParseError(t *testing.T) {
	r := New()
	if _, err := r.Cmp([]byte("not-a-number"), []byte("1")); err == nil {
		t.Fatal("expected a parse error")
	}
}
