package term

import (
	"errors"
	"testing"
)

func sampleConfig() Term {
	x := NewVariable("X", "Int")
	tok5, _ := NewToken("5", "Int")
	plus := NewApplication("_+_", nil, "Int", []Term{x, tok5})
	seq := NewSequence([]Term{plus, NewVariable("Rest", "K")}, "K")
	return seq
}

func TestHashEqualityImpliesStructuralEquality(t *testing.T) {
	a := sampleConfig()
	b := sampleConfig()

	if a.Hash() != b.Hash() {
		t.Fatalf("expected equal hashes for structurally identical terms, got %s vs %s", a.Hash(), b.Hash())
	}
	if !a.Equal(b) {
		t.Fatalf("expected Equal(a, b) true")
	}

	c := NewSequence([]Term{sampleConfig()}, "K")
	if a.Hash() == c.Hash() {
		t.Fatalf("expected different hashes for structurally different terms")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Term{
		NewVariable("X", "Int"),
		mustToken(t, "hello", "String"),
		NewApplication("foo", []Sort{"Int", "Bool"}, "Stmt", []Term{NewVariable("Y", "Int")}),
		NewSequence(nil, "K"),
		NewSequence([]Term{NewVariable("A", "K"), NewVariable("B", "K")}, "K"),
		NewRewrite(NewVariable("X", "Int"), mustToken(t, "0", "Int")),
		NewAsBinding(NewVariable("P", "Stmt"), NewVariable("V", "Stmt")),
		sampleConfig(),
	}

	for _, orig := range cases {
		encoded, err := Encode(orig)
		if err != nil {
			t.Fatalf("Encode(%s): %v", orig, err)
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%s): %v", orig, err)
		}
		if decoded.Hash() != orig.Hash() {
			t.Fatalf("round trip changed hash: %s (%s) -> %s (%s)", orig, orig.Hash(), decoded, decoded.Hash())
		}
	}
}

func TestDecodeUnknownTagIsMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"tag":"Bogus"}`))
	if !errors.Is(err, ErrMalformedTerm) {
		t.Fatalf("expected ErrMalformedTerm, got %v", err)
	}
}

func TestDecodeInvalidJSONIsMalformed(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	if !errors.Is(err, ErrMalformedTerm) {
		t.Fatalf("expected ErrMalformedTerm, got %v", err)
	}
}

func TestNewTokenRequiresSort(t *testing.T) {
	_, err := NewToken("5", "")
	if !errors.Is(err, ErrSortMismatch) {
		t.Fatalf("expected ErrSortMismatch, got %v", err)
	}
}

func TestFreeVars(t *testing.T) {
	term := sampleConfig()
	fv := term.FreeVars()

	if _, ok := fv["X"]; !ok {
		t.Fatalf("expected X free in %s, got %v", term, fv)
	}
	if _, ok := fv["Rest"]; !ok {
		t.Fatalf("expected Rest free in %s, got %v", term, fv)
	}
	if len(fv) != 2 {
		t.Fatalf("expected exactly 2 free vars, got %v", fv)
	}
}

func mustToken(t *testing.T, value string, sort Sort) *Token {
	t.Helper()
	tok, err := NewToken(value, sort)
	if err != nil {
		t.Fatalf("NewToken(%q, %q): %v", value, sort, err)
	}
	return tok
}
