package client

import (
	"testing"

	"github.com/gitrdm/kprove/pkg/term"
)

func TestFlattenAndUnfoldsNestedConjuncts(t *testing.T) {
	x := term.NewVariable("X", "Int")
	y := term.NewVariable("Y", "Int")
	z := term.NewVariable("Z", "Int")
	inner := term.NewApplication(AndLabel, nil, "Bool", []term.Term{y, z})
	outer := term.NewApplication(AndLabel, nil, "Bool", []term.Term{x, inner})

	got := flattenAnd(outer)
	if len(got) != 3 {
		t.Fatalf("expected 3 flattened conjuncts, got %d", len(got))
	}
}

func TestFlattenAndNonConjunctionIsSingleton(t *testing.T) {
	tok, err := term.NewToken("5", "Int")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	got := flattenAnd(tok)
	if len(got) != 1 || got[0].Hash() != tok.Hash() {
		t.Fatalf("expected a non-conjunction to flatten to itself")
	}
}

func TestSubstitutionToCSubstTopIsTrivial(t *testing.T) {
	top := term.NewApplication(TopLabel, nil, "Bool", nil)
	cond := term.NewApplication("foo", nil, "Bool", nil)

	cs, err := substitutionToCSubst(top, cond)
	if err != nil {
		t.Fatalf("substitutionToCSubst: %v", err)
	}
	if cs.Subst.Len() != 0 {
		t.Fatalf("expected an empty substitution for a #Top result")
	}
	if len(cs.Constraints) != 1 {
		t.Fatalf("expected the condition to carry through as a constraint")
	}
}

func TestSubstitutionToCSubstBuildsBindings(t *testing.T) {
	x := term.NewVariable("X", "Int")
	five, err := term.NewToken("5", "Int")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	eq := term.NewApplication(EqualsLabel, nil, "Bool", []term.Term{x, five})
	top := term.NewApplication(TopLabel, nil, "Bool", nil)

	cs, err := substitutionToCSubst(eq, top)
	if err != nil {
		t.Fatalf("substitutionToCSubst: %v", err)
	}
	bound, ok := cs.Subst.Lookup("X")
	if !ok || bound.Hash() != five.Hash() {
		t.Fatalf("expected X bound to 5, got %v, ok=%v", bound, ok)
	}
}

func TestSubstitutionToCSubstRejectsMalformedConjunct(t *testing.T) {
	notEquals := term.NewApplication("foo", nil, "Bool", nil)
	top := term.NewApplication(TopLabel, nil, "Bool", nil)

	if _, err := substitutionToCSubst(notEquals, top); err == nil {
		t.Fatalf("expected an error for a non-#Equals conjunct")
	}
}

func TestSubstitutionToCSubstRejectsNonVariableLHS(t *testing.T) {
	five, err := term.NewToken("5", "Int")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	six, err := term.NewToken("6", "Int")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	eq := term.NewApplication(EqualsLabel, nil, "Bool", []term.Term{five, six})
	top := term.NewApplication(TopLabel, nil, "Bool", nil)

	if _, err := substitutionToCSubst(eq, top); err == nil {
		t.Fatalf("expected an error when the equality isn't rooted at a variable")
	}
}
