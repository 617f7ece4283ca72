package cterm

import (
	"testing"

	"github.com/gitrdm/kprove/pkg/term"
)

func TestMatchWithConstraintBindsPatternVariables(t *testing.T) {
	n := term.NewVariable("N", "Int")
	pattern := New(kCell(term.NewApplication("done", nil, "Stmt", []term.Term{n})))

	five := mustToken(t, "5", "Int")
	subject := New(kCell(term.NewApplication("done", nil, "Stmt", []term.Term{five})))

	csubst, err := MatchWithConstraint(subject, pattern)
	if err != nil {
		t.Fatalf("MatchWithConstraint: %v", err)
	}
	if csubst == nil {
		t.Fatalf("expected a match")
	}
	bound, ok := csubst.Subst.Lookup("N")
	if !ok || !bound.Equal(five) {
		t.Fatalf("expected N bound to 5, got %v", bound)
	}

	// Applying the witness to the pattern's config reproduces the subject's.
	got := csubst.Subst.Apply(pattern.Config())
	if got.Hash() != subject.Config().Hash() {
		t.Fatalf("witness does not reproduce subject config: %s vs %s", got, subject.Config())
	}
}

func TestMatchWithConstraintFailsOnLabelMismatch(t *testing.T) {
	pattern := New(kCell(term.NewApplication("done", nil, "Stmt", []term.Term{term.NewVariable("N", "Int")})))
	subject := New(kCell(term.NewApplication("stuck", nil, "Stmt", []term.Term{mustToken(t, "5", "Int")})))

	csubst, err := MatchWithConstraint(subject, pattern)
	if err != nil {
		t.Fatalf("MatchWithConstraint: %v", err)
	}
	if csubst != nil {
		t.Fatalf("expected no match, got %v", csubst)
	}
}

func TestMatchWithConstraintRepeatedVariableMustAgree(t *testing.T) {
	x := term.NewVariable("X", "Int")
	pattern := New(kCell(term.NewApplication("pair", nil, "Pair", []term.Term{x, x})))

	three := mustToken(t, "3", "Int")
	four := mustToken(t, "4", "Int")

	agreeing := New(kCell(term.NewApplication("pair", nil, "Pair", []term.Term{three, three})))
	if csubst, _ := MatchWithConstraint(agreeing, pattern); csubst == nil {
		t.Fatalf("expected match when repeated variable's occurrences agree")
	}

	disagreeing := New(kCell(term.NewApplication("pair", nil, "Pair", []term.Term{three, four})))
	if csubst, _ := MatchWithConstraint(disagreeing, pattern); csubst != nil {
		t.Fatalf("expected no match when repeated variable's occurrences disagree")
	}
}

func TestMatchWithConstraintCarriesResidualConstraints(t *testing.T) {
	n := term.NewVariable("N", "Int")
	bound := term.NewApplication("_>Int_", nil, "Bool", []term.Term{n, mustToken(t, "0", "Int")})
	pattern := New(kCell(n), bound)

	five := mustToken(t, "5", "Int")
	subject := New(kCell(five))

	csubst, err := MatchWithConstraint(subject, pattern)
	if err != nil {
		t.Fatalf("MatchWithConstraint: %v", err)
	}
	if len(csubst.Constraints) != 1 {
		t.Fatalf("expected one residual constraint, got %d", len(csubst.Constraints))
	}
	want := term.NewApplication("_>Int_", nil, "Bool", []term.Term{five, mustToken(t, "0", "Int")})
	if csubst.Constraints[0].Hash() != want.Hash() {
		t.Fatalf("expected residual constraint %s, got %s", want, csubst.Constraints[0])
	}
}

func TestMatchWithConstraintSuffixVariableInSequence(t *testing.T) {
	rest := term.NewVariable("Rest", "K")
	pattern := New(term.NewSequence([]term.Term{
		term.NewApplication("step", nil, "Stmt", nil),
		rest,
	}, "K"))

	subject := New(term.NewSequence([]term.Term{
		term.NewApplication("step", nil, "Stmt", nil),
		term.NewApplication("next", nil, "Stmt", nil),
		term.NewApplication("last", nil, "Stmt", nil),
	}, "K"))

	csubst, err := MatchWithConstraint(subject, pattern)
	if err != nil {
		t.Fatalf("MatchWithConstraint: %v", err)
	}
	if csubst == nil {
		t.Fatalf("expected suffix variable to soak up remaining sequence items")
	}
	bound, _ := csubst.Subst.Lookup("Rest")
	seq, ok := bound.(*term.Sequence)
	if !ok || seq.Len() != 2 {
		t.Fatalf("expected Rest bound to a 2-item sequence, got %v", bound)
	}
}
