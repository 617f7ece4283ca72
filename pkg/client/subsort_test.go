package client

import (
	"testing"

	"github.com/gitrdm/kprove/pkg/term"
)

func TestIsSubsortDirectAndTransitive(t *testing.T) {
	lattice := NewSubsortLattice(map[term.Sort][]term.Sort{
		"Int":  {"Number"},
		"Number": {"KItem"},
	})
	if !lattice.IsSubsort("Int", "Number") {
		t.Fatalf("expected direct subsort Int <: Number")
	}
	if !lattice.IsSubsort("Int", "KItem") {
		t.Fatalf("expected transitive subsort Int <: KItem")
	}
	if lattice.IsSubsort("KItem", "Int") {
		t.Fatalf("did not expect KItem <: Int")
	}
	if !lattice.IsSubsort("Int", "Int") {
		t.Fatalf("expected a sort to be a subsort of itself")
	}
}
