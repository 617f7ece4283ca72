package cfg

import (
	"testing"

	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/term"
)

func TestCreateEdgeRejectsNonPositiveDepth(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	if _, err := g.CreateEdge(a.ID(), b.ID(), 0, nil); err != ErrInvalidDepth {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
}

func TestCreateEdgeRejectsSecondSuccessor(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	c := g.GetOrCreateNode(configOf(t, "c"))
	if _, err := g.CreateEdge(a.ID(), b.ID(), 1, nil); err != nil {
		t.Fatalf("first CreateEdge: %v", err)
	}
	if _, err := g.CreateEdge(a.ID(), c.ID(), 1, nil); err != ErrSourceHasSuccessor {
		t.Fatalf("expected ErrSourceHasSuccessor, got %v", err)
	}
}

func TestCreateSplitRequiresAtLeastTwoBranches(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	branches := []SplitBranch{{Target: b.ID(), CSubst: cterm.NewCSubst(nil)}}
	if _, err := g.CreateSplit(a.ID(), branches); err != ErrTooFewTargets {
		t.Fatalf("expected ErrTooFewTargets, got %v", err)
	}
}

func TestCreateNDBranchRequiresAtLeastTwoTargets(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	if _, err := g.CreateNDBranch(a.ID(), []NodeId{b.ID()}, nil); err != ErrTooFewTargets {
		t.Fatalf("expected ErrTooFewTargets, got %v", err)
	}
}

func TestIsLeafAndIsCovered(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	if !g.IsLeaf(a.ID()) {
		t.Fatalf("expected fresh node to be a leaf")
	}
	if _, err := g.CreateCover(a.ID(), b.ID(), cterm.NewCSubst(nil)); err != nil {
		t.Fatalf("CreateCover: %v", err)
	}
	if g.IsLeaf(a.ID()) {
		t.Fatalf("expected covered node to no longer be a leaf")
	}
	if !g.IsCovered(a.ID()) {
		t.Fatalf("expected a to be covered")
	}
}

func TestPendingExcludesTerminalStuckVacuousExpanded(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	c := g.GetOrCreateNode(configOf(t, "c"))
	d := g.GetOrCreateNode(configOf(t, "d"))

	g.MarkTerminal(a.ID())
	g.MarkStuck(b.ID())
	g.MarkVacuous(c.ID())
	g.ClaimForExpansion(d.ID())

	if pending := g.Pending(); len(pending) != 0 {
		t.Fatalf("expected no pending nodes, got %v", pending)
	}
}

func TestPendingOrdersByCreation(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	c := g.GetOrCreateNode(configOf(t, "c"))

	pending := g.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending nodes, got %d", len(pending))
	}
	if pending[0] != a.ID() || pending[1] != b.ID() || pending[2] != c.ID() {
		t.Fatalf("expected pending in creation order [a b c], got %v", pending)
	}
}

func TestSuccessorTargetsMustExistInGraph(t *testing.T) {
	// Targets() must always enumerate ids consumers can look up; verify the
	// graph actually contains every target after each kind of successor.
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	cN := g.GetOrCreateNode(configOf(t, "c"))

	branches := []SplitBranch{
		{Target: b.ID(), CSubst: cterm.NewCSubst(nil)},
		{Target: cN.ID(), CSubst: cterm.NewCSubst(term.NewSubstitution())},
	}
	split, err := g.CreateSplit(a.ID(), branches)
	if err != nil {
		t.Fatalf("CreateSplit: %v", err)
	}
	for _, id := range split.Targets() {
		if !g.ContainsNode(id) {
			t.Fatalf("split target %s not present in graph", id)
		}
	}
}
