package prover

import (
	"context"
	"testing"

	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/client"
	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/term"
)

func newGraphWithInit(t *testing.T, label string) (*cfg.CFG, *cfg.Node) {
	t.Helper()
	g := cfg.New()
	n := g.CreateNode(configOf(t, label))
	g.SetInit(n.ID())
	return g, n
}

func TestExtendTerminalMarksTerminalWithoutEdgeWhenDepthZero(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	backend := client.NewReplayer()
	backend.OnExecute(client.Terminal{StateTerm: n.CTerm(), Depth: 0, Rule: "halt"}, nil)
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, nil); err != nil {
		t.Fatalf("extend: %v", err)
	}
	got, _ := g.GetNode(n.ID())
	if !got.IsTerminal() {
		t.Fatalf("expected the source node marked terminal")
	}
	if len(g.Edges()) != 0 {
		t.Fatalf("expected no edge for a depth-0 terminal result")
	}
}

func TestExtendTerminalCreatesEdgeWhenDepthPositive(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	next := configOf(t, "Halted")
	backend := client.NewReplayer()
	backend.OnExecute(client.Terminal{StateTerm: next, Depth: 3, Rule: "halt"}, nil)
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, nil); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if len(g.Edges()) != 1 {
		t.Fatalf("expected exactly one edge, got %d", len(g.Edges()))
	}
	nextNode, ok := g.GetNode(next.Hash())
	if !ok || !nextNode.IsTerminal() {
		t.Fatalf("expected the new node marked terminal")
	}
}

func TestExtendCutPointCreatesEdgeAndNDBranch(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	cutState := configOf(t, "Cut")
	a := configOf(t, "BranchA")
	b := configOf(t, "BranchB")
	backend := client.NewReplayer()
	backend.OnExecute(client.CutPoint{StateTerm: cutState, Depth: 1, Rule: "choice", NextStates: []*cterm.CTerm{a, b}}, nil)
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, nil); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if len(g.Edges()) != 1 {
		t.Fatalf("expected one edge into the cut-point state, got %d", len(g.Edges()))
	}
	if len(g.NDBranches()) != 1 {
		t.Fatalf("expected one ndbranch out of the cut-point state, got %d", len(g.NDBranches()))
	}
}

func TestExtendBranchingWithMatchingConditionsCreatesSplit(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	a := configOf(t, "BranchA")
	b := configOf(t, "BranchB")
	backend := client.NewReplayer()
	backend.OnExecute(client.Branching{StateTerm: n.CTerm(), Depth: 0, NextStates: []*cterm.CTerm{a, b}}, nil)

	trueCond, _ := term.NewToken("true", "Bool")
	falseCond, _ := term.NewToken("false", "Bool")
	extract := func(_ *cterm.CTerm) []*cterm.CTerm {
		return []*cterm.CTerm{cterm.New(a.Config(), trueCond), cterm.New(b.Config(), falseCond)}
	}
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, extract); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if len(g.Splits()) != 1 {
		t.Fatalf("expected one split, got %d", len(g.Splits()))
	}
}

func TestExtendBranchingWithoutExtractorCreatesNDBranch(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	a := configOf(t, "BranchA")
	b := configOf(t, "BranchB")
	backend := client.NewReplayer()
	backend.OnExecute(client.Branching{StateTerm: n.CTerm(), Depth: 0, NextStates: []*cterm.CTerm{a, b}}, nil)
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, nil); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if len(g.NDBranches()) != 1 {
		t.Fatalf("expected one ndbranch when no branch extractor is supplied, got %d", len(g.NDBranches()))
	}
}

func TestExtendVacuousMarksVacuous(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	backend := client.NewReplayer()
	backend.OnExecute(client.Vacuous{StateTerm: n.CTerm(), Depth: 0}, nil)
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, nil); err != nil {
		t.Fatalf("extend: %v", err)
	}
	got, _ := g.GetNode(n.ID())
	if !got.IsVacuous() {
		t.Fatalf("expected the node marked vacuous")
	}
}

func TestExtendAbortedMarksStuckWithoutError(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	backend := client.NewReplayer()
	backend.OnExecute(nil, client.ErrAborted)
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, nil); err != nil {
		t.Fatalf("extend: %v", err)
	}
	got, _ := g.GetNode(n.ID())
	if !got.IsStuck() {
		t.Fatalf("expected the node marked stuck on an aborted execute")
	}
}

func TestExtendTransportErrorUnclaimsNode(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	backend := client.NewReplayer()
	backend.OnExecute(nil, client.ErrBackendTimeout)
	g.ClaimForExpansion(n.ID())

	if err := extend(context.Background(), g, backend, n, client.ExecuteOptions{}, nil); err == nil {
		t.Fatalf("expected extend to surface the transport error")
	}
	if !g.ClaimForExpansion(n.ID()) {
		t.Fatalf("expected the node to be unclaimed and reclaimable after a transport failure")
	}
}
