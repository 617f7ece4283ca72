package prover

import (
	"testing"

	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/cterm"
)

// chainSameLoop treats every pair of configurations as the same loop head,
// so every ancestor the walk visits counts toward the loop depth.
func chainSameLoop(a, b *cterm.CTerm) bool {
	return true
}

func buildLinearChain(t *testing.T, g *cfg.CFG, length int) *cfg.Node {
	t.Helper()
	n := g.CreateNode(configOf(t, "Head0"))
	g.SetInit(n.ID())
	for i := 1; i <= length; i++ {
		next := g.CreateNode(configOf(t, headLabel(i)))
		if _, err := g.CreateEdge(n.ID(), next.ID(), 1, nil); err != nil {
			t.Fatalf("CreateEdge: %v", err)
		}
		n = next
	}
	return n
}

func headLabel(i int) string {
	return "Head" + string(rune('0'+i))
}

func TestLoopDepthCountsLinearChain(t *testing.T) {
	g := cfg.New()
	tail := buildLinearChain(t, g, 4)

	depth := loopDepth(g, tail, chainSameLoop)
	if depth != 4 {
		t.Fatalf("expected loop depth 4, got %d", depth)
	}
}

func TestLoopDepthStopsAtNonSingularPredecessor(t *testing.T) {
	g := cfg.New()
	init := g.CreateNode(configOf(t, "Init"))
	g.SetInit(init.ID())
	joined := g.CreateNode(configOf(t, "Joined"))
	other := g.CreateNode(configOf(t, "Other"))
	if _, err := g.CreateNDBranch(init.ID(), []cfg.NodeId{joined.ID(), other.ID()}, nil); err != nil {
		t.Fatalf("CreateNDBranch: %v", err)
	}

	depth := loopDepth(g, joined, chainSameLoop)
	if depth != 0 {
		t.Fatalf("expected depth 0 at a non-singular predecessor boundary, got %d", depth)
	}
}

func TestCheckBoundedMarksBoundedAndTerminalWhenDepthExceeded(t *testing.T) {
	g := cfg.New()
	tail := buildLinearChain(t, g, 3)

	bounded := checkBounded(g, tail, chainSameLoop, 2)
	if !bounded {
		t.Fatalf("expected checkBounded to report true once depth exceeds bmcDepth")
	}
	got, _ := g.GetNode(tail.ID())
	if !got.IsBounded() || !got.IsTerminal() {
		t.Fatalf("expected the node marked both bounded and terminal")
	}
}

func TestCheckBoundedFalseWhenDepthWithinBound(t *testing.T) {
	g := cfg.New()
	tail := buildLinearChain(t, g, 1)

	if checkBounded(g, tail, chainSameLoop, 5) {
		t.Fatalf("expected checkBounded to report false when depth is within bound")
	}
	got, _ := g.GetNode(tail.ID())
	if got.IsBounded() {
		t.Fatalf("did not expect the node marked bounded")
	}
}

func TestCheckBoundedNilSameLoopDisablesBMC(t *testing.T) {
	g := cfg.New()
	tail := buildLinearChain(t, g, 10)

	if checkBounded(g, tail, nil, 0) {
		t.Fatalf("expected checkBounded to be a no-op when sameLoop is nil")
	}
}
