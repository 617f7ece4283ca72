package prover

import (
	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/cterm"
)

// SameLoop reports whether two configurations sit at the same loop head.
// The core term model has no notion of "loop"; the semantics supplies
// this predicate (typically comparing a program-counter or control cell).
type SameLoop func(a, b *cterm.CTerm) bool

// loopDepth walks n's chain of single-predecessor Edge ancestors and
// counts how many carry a configuration sameLoop considers the same loop
// head as n, per spec §4.5: "whenever a new node matches a predecessor
// under same_loop, the current one's loop depth increments." The walk
// stops at the first node with zero or more than one predecessor, or whose
// single predecessor reaches it through a Cover, Split or NDBranch rather
// than an Edge, since loop identity along a single concrete-step spine is
// the case APR-BMC actually unrolls.
func loopDepth(g *cfg.CFG, n *cfg.Node, sameLoop SameLoop) int {
	depth := 0
	seen := map[cfg.NodeId]bool{n.ID(): true}
	current := n.ID()
	for {
		preds := g.Predecessors(current)
		if len(preds) != 1 {
			return depth
		}
		pred := preds[0]
		succ, ok := g.Successor(pred)
		if !ok {
			return depth
		}
		if _, isEdge := succ.(*cfg.Edge); !isEdge {
			return depth
		}
		if seen[pred] {
			return depth
		}
		seen[pred] = true
		predNode, ok := g.GetNode(pred)
		if !ok {
			return depth
		}
		if sameLoop(n.CTerm(), predNode.CTerm()) {
			depth++
		}
		current = pred
	}
}

// checkBounded reports whether n's loop-nest depth exceeds bmcDepth and,
// if so, marks it bounded and terminal so the prover loop does not extend
// it further. A nil sameLoop disables APR-BMC entirely (plain APR).
func checkBounded(g *cfg.CFG, n *cfg.Node, sameLoop SameLoop, bmcDepth int) bool {
	if sameLoop == nil {
		return false
	}
	if loopDepth(g, n, sameLoop) > bmcDepth {
		g.MarkBounded(n.ID())
		g.MarkTerminal(n.ID())
		return true
	}
	return false
}
