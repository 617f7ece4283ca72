package prover

import (
	"context"
	"errors"
	"fmt"

	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/client"
	"github.com/gitrdm/kprove/pkg/cterm"
)

// ExtractBranches, when supplied, pulls the per-branch predicate a
// semantics attaches to a Branching result (e.g. the condition of a
// symbolic `if`), one per NextStates entry, in order. When it returns a
// slice whose length doesn't match NextStates, extend falls back to
// building an NDBranch instead of a Split, per spec §4.5.
type ExtractBranches func(ct *cterm.CTerm) []*cterm.CTerm

// extend calls backend.Execute(n) and commits the result, the sequential
// (non-dispatcher) path through spec §4.5's loop. The caller must claim n
// for expansion before calling extend (ClaimForExpansion enforces this
// across workers so the same source id is never sent to the backend twice
// concurrently).
func extend(ctx context.Context, g *cfg.CFG, backend client.Backend, n *cfg.Node, opts client.ExecuteOptions, extractBranches ExtractBranches) error {
	result, err := backend.Execute(ctx, n.CTerm(), opts)
	return commitResult(g, n, result, err, extractBranches)
}

// commitResult translates one backend.Execute outcome into the matching
// CFG mutation, per spec §4.5's table. It is shared by extend (the
// sequential prover loop) and Commit (the parallel steps()/commit() path)
// so both take identical action for identical results. A non-ErrAborted
// error unclaims n so a later round may retry it; ErrAborted marks n
// stuck, per results.go's documented contract for that variant.
func commitResult(g *cfg.CFG, n *cfg.Node, result client.ExecuteResult, err error, extractBranches ExtractBranches) error {
	if err != nil {
		if errors.Is(err, client.ErrAborted) {
			g.MarkStuck(n.ID())
			return nil
		}
		g.UnclaimExpansion(n.ID())
		return fmt.Errorf("prover: extend %s: %w", cfg.ShortID(n.ID()), err)
	}

	switch r := result.(type) {
	case client.DepthBound:
		next := g.GetOrCreateNode(r.State())
		if _, err := g.CreateEdge(n.ID(), next.ID(), r.Depth, nil); err != nil {
			return fmt.Errorf("prover: create edge for depth-bound result: %w", err)
		}
		return nil

	case client.Stuck:
		if r.Depth == 0 {
			g.MarkStuck(n.ID())
			return nil
		}
		next := g.GetOrCreateNode(r.State())
		if _, err := g.CreateEdge(n.ID(), next.ID(), r.Depth, nil); err != nil {
			return fmt.Errorf("prover: create edge for stuck result: %w", err)
		}
		g.MarkStuck(next.ID())
		return nil

	case client.Terminal:
		next := n
		if r.Depth > 0 {
			next = g.GetOrCreateNode(r.State())
			if _, err := g.CreateEdge(n.ID(), next.ID(), r.Depth, []string{r.Rule}); err != nil {
				return fmt.Errorf("prover: create edge for terminal result: %w", err)
			}
		}
		g.MarkTerminal(next.ID())
		return nil

	case client.CutPoint:
		next := g.GetOrCreateNode(r.State())
		if _, err := g.CreateEdge(n.ID(), next.ID(), r.Depth, []string{r.Rule}); err != nil {
			return fmt.Errorf("prover: create edge for cut-point result: %w", err)
		}
		targets := make([]cfg.NodeId, len(r.NextStates))
		for i, s := range r.NextStates {
			targets[i] = g.GetOrCreateNode(s).ID()
		}
		if _, err := g.CreateNDBranch(next.ID(), targets, []string{r.Rule}); err != nil {
			return fmt.Errorf("prover: create ndbranch for cut-point result: %w", err)
		}
		return nil

	case client.Branching:
		source := n.ID()
		if r.Depth > 0 {
			next := g.GetOrCreateNode(r.State())
			if _, err := g.CreateEdge(n.ID(), next.ID(), r.Depth, nil); err != nil {
				return fmt.Errorf("prover: create edge for branching result: %w", err)
			}
			source = next.ID()
		}
		return commitBranches(g, source, r.State(), r.NextStates, extractBranches)

	case client.Vacuous:
		g.MarkVacuous(n.ID())
		return nil

	default:
		return fmt.Errorf("prover: extend %s: unrecognized execute result %T", cfg.ShortID(n.ID()), result)
	}
}

// commitBranches installs a Split when extractBranches produces exactly
// one predicate per next-state, else falls back to an NDBranch, per the
// "if n conditions match n next-states" rule in spec §4.5.
func commitBranches(g *cfg.CFG, source cfg.NodeId, sourceState *cterm.CTerm, nextStates []*cterm.CTerm, extractBranches ExtractBranches) error {
	targets := make([]cfg.NodeId, len(nextStates))
	for i, s := range nextStates {
		targets[i] = g.GetOrCreateNode(s).ID()
	}

	var conditions []*cterm.CTerm
	if extractBranches != nil {
		conditions = extractBranches(sourceState)
	}
	if len(conditions) == len(nextStates) && len(nextStates) > 0 {
		branches := make([]cfg.SplitBranch, len(nextStates))
		for i, target := range targets {
			branches[i] = cfg.SplitBranch{Target: target, CSubst: cterm.NewCSubst(nil, conditions[i].Constraints()...)}
		}
		_, err := g.CreateSplit(source, branches)
		if err != nil {
			return fmt.Errorf("prover: create split for branching result: %w", err)
		}
		return nil
	}

	_, err := g.CreateNDBranch(source, targets, nil)
	if err != nil {
		return fmt.Errorf("prover: create ndbranch for branching result: %w", err)
	}
	return nil
}
