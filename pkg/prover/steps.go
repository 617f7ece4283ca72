package prover

import (
	"context"
	"fmt"

	"github.com/gitrdm/kprove/internal/parallel"
	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/client"
	"github.com/gitrdm/kprove/pkg/cterm"
)

// ProofStep is one unit of work dispatched to a worker: execute the
// backend call for a single pending node. It carries no CFG reference —
// workers only see CTerm and options, never the CFG itself, so the CFG
// stays single-owner per spec §5.
type ProofStep struct {
	NodeID cfg.NodeId
	State  *cterm.CTerm
}

// Update is the result of running one ProofStep: the executed node id and
// either its ExecuteResult or an error, ready to be committed by the
// prover task that owns the CFG.
type Update struct {
	NodeID cfg.NodeId
	Result client.ExecuteResult
	Err    error
}

// Steps is the pure "step discovery" half of spec §4.5's parallel
// decomposition: it reads the CFG's pending set and returns one ProofStep
// per node not already claimed for expansion, doing no I/O and mutating
// nothing. Its output may only shrink or be replaced as later commits
// land, per §5's monotonicity guarantee.
func Steps(g *cfg.CFG) []ProofStep {
	pending := g.Pending()
	steps := make([]ProofStep, 0, len(pending))
	for _, id := range pending {
		n, ok := g.GetNode(id)
		if !ok {
			continue
		}
		steps = append(steps, ProofStep{NodeID: id, State: n.CTerm()})
	}
	return steps
}

// RunSteps dispatches steps to the backend concurrently (bounded by
// dispatcher's capacity), claiming each node for expansion before issuing
// its execute call so the same source id is never sent to the backend
// twice concurrently (§5's no-duplicate-work guarantee), and streams one
// Update per step back to the caller as soon as its backend call
// completes — in completion order, not dispatch order.
func RunSteps(ctx context.Context, g *cfg.CFG, backend client.Backend, opts client.ExecuteOptions, dispatcher *parallel.Dispatcher[ProofStep, client.ExecuteResult]) <-chan Update {
	var claimed []ProofStep
	for _, s := range Steps(g) {
		if g.ClaimForExpansion(s.NodeID) {
			claimed = append(claimed, s)
		}
	}

	raw := dispatcher.Run(ctx, claimed, func(ctx context.Context, step ProofStep) (client.ExecuteResult, error) {
		return backend.Execute(ctx, step.State, opts)
	})

	out := make(chan Update, len(claimed))
	go func() {
		defer close(out)
		for r := range raw {
			out <- Update{NodeID: r.Item.NodeID, Result: r.Out, Err: r.Err}
		}
	}()
	return out
}

// Commit applies one Update to the CFG: the serialized half of the
// parallel split. It must only be called from the prover's single owning
// task. A failed Update unclaims its node (via the same extend-style
// handling as the sequential prover) so a later round of Steps picks it up
// again, unless the failure was ErrAborted, which marks the node stuck.
func Commit(g *cfg.CFG, u Update, extractBranches ExtractBranches) error {
	n, ok := g.GetNode(u.NodeID)
	if !ok {
		return fmt.Errorf("prover: commit %s: %w", cfg.ShortID(u.NodeID), cfg.ErrNodeNotFound)
	}
	return commitResult(g, n, u.Result, u.Err, extractBranches)
}
