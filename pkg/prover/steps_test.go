package prover

import (
	"context"
	"errors"
	"testing"

	"github.com/gitrdm/kprove/internal/parallel"
	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/client"
)

func TestStepsReturnsOnePerPendingNode(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")

	steps := Steps(g)
	if len(steps) != 1 {
		t.Fatalf("expected one pending step, got %d", len(steps))
	}
	if steps[0].NodeID != n.ID() {
		t.Fatalf("expected the pending step to reference the init node")
	}
}

func TestStepsExcludesClaimedNodes(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	if !g.ClaimForExpansion(n.ID()) {
		t.Fatalf("expected to claim the init node")
	}

	if steps := Steps(g); len(steps) != 0 {
		t.Fatalf("expected no pending steps once the only node is claimed, got %d", len(steps))
	}
}

func TestRunStepsClaimsBeforeDispatchAndStreamsUpdates(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	backend := client.NewReplayer()
	backend.OnExecute(client.Terminal{StateTerm: n.CTerm(), Depth: 0, Rule: "halt"}, nil)

	dispatcher := parallel.NewDispatcher[ProofStep, client.ExecuteResult](4)
	updates := RunSteps(context.Background(), g, backend, client.ExecuteOptions{}, dispatcher)

	var got []Update
	for u := range updates {
		got = append(got, u)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(got))
	}
	if got[0].NodeID != n.ID() {
		t.Fatalf("expected the update to reference the init node")
	}
	// The node was claimed by RunSteps before dispatch, so a second claim
	// attempt must fail until something unclaims or commits it.
	if g.ClaimForExpansion(n.ID()) {
		t.Fatalf("expected the node to remain claimed until Commit runs")
	}
}

func TestCommitAppliesDepthBoundUpdate(t *testing.T) {
	g, n := newGraphWithInit(t, "Init")
	g.ClaimForExpansion(n.ID())
	next := configOf(t, "Next")

	u := Update{NodeID: n.ID(), Result: client.DepthBound{StateTerm: next, Depth: 5}}
	if err := Commit(g, u, nil); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(g.Edges()) != 1 {
		t.Fatalf("expected one edge committed from the depth-bound update, got %d", len(g.Edges()))
	}
}

func TestCommitUnknownNodeErrors(t *testing.T) {
	g := cfg.New()
	u := Update{NodeID: "sha256:deadbeef"}
	err := Commit(g, u, nil)
	if !errors.Is(err, cfg.ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}
