package prover

import (
	"context"
	"fmt"
	"testing"

	"github.com/gitrdm/kprove/pkg/client"
	"github.com/gitrdm/kprove/pkg/cterm"
)

func TestAdvanceProofParallelRequiresWorkers(t *testing.T) {
	proof := newProof(t, "pp0", "Init", "Done")
	backend := client.NewReplayer()

	p, err := New(Config{Backend: backend})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.AdvanceProofParallel(context.Background(), proof); err == nil {
		t.Fatalf("expected AdvanceProofParallel to reject a prover built with Workers <= 1")
	}
}

func TestAdvanceProofParallelSubsumesIntoTarget(t *testing.T) {
	proof := newProof(t, "pp1", "Init", "Done")
	backend := client.NewReplayer()
	backend.OnImplies(client.ImpliesResult{Satisfiable: true, CSubst: cterm.NewCSubst(nil)}, nil)

	p, err := New(Config{Backend: backend, MaxIterations: 10, Workers: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	status, err := p.AdvanceProofParallel(context.Background(), proof)
	if err != nil {
		t.Fatalf("AdvanceProofParallel: %v", err)
	}
	if status != Passed {
		t.Fatalf("expected Passed, got %v", status)
	}
}

func TestAdvanceProofParallelExtendsThenCommits(t *testing.T) {
	proof := newProof(t, "pp2", "Init", "Done")
	backend := client.NewReplayer()
	backend.OnImplies(client.ImpliesResult{Satisfiable: false}, nil)
	backend.OnExecute(client.DepthBound{StateTerm: configOf(t, "Mid"), Depth: 2}, nil)
	backend.OnImplies(client.ImpliesResult{Satisfiable: true, CSubst: cterm.NewCSubst(nil)}, nil)

	p, err := New(Config{Backend: backend, MaxIterations: 10, Workers: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	status, err := p.AdvanceProofParallel(context.Background(), proof)
	if err != nil {
		t.Fatalf("AdvanceProofParallel: %v", err)
	}
	if status != Passed {
		t.Fatalf("expected Passed, got %v", status)
	}
	if len(proof.CFG.Edges()) != 1 {
		t.Fatalf("expected one edge from the depth-bound step, got %d", len(proof.CFG.Edges()))
	}
}

func TestAdvanceProofParallelHonorsIterationBound(t *testing.T) {
	proof := newProof(t, "pp3", "Init", "Done")
	backend := client.NewReplayer()
	for i := 0; i < 5; i++ {
		backend.OnImplies(client.ImpliesResult{Satisfiable: false}, nil)
		backend.OnExecute(client.DepthBound{StateTerm: configOf(t, fmt.Sprintf("Loop%d", i)), Depth: 1}, nil)
	}

	p, err := New(Config{Backend: backend, MaxIterations: 2, Workers: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	status, err := p.AdvanceProofParallel(context.Background(), proof)
	if err != nil {
		t.Fatalf("AdvanceProofParallel: %v", err)
	}
	if status != Pending {
		t.Fatalf("expected Pending after hitting the iteration bound, got %v", status)
	}
}
