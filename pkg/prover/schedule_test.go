package prover

import (
	"errors"
	"strings"
	"testing"

	"github.com/gitrdm/kprove/pkg/cfg"
)

func bareProof(t *testing.T, id string, deps ...string) *Proof {
	t.Helper()
	g := cfg.New()
	n := g.CreateNode(configOf(t, id+"-init"))
	g.SetInit(n.ID())
	p := NewProof(id, g)
	p.Dependencies = deps
	return p
}

func TestScheduleOrdersByDependency(t *testing.T) {
	a := bareProof(t, "a")
	b := bareProof(t, "b", "a")
	c := bareProof(t, "c", "a", "b")

	order, err := Schedule([]*Proof{c, b, a})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 proofs in order, got %d", len(order))
	}
	pos := map[string]int{}
	for i, p := range order {
		pos[p.ID] = i
	}
	if pos["a"] >= pos["b"] || pos["b"] >= pos["c"] {
		t.Fatalf("expected order a, b, c; got %v", []string{order[0].ID, order[1].ID, order[2].ID})
	}
}

func TestScheduleIndependentProofsBothAppear(t *testing.T) {
	a := bareProof(t, "a")
	b := bareProof(t, "b")

	order, err := Schedule([]*Proof{b, a})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("expected both independent proofs scheduled, got %d", len(order))
	}
}

func TestScheduleUnknownDependency(t *testing.T) {
	a := bareProof(t, "a", "ghost")

	_, err := Schedule([]*Proof{a})
	if !errors.Is(err, ErrUnknownDependency) {
		t.Fatalf("expected ErrUnknownDependency, got %v", err)
	}
}

func TestScheduleCycleReportsEveryBlockedProof(t *testing.T) {
	a := bareProof(t, "a", "b")
	b := bareProof(t, "b", "a")

	_, err := Schedule([]*Proof{a, b})
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle, got %v", err)
	}
	if !strings.Contains(err.Error(), `"a"`) || !strings.Contains(err.Error(), `"b"`) {
		t.Fatalf("expected the aggregated error to mention both blocked proofs: %v", err)
	}
}
