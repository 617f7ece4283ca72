package prover

import (
	"testing"

	"github.com/gitrdm/kprove/pkg/cfg"
	"github.com/gitrdm/kprove/pkg/cterm"
	"github.com/gitrdm/kprove/pkg/term"
)

func configOf(t *testing.T, label string) *cterm.CTerm {
	t.Helper()
	return cterm.New(term.NewApplication(label, nil, "State", nil))
}

// newProof builds a Proof whose CFG has a single init node and a distinct
// target node, ready for AdvanceProof.
func newProof(t *testing.T, id, initLabel, targetLabel string) *Proof {
	t.Helper()
	g := cfg.New()
	initNode := g.CreateNode(configOf(t, initLabel))
	g.SetInit(initNode.ID())
	targetNode := g.CreateNode(configOf(t, targetLabel))
	g.SetTarget(targetNode.ID())
	return NewProof(id, g)
}
