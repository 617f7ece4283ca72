package cfg

import "github.com/gitrdm/kprove/pkg/cterm"

// Successor is the tagged union of the five ways a node connects forward
// in the graph. Every variant has a Source; Targets enumerates every node
// id a consumer must also consider present in the graph. Consumers switch
// exhaustively on the concrete type rather than walking a base pointer.
type Successor interface {
	Source() NodeId
	Targets() []NodeId
	successorKind() string
}

// Edge records that Target is reached from Source by Depth concrete
// rewrite steps, having applied the rules in Rules in order.
type Edge struct {
	SourceID NodeId
	TargetID NodeId
	Depth    int
	Rules    []string
}

func (e *Edge) Source() NodeId      { return e.SourceID }
func (e *Edge) Targets() []NodeId   { return []NodeId{e.TargetID} }
func (e *Edge) successorKind() string { return "edge" }

// Cover records that Source is subsumed by Target under CSubst: the
// witness of an implication. Covers are how the prover closes a branch
// against the proof target or against an already-explored node (a loop
// invariant).
type Cover struct {
	SourceID NodeId
	TargetID NodeId
	CSubst   *cterm.CSubst
}

func (c *Cover) Source() NodeId      { return c.SourceID }
func (c *Cover) Targets() []NodeId   { return []NodeId{c.TargetID} }
func (c *Cover) successorKind() string { return "cover" }

// SplitBranch is one arm of a Split: the source under the extra
// constraints CSubst contributes, landing on Target.
type SplitBranch struct {
	Target NodeId
	CSubst *cterm.CSubst
}

// Split is a deterministic case split: the disjunction of the branches'
// CSubsts is a tautology over Source, so every concrete behavior of
// Source lands in exactly one branch.
type Split struct {
	SourceID NodeId
	Branches []SplitBranch
}

func (s *Split) Source() NodeId { return s.SourceID }
func (s *Split) Targets() []NodeId {
	ids := make([]NodeId, len(s.Branches))
	for i, b := range s.Branches {
		ids[i] = b.Target
	}
	return ids
}
func (s *Split) successorKind() string { return "split" }

// NDBranch is a nondeterministic branch built into the semantics itself
// (e.g. an interpreter choice rule): every target is equally possible and
// no per-branch substitution distinguishes them.
type NDBranch struct {
	SourceID  NodeId
	TargetIDs []NodeId
	Rules     []string
}

func (b *NDBranch) Source() NodeId      { return b.SourceID }
func (b *NDBranch) Targets() []NodeId   { return append([]NodeId(nil), b.TargetIDs...) }
func (b *NDBranch) successorKind() string { return "ndbranch" }

// Vacuous marks that Source's constraints are unsatisfiable; the node has
// no real targets, it is simply closed off from further exploration.
type Vacuous struct {
	SourceID NodeId
}

func (v *Vacuous) Source() NodeId      { return v.SourceID }
func (v *Vacuous) Targets() []NodeId   { return nil }
func (v *Vacuous) successorKind() string { return "vacuous" }

// WithSingleTarget projects a branching successor (Split or NDBranch) down
// to a single chosen target, for path enumeration: paths_between emits one
// path per branch, each seeing only the target it chose.
func WithSingleTarget(s Successor, target NodeId) Successor {
	switch v := s.(type) {
	case *Split:
		for _, b := range v.Branches {
			if b.Target == target {
				return &Split{SourceID: v.SourceID, Branches: []SplitBranch{b}}
			}
		}
	case *NDBranch:
		for _, t := range v.TargetIDs {
			if t == target {
				return &NDBranch{SourceID: v.SourceID, TargetIDs: []NodeId{t}, Rules: v.Rules}
			}
		}
	}
	return s
}
