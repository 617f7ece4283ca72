package cfg

import (
	"sort"

	"github.com/gitrdm/kprove/pkg/cterm"
)

// CreateEdge records depth concrete rewrite steps from source to target,
// having applied rules in order. Fails if source already has an outgoing
// successor.
func (g *CFG) CreateEdge(source, target NodeId, depth int, rules []string) (*Edge, error) {
	if depth < 1 {
		return nil, ErrInvalidDepth
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireNoSuccessorLocked(source); err != nil {
		return nil, err
	}
	e := &Edge{SourceID: source, TargetID: target, Depth: depth, Rules: append([]string(nil), rules...)}
	g.linkLocked(e)
	return e, nil
}

// CreateCover records that source is subsumed by target under csubst,
// closing this branch of the exploration.
func (g *CFG) CreateCover(source, target NodeId, csubst *cterm.CSubst) (*Cover, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireNoSuccessorLocked(source); err != nil {
		return nil, err
	}
	c := &Cover{SourceID: source, TargetID: target, CSubst: csubst}
	g.linkLocked(c)
	return c, nil
}

// CreateSplit records a deterministic case split: the disjunction of the
// branches' csubsts is a tautology over source. Fails with fewer than two
// branches.
func (g *CFG) CreateSplit(source NodeId, branches []SplitBranch) (*Split, error) {
	if len(branches) < 2 {
		return nil, ErrTooFewTargets
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireNoSuccessorLocked(source); err != nil {
		return nil, err
	}
	s := &Split{SourceID: source, Branches: append([]SplitBranch(nil), branches...)}
	g.linkLocked(s)
	return s, nil
}

// CreateNDBranch records a nondeterministic branch built into the
// semantics. Fails with fewer than two targets.
func (g *CFG) CreateNDBranch(source NodeId, targets []NodeId, rules []string) (*NDBranch, error) {
	if len(targets) < 2 {
		return nil, ErrTooFewTargets
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireNoSuccessorLocked(source); err != nil {
		return nil, err
	}
	b := &NDBranch{SourceID: source, TargetIDs: append([]NodeId(nil), targets...), Rules: append([]string(nil), rules...)}
	g.linkLocked(b)
	return b, nil
}

func (g *CFG) requireNoSuccessorLocked(source NodeId) error {
	if _, ok := g.successors[source]; ok {
		return ErrSourceHasSuccessor
	}
	return nil
}

func (g *CFG) linkLocked(s Successor) {
	g.successors[s.Source()] = s
	for _, t := range s.Targets() {
		if g.predecessors[t] == nil {
			g.predecessors[t] = map[NodeId]bool{}
		}
		g.predecessors[t][s.Source()] = true
	}
}

// Successor returns the single outgoing successor of id, if any.
func (g *CFG) Successor(id NodeId) (Successor, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.successors[id]
	return s, ok
}

// Successors returns every successor whose source is id — at most one,
// per the CFG's single-outgoing-successor invariant; kept plural to match
// the query surface the prover and the CLI expect.
func (g *CFG) Successors(id NodeId) []Successor {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if s, ok := g.successors[id]; ok {
		return []Successor{s}
	}
	return nil
}

// Predecessors returns the ids of every node with an outgoing successor
// that names id as one of its targets.
func (g *CFG) Predecessors(id NodeId) []NodeId {
	g.mu.RLock()
	defer g.mu.RUnlock()
	preds := g.predecessors[id]
	out := make([]NodeId, 0, len(preds))
	for p := range preds {
		out = append(out, p)
	}
	return out
}

// IsLeaf reports whether id has no outgoing successor.
func (g *CFG) IsLeaf(id NodeId) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.successors[id]
	return !ok
}

// IsCovered reports whether id's outgoing successor is a Cover.
func (g *CFG) IsCovered(id NodeId) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.successors[id]
	if !ok {
		return false
	}
	_, isCover := s.(*Cover)
	return isCover
}

// IsInit reports whether id is the CFG's init node.
func (g *CFG) IsInit(id NodeId) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasInit && g.init == id
}

// IsTargetNode reports whether id is the CFG's target node.
func (g *CFG) IsTargetNode(id NodeId) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasTarget && g.target == id
}

// IsPending reports whether id is a leaf that is neither terminal, stuck,
// vacuous, covered, nor already claimed for expansion — i.e. still needs
// prover attention.
func (g *CFG) IsPending(id NodeId) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	if n.flags.terminal || n.flags.stuck || n.flags.vacuous || n.flags.expanded {
		return false
	}
	if _, hasSucc := g.successors[id]; hasSucc {
		return false
	}
	return true
}

// Pending returns every pending node id, in the order CreateNode /
// GetOrCreateNode first produced them (insertion order of the underlying
// map is not guaranteed in Go, so the prover's FIFO discipline is carried
// by a creation-order counter instead — see the CFG's creationOrder field
// in cfg.go).
func (g *CFG) Pending() []NodeId {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var all []pendingEntry
	for id, n := range g.nodes {
		if n.flags.terminal || n.flags.stuck || n.flags.vacuous || n.flags.expanded {
			continue
		}
		if _, hasSucc := g.successors[id]; hasSucc {
			continue
		}
		all = append(all, pendingEntry{id: id, order: g.creationOrder[id]})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].order < all[j].order })
	out := make([]NodeId, len(all))
	for i, e := range all {
		out[i] = e.id
	}
	return out
}

type pendingEntry struct {
	id    NodeId
	order int
}
