package cfg

import (
	"strings"
	"sync"

	"github.com/gitrdm/kprove/pkg/cterm"
)

// CFG is a content-addressed multigraph of Nodes and Successors. It is
// logically single-owner (one prover task mutates it per spec §5), but
// guards its internal maps with a mutex anyway so a CLI `show`/`view`
// reader watching the save directory can read safely alongside the
// owning goroutine, the same defensive-locking posture gokanlogic's
// Substitution and WorkerPool types take even for state that is "really"
// single-threaded in normal use.
type CFG struct {
	mu          sync.RWMutex
	nodes         map[NodeId]*Node
	successors    map[NodeId]Successor
	predecessors  map[NodeId]map[NodeId]bool
	creationOrder map[NodeId]int
	nextOrder     int
	init          NodeId
	hasInit       bool
	target        NodeId
	hasTarget     bool
	aliases       map[string]NodeId
}

// New returns an empty CFG.
func New() *CFG {
	return &CFG{
		nodes:         map[NodeId]*Node{},
		successors:    map[NodeId]Successor{},
		predecessors:  map[NodeId]map[NodeId]bool{},
		creationOrder: map[NodeId]int{},
		aliases:       map[string]NodeId{},
	}
}

// CreateNode inserts a new node for ct. It does not fail when a node for
// ct's hash already exists: it returns that node, exactly as
// GetOrCreateNode does.
func (g *CFG) CreateNode(ct *cterm.CTerm) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.getOrCreateLocked(ct)
}

// GetOrCreateNode returns the existing node for ct's hash, or creates one.
func (g *CFG) GetOrCreateNode(ct *cterm.CTerm) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.getOrCreateLocked(ct)
}

func (g *CFG) getOrCreateLocked(ct *cterm.CTerm) *Node {
	id := ct.Hash()
	if existing, ok := g.nodes[id]; ok {
		return existing.clone()
	}
	n := newNode(ct)
	g.nodes[id] = n
	g.predecessors[id] = map[NodeId]bool{}
	g.creationOrder[id] = g.nextOrder
	g.nextOrder++
	return n.clone()
}

// GetNode returns the node with the given id, if present.
func (g *CFG) GetNode(id NodeId) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return n.clone(), true
}

// ContainsNode reports whether id names a node in the graph.
func (g *CFG) ContainsNode(id NodeId) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns every node in the graph, in no particular order.
func (g *CFG) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.clone())
	}
	return out
}

// RemoveNode deletes a node and every successor incident to it (as source
// or as a target), satisfying the no-dangling-references invariant.
func (g *CFG) RemoveNode(id NodeId) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[id]; !ok {
		return ErrNodeNotFound
	}

	if s, ok := g.successors[id]; ok {
		g.unlinkLocked(s)
		delete(g.successors, id)
	}
	for predID := range g.predecessors[id] {
		if s, ok := g.successors[predID]; ok && containsID(s.Targets(), id) {
			delete(g.successors, predID)
			g.unlinkLocked(s)
		}
	}
	delete(g.predecessors, id)
	delete(g.nodes, id)
	delete(g.creationOrder, id)

	for name, aliased := range g.aliases {
		if aliased == id {
			delete(g.aliases, name)
		}
	}
	if g.hasInit && g.init == id {
		g.hasInit = false
	}
	if g.hasTarget && g.target == id {
		g.hasTarget = false
	}
	return nil
}

func (g *CFG) unlinkLocked(s Successor) {
	for _, t := range s.Targets() {
		if preds, ok := g.predecessors[t]; ok {
			delete(preds, s.Source())
		}
	}
}

func containsID(ids []NodeId, target NodeId) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// ReplaceNode replaces the cterm at id with newCT, rewiring every incident
// successor to the new node's id (which may differ from the old one, since
// ids are content hashes).
func (g *CFG) ReplaceNode(id NodeId, newCT *cterm.CTerm) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	old, ok := g.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	replacement := g.getOrCreateLocked(newCT)
	newID := replacement.id
	if newID == id {
		return replacement, nil
	}

	// Rewire outgoing successor.
	if s, ok := g.successors[id]; ok {
		delete(g.successors, id)
		g.successors[newID] = rewireSource(s, newID)
		for _, t := range s.Targets() {
			if preds, ok := g.predecessors[t]; ok {
				delete(preds, id)
				preds[newID] = true
			}
		}
	}
	// Rewire incoming successors (this node as a target).
	for predID := range g.predecessors[id] {
		if s, ok := g.successors[predID]; ok {
			g.successors[predID] = rewireTarget(s, id, newID)
		}
	}
	g.predecessors[newID] = g.predecessors[id]
	delete(g.predecessors, id)
	if order, ok := g.creationOrder[id]; ok {
		g.creationOrder[newID] = order
		delete(g.creationOrder, id)
	}

	g.nodes[newID].flags = old.flags
	for name, aliased := range g.aliases {
		if aliased == id {
			g.aliases[name] = newID
		}
	}
	if g.hasInit && g.init == id {
		g.init = newID
	}
	if g.hasTarget && g.target == id {
		g.target = newID
	}
	delete(g.nodes, id)
	return g.nodes[newID].clone(), nil
}

func rewireSource(s Successor, newSource NodeId) Successor {
	switch v := s.(type) {
	case *Edge:
		cp := *v
		cp.SourceID = newSource
		return &cp
	case *Cover:
		cp := *v
		cp.SourceID = newSource
		return &cp
	case *Split:
		cp := *v
		cp.SourceID = newSource
		return &cp
	case *NDBranch:
		cp := *v
		cp.SourceID = newSource
		return &cp
	case *Vacuous:
		cp := *v
		cp.SourceID = newSource
		return &cp
	default:
		return s
	}
}

func rewireTarget(s Successor, oldTarget, newTarget NodeId) Successor {
	switch v := s.(type) {
	case *Edge:
		cp := *v
		if cp.TargetID == oldTarget {
			cp.TargetID = newTarget
		}
		return &cp
	case *Cover:
		cp := *v
		if cp.TargetID == oldTarget {
			cp.TargetID = newTarget
		}
		return &cp
	case *Split:
		cp := *v
		cp.Branches = append([]SplitBranch(nil), v.Branches...)
		for i, b := range cp.Branches {
			if b.Target == oldTarget {
				cp.Branches[i].Target = newTarget
			}
		}
		return &cp
	case *NDBranch:
		cp := *v
		cp.TargetIDs = append([]NodeId(nil), v.TargetIDs...)
		for i, t := range cp.TargetIDs {
			if t == oldTarget {
				cp.TargetIDs[i] = newTarget
			}
		}
		return &cp
	default:
		return s
	}
}

// SetInit marks id as the (unique) init node.
func (g *CFG) SetInit(id NodeId) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.init = id
	g.hasInit = true
	if n, ok := g.nodes[id]; ok {
		n.flags.root = true
	}
}

// SetTarget marks id as the (unique) target node.
func (g *CFG) SetTarget(id NodeId) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = id
	g.hasTarget = true
	if n, ok := g.nodes[id]; ok {
		n.flags.target = true
	}
}

// AddAlias attaches a named alias to id.
func (g *CFG) AddAlias(name string, id NodeId) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if strings.Contains(name, "@") {
		return ErrInvalidAliasName
	}
	if _, ok := g.aliases[name]; ok {
		return ErrAliasExists
	}
	g.aliases[name] = id
	return nil
}

// Aliases returns every alias name pointing at id.
func (g *CFG) Aliases(id NodeId) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var names []string
	for name, aliased := range g.aliases {
		if aliased == id {
			names = append(names, name)
		}
	}
	return names
}

func (g *CFG) setFlag(id NodeId, set func(*nodeFlags)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.nodes[id]; ok {
		set(&n.flags)
	}
}

// MarkTerminal flags id as a semantic normal form.
func (g *CFG) MarkTerminal(id NodeId) { g.setFlag(id, func(f *nodeFlags) { f.terminal = true }) }

// MarkStuck flags id as stuck: no applicable rewrite.
func (g *CFG) MarkStuck(id NodeId) { g.setFlag(id, func(f *nodeFlags) { f.stuck = true }) }

// MarkVacuous flags id as vacuous and records a Vacuous successor, so
// queries that walk successors see the marker too.
func (g *CFG) MarkVacuous(id NodeId) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.nodes[id]; ok {
		n.flags.vacuous = true
	}
	if _, hasSucc := g.successors[id]; !hasSucc {
		g.successors[id] = &Vacuous{SourceID: id}
	}
}

// MarkAdmitted flags id as trusted without proof.
func (g *CFG) MarkAdmitted(id NodeId) { g.setFlag(id, func(f *nodeFlags) { f.admitted = true }) }

// MarkBounded flags id as cut off by an APR-BMC loop-depth bound.
func (g *CFG) MarkBounded(id NodeId) { g.setFlag(id, func(f *nodeFlags) { f.bounded = true }) }

// ClaimForExpansion atomically marks id as expanded and reports whether
// this call was the one that did so. A worker dispatching an execute call
// for id must check this first, so the same source id is never sent to
// the backend twice concurrently (§5's no-duplicate-work ordering
// guarantee).
func (g *CFG) ClaimForExpansion(id NodeId) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok || n.flags.expanded {
		return false
	}
	n.flags.expanded = true
	return true
}

// UnclaimExpansion clears the expanded flag, used when a claimed step
// fails before producing a successor (e.g. a transport error exhausts
// retries) so a later prover iteration may retry it.
func (g *CFG) UnclaimExpansion(id NodeId) {
	g.setFlag(id, func(f *nodeFlags) { f.expanded = false })
}
