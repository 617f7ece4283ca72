package cfg

// LiftEdge collapses A → mid → C into A → C when mid has exactly one
// incoming Edge (from A) and one outgoing Edge (to C), summing depth and
// concatenating rule lists. mid is removed. Returns false (no error) if
// mid does not match this shape.
func (g *CFG) LiftEdge(mid NodeId) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	outEdge, ok := g.successors[mid].(*Edge)
	if !ok {
		return false, nil
	}
	aID, ok := soleIncomingEdgeSource(g, mid)
	if !ok {
		return false, nil
	}
	inEdge := g.successors[aID].(*Edge)

	merged := &Edge{
		SourceID: aID,
		TargetID: outEdge.TargetID,
		Depth:    inEdge.Depth + outEdge.Depth,
		Rules:    append(append([]string(nil), inEdge.Rules...), outEdge.Rules...),
	}
	g.rewireAfterLiftLocked(mid, aID, merged, []NodeId{outEdge.TargetID})
	return true, nil
}

// LiftSplit pushes a Split successor of mid up to mid's sole predecessor A
// (reached from A by a single Edge), producing A → [branches] directly and
// removing mid, provided none of the branches' residual constraints
// mention a variable introduced between A's cterm and mid's cterm — lifting
// would otherwise let a branch condition outlive the state it depends on.
func (g *CFG) LiftSplit(mid NodeId) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	split, ok := g.successors[mid].(*Split)
	if !ok {
		return false, nil
	}
	aID, ok := soleIncomingEdgeSource(g, mid)
	if !ok {
		return false, nil
	}

	introduced := introducedVars(g.nodes[aID], g.nodes[mid])
	for _, b := range split.Branches {
		for _, c := range b.CSubst.Constraints {
			for name := range c.FreeVars() {
				if introduced[name] {
					return false, nil
				}
			}
		}
	}

	lifted := &Split{SourceID: aID, Branches: append([]SplitBranch(nil), split.Branches...)}
	targets := make([]NodeId, len(split.Branches))
	for i, b := range split.Branches {
		targets[i] = b.Target
	}
	g.rewireAfterLiftLocked(mid, aID, lifted, targets)
	return true, nil
}

// soleIncomingEdgeSource returns mid's unique predecessor, if mid has
// exactly one predecessor and that predecessor reaches mid via an Edge.
func soleIncomingEdgeSource(g *CFG, mid NodeId) (NodeId, bool) {
	preds := g.predecessors[mid]
	if len(preds) != 1 {
		return "", false
	}
	var aID NodeId
	for p := range preds {
		aID = p
	}
	edge, ok := g.successors[aID].(*Edge)
	if !ok || edge.TargetID != mid {
		return "", false
	}
	return aID, true
}

func introducedVars(a, mid *Node) map[string]bool {
	out := map[string]bool{}
	aVars := a.cterm.FreeVars()
	for name := range mid.cterm.FreeVars() {
		if _, inA := aVars[name]; !inA {
			out[name] = true
		}
	}
	return out
}

// rewireAfterLiftLocked installs replacement as the successor of newSource
// in place of mid, repoints every target's predecessor set from mid to
// newSource, and deletes mid entirely. Caller holds g.mu.
func (g *CFG) rewireAfterLiftLocked(mid, newSource NodeId, replacement Successor, targets []NodeId) {
	delete(g.successors, mid)
	g.successors[newSource] = replacement
	for _, t := range targets {
		if preds, ok := g.predecessors[t]; ok {
			delete(preds, mid)
			preds[newSource] = true
		}
	}
	delete(g.predecessors, mid)
	delete(g.nodes, mid)
	delete(g.creationOrder, mid)
	for name, aliased := range g.aliases {
		if aliased == mid {
			delete(g.aliases, name)
		}
	}
}

// Minimize repeatedly applies LiftEdge then LiftSplit across every node
// until a fixed point: no further lift changes the graph. Minimize is
// idempotent: Minimize(Minimize(g)) == Minimize(g).
func (g *CFG) Minimize() {
	for {
		changed := false
		for _, id := range g.nodeIDsSnapshot() {
			if ok, _ := g.LiftEdge(id); ok {
				changed = true
			}
		}
		for _, id := range g.nodeIDsSnapshot() {
			if ok, _ := g.LiftSplit(id); ok {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func (g *CFG) nodeIDsSnapshot() []NodeId {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]NodeId, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	return out
}
