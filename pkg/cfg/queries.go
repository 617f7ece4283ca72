package cfg

// Edges returns every Edge successor in the graph.
func (g *CFG) Edges() []*Edge { return filterSuccessors[*Edge](g) }

// Covers returns every Cover successor in the graph.
func (g *CFG) Covers() []*Cover { return filterSuccessors[*Cover](g) }

// Splits returns every Split successor in the graph.
func (g *CFG) Splits() []*Split { return filterSuccessors[*Split](g) }

// NDBranches returns every NDBranch successor in the graph.
func (g *CFG) NDBranches() []*NDBranch { return filterSuccessors[*NDBranch](g) }

func filterSuccessors[T Successor](g *CFG) []T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []T
	for _, s := range g.successors {
		if v, ok := s.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// ReachableNodes returns every node reachable from id by following
// successors (or predecessors, if reverse), including id itself. Cover
// successors are only followed when traverseCovers is true, since a Cover
// may close a cycle back toward an ancestor.
func (g *CFG) ReachableNodes(id NodeId, reverse, traverseCovers bool) []NodeId {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := map[NodeId]bool{}
	stack := []NodeId{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if reverse {
			for pred := range g.predecessors[cur] {
				s, ok := g.successors[pred]
				if !ok || (!traverseCovers && isCover(s)) {
					continue
				}
				stack = append(stack, pred)
			}
			continue
		}
		s, ok := g.successors[cur]
		if !ok || (!traverseCovers && isCover(s)) {
			continue
		}
		stack = append(stack, s.Targets()...)
	}

	out := make([]NodeId, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	return out
}

func isCover(s Successor) bool {
	_, ok := s.(*Cover)
	return ok
}

// PathsBetween enumerates every path from src to dst by depth-first
// traversal. At a Split or NDBranch, the enumeration emits one path per
// chosen target (via WithSingleTarget). Cover successors are only
// traversed when traverseCovers is true, preventing infinite loops
// through loop-invariant edges.
func (g *CFG) PathsBetween(src, dst NodeId, traverseCovers bool) [][]Successor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var results [][]Successor
	visiting := map[NodeId]bool{}

	var dfs func(cur NodeId, path []Successor)
	dfs = func(cur NodeId, path []Successor) {
		if cur == dst {
			results = append(results, append([]Successor(nil), path...))
			return
		}
		if visiting[cur] {
			return
		}
		visiting[cur] = true
		defer delete(visiting, cur)

		s, ok := g.successors[cur]
		if !ok || (!traverseCovers && isCover(s)) {
			return
		}
		for _, t := range s.Targets() {
			dfs(t, append(path, WithSingleTarget(s, t)))
		}
	}
	dfs(src, nil)
	return results
}

// ShortestPathBetween returns the shortest (fewest-successor) path from
// src to dst, following Cover successors — loop invariants are part of the
// graph's real shape for this query, since path_constraints needs to walk
// through them.
func (g *CFG) ShortestPathBetween(src, dst NodeId) ([]Successor, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if src == dst {
		return nil, true
	}

	visited := map[NodeId]pathStep{src: {}}
	queue := []NodeId{src}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		s, ok := g.successors[cur]
		if !ok {
			continue
		}
		for _, t := range s.Targets() {
			if _, seen := visited[t]; seen {
				continue
			}
			visited[t] = pathStep{via: WithSingleTarget(s, t), from: cur}
			if t == dst {
				return reconstructPath(visited, src, dst), true
			}
			queue = append(queue, t)
		}
	}
	return nil, false
}

// pathStep is one hop recorded by ShortestPathBetween's BFS.
type pathStep struct {
	via  Successor
	from NodeId
}

func reconstructPath(visited map[NodeId]pathStep, src, dst NodeId) []Successor {
	var path []Successor
	node := dst
	for node != src {
		st := visited[node]
		path = append([]Successor{st.via}, path...)
		node = st.from
	}
	return path
}
