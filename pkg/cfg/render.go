package cfg

import (
	"fmt"
	"sort"
	"strings"
)

// Render produces a tree-shaped text view of the graph rooted at #init (or,
// lacking an init node, every root with no predecessor), in the manner of
// pyk's KCFGShow: one line per node with a shortened hash and its flags,
// indented by successor edges, annotated where aliases, init, and target
// land. Used by the show/view CLI commands.
func (g *CFG) Render() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var b strings.Builder
	visited := map[NodeId]bool{}

	roots := g.rootsLocked()
	for _, r := range roots {
		g.renderNodeLocked(&b, r, "", true, visited)
	}

	// Any node unreachable from a root (e.g. an orphaned cover target in a
	// partially built graph) still gets printed, so Render never silently
	// drops nodes.
	var stray []NodeId
	for id := range g.nodes {
		if !visited[id] {
			stray = append(stray, id)
		}
	}
	sort.Slice(stray, func(i, j int) bool { return stray[i] < stray[j] })
	for _, id := range stray {
		g.renderNodeLocked(&b, id, "", true, visited)
	}

	return b.String()
}

func (g *CFG) rootsLocked() []NodeId {
	if g.hasInit {
		return []NodeId{g.init}
	}
	var roots []NodeId
	for id := range g.nodes {
		if len(g.predecessors[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return g.creationOrder[roots[i]] < g.creationOrder[roots[j]] })
	return roots
}

func (g *CFG) renderNodeLocked(b *strings.Builder, id NodeId, prefix string, isLast bool, visited map[NodeId]bool) {
	if visited[id] {
		fmt.Fprintf(b, "%s%s (already shown)\n", prefix, ShortID(id))
		return
	}
	visited[id] = true

	n := g.nodes[id]
	fmt.Fprintf(b, "%s%s%s\n", prefix, ShortID(id), nodeLabel(g, id, n))

	childPrefix := prefix + "│  "
	if isLast {
		childPrefix = prefix + "   "
	}

	s, ok := g.successors[id]
	if !ok {
		return
	}
	switch v := s.(type) {
	case *Edge:
		fmt.Fprintf(b, "%s├─ edge (depth %d, rules %s)\n", childPrefix, v.Depth, strings.Join(v.Rules, ", "))
		g.renderNodeLocked(b, v.TargetID, childPrefix, true, visited)
	case *Cover:
		fmt.Fprintf(b, "%s├─ cover → %s\n", childPrefix, ShortID(v.TargetID))
	case *Split:
		for i, br := range v.Branches {
			fmt.Fprintf(b, "%s├─ split branch %d\n", childPrefix, i)
			g.renderNodeLocked(b, br.Target, childPrefix+"  ", i == len(v.Branches)-1, visited)
		}
	case *NDBranch:
		for i, t := range v.TargetIDs {
			fmt.Fprintf(b, "%s├─ branch %d (rules %s)\n", childPrefix, i, strings.Join(v.Rules, ", "))
			g.renderNodeLocked(b, t, childPrefix+"  ", i == len(v.TargetIDs)-1, visited)
		}
	case *Vacuous:
		// No target to recurse into.
	}
}

func nodeLabel(g *CFG, id NodeId, n *Node) string {
	var tags []string
	if g.hasInit && g.init == id {
		tags = append(tags, "init")
	}
	if g.hasTarget && g.target == id {
		tags = append(tags, "target")
	}
	if n.flags.terminal {
		tags = append(tags, "terminal")
	}
	if n.flags.stuck {
		tags = append(tags, "stuck")
	}
	if n.flags.vacuous {
		tags = append(tags, "vacuous")
	}
	if n.flags.admitted {
		tags = append(tags, "admitted")
	}
	if n.flags.bounded {
		tags = append(tags, "bounded")
	}
	var aliases []string
	for name, aliased := range g.aliases {
		if aliased == id {
			aliases = append(aliases, "@"+name)
		}
	}
	sort.Strings(aliases)
	tags = append(tags, aliases...)
	if len(tags) == 0 {
		return ""
	}
	return " (" + strings.Join(tags, ", ") + ")"
}
