package cfg

import "testing"

func TestLiftEdgeMergesDepthAndRules(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	mid := g.GetOrCreateNode(configOf(t, "mid"))
	c := g.GetOrCreateNode(configOf(t, "c"))

	if _, err := g.CreateEdge(a.ID(), mid.ID(), 2, []string{"r1"}); err != nil {
		t.Fatalf("CreateEdge a->mid: %v", err)
	}
	if _, err := g.CreateEdge(mid.ID(), c.ID(), 3, []string{"r2"}); err != nil {
		t.Fatalf("CreateEdge mid->c: %v", err)
	}

	lifted, err := g.LiftEdge(mid.ID())
	if err != nil {
		t.Fatalf("LiftEdge: %v", err)
	}
	if !lifted {
		t.Fatalf("expected LiftEdge to report a change")
	}
	if g.ContainsNode(mid.ID()) {
		t.Fatalf("expected mid to be removed after lifting")
	}

	s, ok := g.Successor(a.ID())
	if !ok {
		t.Fatalf("expected a to have a successor after lift")
	}
	edge, ok := s.(*Edge)
	if !ok {
		t.Fatalf("expected *Edge successor, got %T", s)
	}
	if edge.Depth != 5 {
		t.Fatalf("expected merged depth 5, got %d", edge.Depth)
	}
	if edge.TargetID != c.ID() {
		t.Fatalf("expected merged edge to target c")
	}
	if len(edge.Rules) != 2 || edge.Rules[0] != "r1" || edge.Rules[1] != "r2" {
		t.Fatalf("expected concatenated rules [r1 r2], got %v", edge.Rules)
	}
}

func TestLiftEdgeNoOpWhenNotShaped(t *testing.T) {
	g := New()
	a := g.GetOrCreateNode(configOf(t, "a"))
	b := g.GetOrCreateNode(configOf(t, "b"))
	if _, err := g.CreateEdge(a.ID(), b.ID(), 1, nil); err != nil {
		t.Fatalf("CreateEdge: %v", err)
	}
	lifted, err := g.LiftEdge(a.ID())
	if err != nil {
		t.Fatalf("LiftEdge: %v", err)
	}
	if lifted {
		t.Fatalf("expected no lift when mid has no incoming edge")
	}
}

func TestMinimizeIsIdempotent(t *testing.T) {
	g, ids := buildLinearChain(t, 5)
	g.Minimize()
	firstPass := g.ToJSONMust(t)

	g.Minimize()
	secondPass := g.ToJSONMust(t)

	if string(firstPass) != string(secondPass) {
		t.Fatalf("expected Minimize to be idempotent")
	}
	if len(g.Nodes()) != 2 {
		t.Fatalf("expected minimize to collapse the chain down to endpoints, got %d nodes", len(g.Nodes()))
	}
	if !g.ContainsNode(ids[0]) || !g.ContainsNode(ids[len(ids)-1]) {
		t.Fatalf("expected endpoints of the chain to survive minimization")
	}
}

// ToJSONMust is a test-only convenience wrapper so minimization idempotence
// can be compared by serialized form without threading *testing.T through
// ToJSON's error path everywhere it's used in assertions.
func (g *CFG) ToJSONMust(t *testing.T) []byte {
	t.Helper()
	data, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	return data
}
