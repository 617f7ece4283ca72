package cfg

import "github.com/gitrdm/kprove/pkg/term"

// TopLabel is the label this package uses for the trivial "true" predicate,
// returned by PathConstraints when a node's path carries no constraints.
const TopLabel = "#Top"

// PathConstraints walks the shortest path from the CFG's init node to n
// (in order from init, as ShortestPathBetween returns it), conjoining
// every Split and Cover successor's witness constraints along the way,
// and returns the predicate under which n is reachable.
//
// When n is reachable by more than one path, this takes the shortest one;
// whether that is the intended choice when path predicates differ across
// paths is left as an open question by the source material — callers
// that need the others should use PathsBetween directly and compare.
func (g *CFG) PathConstraints(n NodeId) (term.Term, error) {
	g.mu.RLock()
	hasInit := g.hasInit
	init := g.init
	g.mu.RUnlock()
	if !hasInit {
		return nil, ErrNoInitNode
	}

	path, ok := g.ShortestPathBetween(init, n)
	if !ok {
		return nil, ErrNodeNotFound
	}

	var preds []term.Term
	for _, s := range path {
		switch v := s.(type) {
		case *Cover:
			preds = append(preds, v.CSubst.Constraints...)
		case *Split:
			if len(v.Branches) == 1 {
				preds = append(preds, v.Branches[0].CSubst.Constraints...)
			}
		}
	}
	return conjoin(preds), nil
}

func conjoin(preds []term.Term) term.Term {
	if len(preds) == 0 {
		return term.NewApplication(TopLabel, nil, "Bool", nil)
	}
	acc := preds[0]
	for _, p := range preds[1:] {
		acc = term.NewApplication("#And", nil, "Bool", []term.Term{acc, p})
	}
	return acc
}
